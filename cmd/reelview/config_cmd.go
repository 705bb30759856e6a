package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigCmd returns the "config" subcommand group for configuration management.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

// newConfigValidateCmd returns the "config validate" subcommand that checks config validity.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Println(styleSuccess.Render("✓ Configuration is valid"))
			fmt.Println(styleDim.Render(fmt.Sprintf("  api: %s (host %s)", sanitizeURL(cfg.API.BaseURL), cfg.API.Host)))
			fmt.Println(styleDim.Render(fmt.Sprintf("  browse: sort %s, load more %d after %s",
				cfg.Browse.Sort, cfg.Browse.LoadMoreBatch, cfg.Browse.Delay())))
			if cfg.Telegram != nil {
				fmt.Println(styleDim.Render(fmt.Sprintf("  telegram: enabled, %d allowed users", len(cfg.Telegram.AllowedUserIDs))))
			}
			return nil
		},
	}
}
