package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	version           = "0.1.0"
	defaultConfigPath = "configs/reelview.yaml"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reelview",
		Short: "Browse IMDb movies from the terminal, Telegram or an MCP client",
		Long: "reelview fetches movie lists, search results and details from the IMDb API on RapidAPI\n" +
			"and presents them as sortable, filterable lists with a session watchlist.",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to configuration file")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newHomeCmd(),
		newLowestCmd(),
		newTopCmd(),
		newSearchCmd(),
		newGenreCmd(),
		newDetailsCmd(),
		newBrowseCmd(),
		newBotCmd(),
		newMCPServeCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("reelview v%s\n", version)
		},
	}
}
