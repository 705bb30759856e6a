package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/reelview/internal/frontend/telegram"
)

// newBotCmd returns the "bot" subcommand for running the Telegram bot.
func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start the Telegram bot",
		Long:  "Start the reelview Telegram bot. Each user gets their own watchlist for the lifetime of the process.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd)
		},
	}
}

// runBot initializes the catalog and runs the Telegram bot until interrupted.
func runBot(cmd *cobra.Command) error {
	cfg, logger, svc, err := setup(cmd)
	if err != nil {
		return err
	}

	if cfg.Telegram == nil {
		return errors.New(
			"telegram configuration is required: set telegram.bot_token in config or REELVIEW_TELEGRAM_BOT_TOKEN env var",
		)
	}

	bot, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.AllowedUserIDs, svc, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("telegram bot starting")
	return bot.Start(ctx)
}
