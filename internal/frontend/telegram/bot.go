package telegram

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/reelview/internal/core"
)

// Catalog is the movie data the bot serves.
type Catalog interface {
	LowestRated(ctx context.Context) ([]core.Movie, error)
	TopRated(ctx context.Context) ([]core.Movie, error)
	Search(ctx context.Context, query string) ([]core.Movie, error)
	ByGenre(ctx context.Context, genre string) ([]core.Movie, error)
	Details(ctx context.Context, id string) (*core.MovieDetails, error)
	Cast(ctx context.Context, id string) ([]core.CastMember, error)
}

// sender is the part of the Bot API used to talk to chats.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot is the Telegram frontend for reelview.
// It implements the core.Frontend interface.
type Bot struct {
	api      *tgbotapi.BotAPI
	out      sender
	catalog  Catalog
	sessions *sessionManager
	logger   *slog.Logger
}

// compile-time check.
var _ core.Frontend = (*Bot)(nil)

// New creates a new Telegram Bot.
func New(token string, allowedUserIDs []int64, catalog Catalog, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	b := newBot(api, catalog, allowedUserIDs, logger)
	b.api = api
	return b, nil
}

// newBot wires a Bot around any sender. Start needs the real API.
func newBot(out sender, catalog Catalog, allowedUserIDs []int64, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		out:      out,
		catalog:  catalog,
		sessions: newSessionManager(allowedUserIDs),
		logger:   logger,
	}
}

// Name returns the frontend name.
func (b *Bot) Name() string { return "telegram" }

// Start starts the long-polling loop. It blocks until ctx is canceled.
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("telegram bot API not initialized")
	}

	b.logger.Info("telegram bot started",
		slog.String("username", b.api.Self.UserName),
	)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("telegram bot stopped")
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop stops the bot (no-op, Start returns when ctx is canceled).
func (b *Bot) Stop(_ context.Context) error {
	return nil
}

// SendMessage sends a text message to a Telegram user.
func (b *Bot) SendMessage(_ context.Context, userID, message string) error {
	var chatID int64
	if _, err := fmt.Sscanf(userID, "%d", &chatID); err != nil {
		return fmt.Errorf("invalid user ID %q: %w", userID, err)
	}

	msg := tgbotapi.NewMessage(chatID, message)
	_, err := b.out.Send(msg)
	return err
}

// handleUpdate dispatches an incoming Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}
