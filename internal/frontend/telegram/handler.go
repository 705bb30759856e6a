package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vadimtrunov/reelview/internal/catalog"
	"github.com/vadimtrunov/reelview/internal/core"
	"github.com/vadimtrunov/reelview/internal/watchlist"
)

const (
	unauthorizedMsg = "Sorry, you are not authorized to use this bot."
	errorMsg        = "Could not load movies right now. Please try again."
	noResultsMsg    = "No movies found."
	unknownMsg      = "Unknown command. Send /help for the list of commands."
	clearedMsg      = "Watchlist cleared."
	emptyListMsg    = "Your watchlist is empty. Open a movie and tap \"Add to watchlist\"."
	welcomeMsg      = `Welcome to reelview! Browse IMDb movies:
/lowest [sort] - lowest rated movies
/top [sort] - top rated movies
/search <query> - search by title (or just type it)
/genre <name> - movies of a genre
/movie <id> - movie details
/cast <id> - cast of a movie
/watchlist - your watchlist
/add <id>, /remove <id> - edit your watchlist
/clear - empty your watchlist
Sort is one of year, rating, title.`

	// Callback data prefixes for inline keyboard buttons.
	cbDetails = "mv:"
	cbAdd     = "wl+:"
	cbRemove  = "wl-:"
	cbCast    = "cast:"

	maxListItems   = 10 // movies per list message
	maxButtonLabel = 30 // max characters in inline keyboard button label
)

// handleMessage processes an incoming text message.
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	b.logger.Debug("received message",
		slog.Int64("user_id", userID),
	)

	if !b.sessions.isAllowed(userID) {
		b.sendText(chatID, unauthorizedMsg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	cmd, arg := parseCommand(text)
	switch cmd {
	case "":
		b.sendSearch(ctx, chatID, text)
	case "start", "help":
		b.sendText(chatID, welcomeMsg)
	case "lowest":
		b.sendList(ctx, chatID, "Lowest rated", arg, b.catalog.LowestRated)
	case "top":
		b.sendList(ctx, chatID, "Top rated", arg, b.catalog.TopRated)
	case "search":
		if arg == "" {
			b.sendText(chatID, "Usage: /search <query>")
			return
		}
		b.sendSearch(ctx, chatID, arg)
	case "genre":
		if arg == "" {
			b.sendText(chatID, "Usage: /genre <name>")
			return
		}
		b.sendList(ctx, chatID, "Genre: "+arg, "", func(ctx context.Context) ([]core.Movie, error) {
			return b.catalog.ByGenre(ctx, arg)
		})
	case "movie":
		if arg == "" {
			b.sendText(chatID, "Usage: /movie <id>")
			return
		}
		b.sendDetails(ctx, chatID, userID, arg)
	case "cast":
		if arg == "" {
			b.sendText(chatID, "Usage: /cast <id>")
			return
		}
		b.sendCast(ctx, chatID, arg)
	case "watchlist":
		b.sendWatchlist(chatID, userID)
	case "add":
		if arg == "" {
			b.sendText(chatID, "Usage: /add <id>")
			return
		}
		b.addToWatchlist(ctx, chatID, userID, arg)
	case "remove":
		if arg == "" {
			b.sendText(chatID, "Usage: /remove <id>")
			return
		}
		b.removeFromWatchlist(chatID, userID, arg)
	case "clear":
		b.sessions.reset(userID)
		b.sendText(chatID, clearedMsg)
	default:
		b.sendText(chatID, unknownMsg)
	}
}

// handleCallback processes inline keyboard callback queries.
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil || cq.Message == nil || cq.Message.Chat == nil {
		return
	}
	userID := cq.From.ID
	chatID := cq.Message.Chat.ID

	b.logger.Debug("received callback",
		slog.Int64("user_id", userID),
		slog.String("data", cq.Data),
	)

	// Acknowledge the callback immediately.
	b.out.Request(tgbotapi.NewCallback(cq.ID, "")) //nolint:errcheck // best-effort ack

	if !b.sessions.isAllowed(userID) {
		return
	}

	switch {
	case strings.HasPrefix(cq.Data, cbDetails):
		b.sendDetails(ctx, chatID, userID, strings.TrimPrefix(cq.Data, cbDetails))
	case strings.HasPrefix(cq.Data, cbAdd):
		b.addToWatchlist(ctx, chatID, userID, strings.TrimPrefix(cq.Data, cbAdd))
	case strings.HasPrefix(cq.Data, cbRemove):
		b.removeFromWatchlist(chatID, userID, strings.TrimPrefix(cq.Data, cbRemove))
	case strings.HasPrefix(cq.Data, cbCast):
		b.sendCast(ctx, chatID, strings.TrimPrefix(cq.Data, cbCast))
	}
}

// parseCommand splits "/cmd@bot args" into ("cmd", "args").
// Text that is not a command yields an empty command.
func parseCommand(text string) (string, string) {
	if !strings.HasPrefix(text, "/") {
		return "", text
	}
	cmd, arg, _ := strings.Cut(text[1:], " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

// sendList fetches a movie list, sorts it when asked and sends it.
func (b *Bot) sendList(
	ctx context.Context,
	chatID int64,
	title, sortArg string,
	fetch func(context.Context) ([]core.Movie, error),
) {
	var order catalog.SortOrder
	if sortArg != "" {
		var err error
		if order, err = catalog.ParseSortOrder(sortArg); err != nil {
			b.sendText(chatID, err.Error())
			return
		}
	}

	b.typing(chatID)
	movies, err := fetch(ctx)
	if err != nil {
		b.sendText(chatID, errorMsg)
		return
	}
	if sortArg != "" {
		movies = catalog.Sort(movies, order)
	}
	b.sendMovies(chatID, title, movies)
}

func (b *Bot) sendSearch(ctx context.Context, chatID int64, query string) {
	b.sendList(ctx, chatID, fmt.Sprintf("Results for %q", query), "", func(ctx context.Context) ([]core.Movie, error) {
		return b.catalog.Search(ctx, query)
	})
}

// sendMovies sends a numbered list with one details button per movie.
func (b *Bot) sendMovies(chatID int64, title string, movies []core.Movie) {
	if len(movies) == 0 {
		b.sendText(chatID, noResultsMsg)
		return
	}
	if len(movies) > maxListItems {
		movies = movies[:maxListItems]
	}
	md, plain := formatMovieList(title, movies)
	kb := movieKeyboard(movies)
	b.sendMarkdown(chatID, md, plain, &kb)
}

// sendDetails sends the poster (if any) and the details of a movie.
func (b *Bot) sendDetails(ctx context.Context, chatID, userID int64, id string) {
	b.typing(chatID)
	details, err := b.catalog.Details(ctx, id)
	if err != nil {
		b.sendText(chatID, errorMsg)
		return
	}

	b.sendPoster(chatID, details.Image, details.Title)

	md, plain := formatDetails(details)
	kb := detailsKeyboard(details.ID, b.sessions.watchlist(userID).Contains(details.ID))
	b.sendMarkdown(chatID, md, plain, &kb)
}

func (b *Bot) sendCast(ctx context.Context, chatID int64, id string) {
	b.typing(chatID)
	cast, err := b.catalog.Cast(ctx, id)
	if err != nil {
		b.sendText(chatID, errorMsg)
		return
	}
	if len(cast) == 0 {
		b.sendText(chatID, "No cast listed.")
		return
	}
	md, plain := formatCast(cast)
	b.sendMarkdown(chatID, md, plain, nil)
}

func (b *Bot) sendWatchlist(chatID, userID int64) {
	movies := b.sessions.watchlist(userID).List()
	if len(movies) == 0 {
		b.sendText(chatID, emptyListMsg)
		return
	}
	b.sendMovies(chatID, "Your watchlist", movies)
}

// addToWatchlist looks the movie up so the list shows real titles.
func (b *Bot) addToWatchlist(ctx context.Context, chatID, userID int64, id string) {
	details, err := b.catalog.Details(ctx, id)
	if err != nil {
		b.sendText(chatID, errorMsg)
		return
	}
	if b.sessions.watchlist(userID).Add(details.Movie) {
		b.sendText(chatID, fmt.Sprintf("Added %s to your watchlist.", details.Title))
		return
	}
	b.sendText(chatID, fmt.Sprintf("%s is already on your watchlist.", details.Title))
}

func (b *Bot) removeFromWatchlist(chatID, userID int64, id string) {
	err := b.sessions.watchlist(userID).Remove(id)
	switch {
	case errors.Is(err, watchlist.ErrNotFound):
		b.sendText(chatID, fmt.Sprintf("%s is not on your watchlist.", id))
	case err != nil:
		b.sendText(chatID, errorMsg)
	default:
		b.sendText(chatID, fmt.Sprintf("Removed %s from your watchlist.", id))
	}
}

// typing shows the typing indicator.
func (b *Bot) typing(chatID int64) {
	b.out.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)) //nolint:errcheck // best-effort typing indicator
}

// sendMarkdown sends MarkdownV2 text, falling back to plain text when Telegram rejects it.
func (b *Bot) sendMarkdown(chatID int64, md, plain string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, md)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Warn("failed to send markdown, retrying plain",
			slog.String("error", err.Error()),
		)
		b.sendPlainWithKeyboard(chatID, plain, kb)
	}
}

// sendText sends a plain text message (no parse mode).
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Error("failed to send message",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// sendPlainWithKeyboard sends a plain-text message with an optional inline keyboard.
func (b *Bot) sendPlainWithKeyboard(chatID int64, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := b.out.Send(msg); err != nil {
		b.logger.Error("failed to send message with keyboard",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// sendPoster sends a movie poster photo. Placeholder images are skipped.
func (b *Bot) sendPoster(chatID int64, url, caption string) {
	if url == "" || url == catalog.PlaceholderPoster {
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(url))
	photo.Caption = caption
	if _, err := b.out.Send(photo); err != nil {
		b.logger.Debug("failed to send poster",
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
	}
}

// movieKeyboard builds one details button per movie.
func movieKeyboard(movies []core.Movie) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(movies))
	for i, m := range movies {
		label := truncate(fmt.Sprintf("%d. %s", i+1, m.Title), maxButtonLabel)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, cbDetails+m.ID),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// detailsKeyboard offers the watchlist toggle and the cast list.
func detailsKeyboard(id string, listed bool) tgbotapi.InlineKeyboardMarkup {
	toggle := tgbotapi.NewInlineKeyboardButtonData("Add to watchlist", cbAdd+id)
	if listed {
		toggle = tgbotapi.NewInlineKeyboardButtonData("Remove from watchlist", cbRemove+id)
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(toggle, tgbotapi.NewInlineKeyboardButtonData("Cast", cbCast+id)),
	)
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
