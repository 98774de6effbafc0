package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/reshetovitsme/stream-schedule-feed/internal/modules/notification/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Dispatcher announces notifications in Telegram chats
type Dispatcher struct {
	bot     *bot.Bot
	chatIDs []int64
	logger  *slog.Logger
}

// New creates a Telegram dispatcher posting to chatIDs
func New(token, apiURL string, chatIDs []int64, timeout time.Duration) (*Dispatcher, error) {
	if len(chatIDs) == 0 {
		return nil, oops.Errorf("telegram dispatcher needs at least one chat id")
	}

	opts := []bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(timeout, &http.Client{Timeout: lo.CoalesceOrEmpty(timeout, 15*time.Second)}),
	}
	if apiURL != "" {
		opts = append(opts, bot.WithServerURL(apiURL))
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
	}

	return &Dispatcher{bot: b, chatIDs: chatIDs, logger: slog.Default()}, nil
}

// SetLogger sets the logger
func (d *Dispatcher) SetLogger(logger *slog.Logger) {
	d.logger = logger
}

func (d *Dispatcher) Name() string {
	return "telegram"
}

// Dispatch sends the notification to every chat, as a photo when a
// thumbnail is known. A failing chat does not stop the others; the joined
// failures are returned.
func (d *Dispatcher) Dispatch(ctx context.Context, n domain.Notification) error {
	text := formatMessage(n)

	var errs []error
	for _, chatID := range d.chatIDs {
		var err error
		if n.ThumbnailURL != "" {
			_, err = d.bot.SendPhoto(ctx, &bot.SendPhotoParams{
				ChatID:    chatID,
				Photo:     &models.InputFileString{Data: n.ThumbnailURL},
				Caption:   text,
				ParseMode: models.ParseModeHTML,
			})
		} else {
			_, err = d.bot.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    chatID,
				Text:      text,
				ParseMode: models.ParseModeHTML,
			})
		}
		if err != nil {
			d.logger.Warn("Telegram delivery failed", "chat_id", chatID, "item_id", n.ItemID, "error", err)
			errs = append(errs, oops.With("chat_id", chatID, "item_id", n.ItemID, "context", "failed to send telegram message").Wrap(err))
		}
	}
	return errors.Join(errs...)
}

func formatMessage(n domain.Notification) string {
	return fmt.Sprintf("<b>%s</b>\n%s\n%s", html.EscapeString(n.Title), html.EscapeString(n.Body), n.Link)
}
