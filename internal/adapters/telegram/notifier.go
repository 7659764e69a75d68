package telegram

import (
	"MasarWeb/internal/core/ports"
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// sender is the part of *tgbotapi.BotAPI the notifier needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// tgNotifier posts operational notices to a single admin chat.
type tgNotifier struct {
	api    sender
	chatID int64
	log    zerolog.Logger
}

// NewNotifier creates a Notifier backed by a Telegram bot.
func NewNotifier(api sender, chatID int64, baseLogger *zerolog.Logger) ports.Notifier {
	log := baseLogger.With().Str("component", "tg_notifier").Logger()
	return &tgNotifier{api: api, chatID: chatID, log: log}
}

// NewBotAPI connects to Telegram with the given token.
func NewBotAPI(token string, baseLogger *zerolog.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	baseLogger.Info().Str("bot", api.Self.UserName).Msg("Telegram bot authorized")
	return api, nil
}

func (n *tgNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		n.log.Error().Err(err).Int64("chat_id", n.chatID).Msg("Failed to send notification")
		return err
	}
	return nil
}
