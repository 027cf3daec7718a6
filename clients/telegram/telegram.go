// Package telegram delivers trade alerts and serves the bot command surface
// over the Telegram Bot API.
package telegram

import (
	"kekbot/clients/notifier"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Client sends alerts to Telegram chats and exposes the update stream for
// command handling. Implements notifier.Notifier.
type Client struct {
	logger *zap.Logger
	api    *tgbotapi.BotAPI
}

// NewClient authenticates against the Telegram Bot API.
func NewClient(logger *zap.Logger, token string) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger.Info("telegram bot initialized", zap.String("username", api.Self.UserName))
	return &Client{logger: logger, api: api}, nil
}

// Updates returns the long-poll update channel for the command surface.
func (c *Client) Updates(pollTimeout int) tgbotapi.UpdatesChannel {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	return c.api.GetUpdatesChan(cfg)
}

// SendTradeAlert sends a trade alert as a MarkdownV2 message, or as a
// captioned photo when the subscription carries an image URL.
// Implements notifier.Notifier.
func (c *Client) SendTradeAlert(alert notifier.TradeAlert) {
	caption := notifier.BuildCaption(alert)
	keyboard := buildKeyboard(alert)

	var err error
	if alert.ImageURL != "" {
		photo := tgbotapi.NewPhoto(alert.ChatID, tgbotapi.FileURL(alert.ImageURL))
		photo.Caption = caption
		photo.ParseMode = tgbotapi.ModeMarkdownV2
		photo.ReplyMarkup = keyboard
		_, err = c.api.Send(photo)
	} else {
		msg := tgbotapi.NewMessage(alert.ChatID, caption)
		msg.ParseMode = tgbotapi.ModeMarkdownV2
		msg.ReplyMarkup = keyboard
		_, err = c.api.Send(msg)
	}

	if err != nil {
		c.logger.Error("failed to send telegram alert",
			zap.Int64("chat_id", alert.ChatID),
			zap.String("token", alert.TokenSymbol),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("sent telegram trade alert",
		zap.Int64("chat_id", alert.ChatID),
		zap.String("token", alert.TokenSymbol),
		zap.String("side", alert.Side),
	)
}

// Reply sends a plain text response to a chat.
func (c *Client) Reply(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := c.api.Send(msg)
	if err != nil {
		c.logger.Warn("failed to send telegram reply",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
	return err
}

// Close stops the update long-poll.
func (c *Client) Close() error {
	c.api.StopReceivingUpdates()
	return nil
}

func buildKeyboard(alert notifier.TradeAlert) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("📊 Chart", alert.ChartURL),
			tgbotapi.NewInlineKeyboardButtonURL("💰 Trade", alert.TradeURL),
		),
	)
}
