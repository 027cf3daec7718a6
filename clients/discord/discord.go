// Package discord mirrors trade alerts into a Discord channel as rich embeds.
// It is an optional secondary channel; Telegram remains the primary surface.
package discord

import (
	"strings"

	"kekbot/clients/notifier"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Client sends trade alerts to a Discord channel.
// Implements notifier.Notifier.
type Client struct {
	logger    *zap.Logger
	session   *discordgo.Session
	channelID string
}

// NewClient creates a Discord client. With an empty token the client is
// disabled and sends are skipped.
func NewClient(logger *zap.Logger, token, channelID string) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	if token == "" {
		logger.Warn("DISCORD_BOT_TOKEN not set, Discord alerts disabled")
		return &Client{logger: logger, channelID: channelID}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("failed to create discord session", zap.Error(err))
		return &Client{logger: logger, channelID: channelID}
	}

	logger.Info("discord bot initialized", zap.String("channelID", channelID))
	return &Client{logger: logger, session: session, channelID: channelID}
}

// SendTradeAlert sends a rich embedded trade alert.
// Implements notifier.Notifier.
func (c *Client) SendTradeAlert(alert notifier.TradeAlert) {
	if c.session == nil {
		c.logger.Warn("discord session not initialized, skipping alert")
		return
	}

	embed := buildTradeEmbed(alert)

	_, err := c.session.ChannelMessageSendEmbed(c.channelID, embed)
	if err != nil {
		c.logger.Error("failed to send discord embed",
			zap.String("token", alert.TokenSymbol),
			zap.Error(err),
		)
		return
	}

	c.logger.Info("sent discord trade alert",
		zap.String("token", alert.TokenSymbol),
		zap.String("side", alert.Side),
	)
}

// Close closes the Discord session.
func (c *Client) Close() error {
	if c.session == nil {
		return nil
	}
	return c.session.Close()
}

func buildTradeEmbed(alert notifier.TradeAlert) *discordgo.MessageEmbed {
	color := 0x2ECC71 // green for buys
	title := "🟢 Buy Alert"
	if strings.EqualFold(alert.Side, "sell") {
		color = 0xE74C3C
		title = "🔴 Sell Alert"
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Token",
				Value:  alert.TokenName + " (" + alert.TokenSymbol + ")",
				Inline: true,
			},
			{
				Name:   "Amount",
				Value:  notifier.FormatTokenAmount(alert.Amount) + " " + alert.TokenSymbol,
				Inline: true,
			},
			{
				Name:   "Price",
				Value:  notifier.FormatUSDPrice(alert.UnitPriceUSD),
				Inline: true,
			},
			{
				Name:   "Total Value",
				Value:  notifier.FormatUSDTotal(alert.TotalUSD),
				Inline: true,
			},
			{
				Name:   "Size",
				Value:  notifier.SizeBucket(alert.TotalUSD),
				Inline: true,
			},
			{
				Name:  "Links",
				Value: "[Chart](" + alert.ChartURL + ") · [Trade](" + alert.TradeURL + ")",
			},
		},
	}

	if alert.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: alert.ImageURL}
	}

	return embed
}
