package clients

import (
	"kekbot/clients/discord"
	"kekbot/clients/geckoterminal"
	"kekbot/clients/notifier"
	"kekbot/clients/telegram"
	"kekbot/config"

	"go.uber.org/zap"
)

type Clients struct {
	Logger *zap.Logger

	Telegram *telegram.Client
	Discord  *discord.Client
	Notifier notifier.Notifier // Combined notifier for all channels
	Gecko    *geckoterminal.Client
}

func NewClients(logger *zap.Logger, cfg config.Config) (*Clients, error) {
	telegramClient, err := telegram.NewClient(logger, cfg.TelegramBotToken)
	if err != nil {
		return nil, err
	}

	var discordClient *discord.Client
	var multi *notifier.MultiNotifier
	if cfg.DiscordBotToken != "" {
		discordClient = discord.NewClient(logger, cfg.DiscordBotToken, cfg.DiscordChannelID)
		multi = notifier.NewMultiNotifier(telegramClient, discordClient)
	} else {
		multi = notifier.NewMultiNotifier(telegramClient)
	}

	return &Clients{
		Logger:   logger,
		Telegram: telegramClient,
		Discord:  discordClient,
		Notifier: multi,
		Gecko:    geckoterminal.NewClient(logger, cfg.GeckoBaseURL, cfg.Network, cfg.GeckoTimeout),
	}, nil
}

// Close releases client resources.
func (c *Clients) Close() error {
	return c.Notifier.Close()
}
