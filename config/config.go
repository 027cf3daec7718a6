// Package config loads and validates application configuration from the
// environment.
package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all application configuration.
type Config struct {
	// Telegram
	TelegramBotToken    string `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramPollTimeout int    `env:"TELEGRAM_POLL_TIMEOUT,default=60"`

	// Discord (optional secondary alert channel)
	DiscordBotToken  string `env:"DISCORD_BOT_TOKEN"`
	DiscordChannelID string `env:"DISCORD_CHANNEL_ID"`

	// Market data source
	GeckoBaseURL string        `env:"GECKO_BASE_URL,default=https://api.geckoterminal.com/api/v2"`
	GeckoTimeout time.Duration `env:"GECKO_TIMEOUT,default=10s"`
	Network      string        `env:"NETWORK,default=ronin"`

	// Poll scheduler
	PollInterval    time.Duration `env:"POLL_INTERVAL,default=10s"`
	MinPollInterval time.Duration `env:"MIN_POLL_INTERVAL,default=10s"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT,default=8s"`
	FetchWorkers    int           `env:"FETCH_WORKERS,default=8"`

	// Outbound trade links
	TradeBotURL string `env:"TRADE_BOT_URL,default=https://t.me/ronin_kek_bot"`

	LogLevel string `env:"LOG_LEVEL,default=info"`
}

// Load reads configuration from the environment.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
