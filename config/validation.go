package config

import (
	"errors"
	"fmt"
)

// Validate checks configuration invariants that envconfig defaults cannot
// express.
func (c Config) Validate() error {
	var errs []error

	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval))
	}
	if c.MinPollInterval < 0 {
		errs = append(errs, fmt.Errorf("MIN_POLL_INTERVAL must not be negative, got %s", c.MinPollInterval))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout))
	}
	if c.FetchWorkers < 1 {
		errs = append(errs, fmt.Errorf("FETCH_WORKERS must be at least 1, got %d", c.FetchWorkers))
	}
	if c.GeckoBaseURL == "" {
		errs = append(errs, errors.New("GECKO_BASE_URL must not be empty"))
	}
	if c.Network == "" {
		errs = append(errs, errors.New("NETWORK must not be empty"))
	}
	if c.DiscordBotToken != "" && c.DiscordChannelID == "" {
		errs = append(errs, errors.New("DISCORD_CHANNEL_ID required when DISCORD_BOT_TOKEN is set"))
	}

	return errors.Join(errs...)
}
