package app

import (
	"context"

	"go.uber.org/zap"

	"kekbot/clients"
	"kekbot/config"
)

// Runner owns the bot's two loops: the trade monitor sweep and the Telegram
// command stream.
type Runner struct {
	logger   *zap.Logger
	cfg      config.Config
	clients  *clients.Clients
	store    *AlertStore
	monitor  *TradeMonitor
	handlers *Handlers
}

func NewRunner(logger *zap.Logger, cfg config.Config, cl *clients.Clients) *Runner {
	store := NewAlertStore()

	monitor := NewTradeMonitor(logger, TradeMonitorConfig{
		PollInterval:    cfg.PollInterval,
		MinPollInterval: cfg.MinPollInterval,
		FetchTimeout:    cfg.FetchTimeout,
		FetchWorkers:    cfg.FetchWorkers,
		Network:         cfg.Network,
		TradeBotURL:     cfg.TradeBotURL,
	}, store, cl.Gecko, cl.Notifier)

	handlers := NewHandlers(logger, store, cl.Gecko, cl.Telegram, cfg.Network)

	return &Runner{
		logger:   logger,
		cfg:      cfg,
		clients:  cl,
		store:    store,
		monitor:  monitor,
		handlers: handlers,
	}
}

// Run blocks until the context is canceled. The monitor runs in its own
// goroutine; updates are handled on this one.
func (r *Runner) Run(ctx context.Context) error {
	go r.monitor.Run(ctx)

	updates := r.clients.Telegram.Updates(r.cfg.TelegramPollTimeout)
	r.logger.Info("bot running", zap.String("network", r.cfg.Network))

	for {
		select {
		case <-ctx.Done():
			stats := r.monitor.Stats()
			r.logger.Info("shutting down",
				zap.Int64("polls", stats.Polled),
				zap.Int64("alerts_sent", stats.AlertsSent),
			)
			return r.clients.Close()
		case update, ok := <-updates:
			if !ok {
				return r.clients.Close()
			}
			r.handlers.HandleUpdate(ctx, update)
		}
	}
}
