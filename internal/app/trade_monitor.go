package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kekbot/clients/geckoterminal"
	"kekbot/clients/notifier"
)

// MarketDataSource supplies the latest trade per pool. Satisfied by
// *geckoterminal.Client.
type MarketDataSource interface {
	LatestTrade(ctx context.Context, poolAddress string) (*geckoterminal.Trade, error)
}

// TradeMonitorConfig tunes the polling sweep.
type TradeMonitorConfig struct {
	// PollInterval is the sweep tick.
	PollInterval time.Duration
	// MinPollInterval is the per-subscription floor between fetches, so a
	// subscription is never polled more often than this even when sweeps
	// overlap or run faster.
	MinPollInterval time.Duration
	// FetchTimeout bounds each trade fetch.
	FetchTimeout time.Duration
	// FetchWorkers bounds concurrent fetches per sweep.
	FetchWorkers int
	// Network and TradeBotURL feed the alert links.
	Network     string
	TradeBotURL string
}

// SweepStats counts the outcomes of poll cycles.
type SweepStats struct {
	Polled        int64
	FetchFailures int64
	ParseFailures int64
	Deduped       int64
	Filtered      int64
	AlertsSent    int64
}

// TradeMonitor polls every active subscription's pool and pushes matching
// trades to the notifier. One monitor serves all subscriptions.
type TradeMonitor struct {
	logger   *zap.Logger
	cfg      TradeMonitorConfig
	store    *AlertStore
	source   MarketDataSource
	notifier notifier.Notifier

	statsMu sync.Mutex
	stats   SweepStats

	// now is swappable for tests.
	now func() time.Time
}

func NewTradeMonitor(logger *zap.Logger, cfg TradeMonitorConfig, store *AlertStore, source MarketDataSource, n notifier.Notifier) *TradeMonitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FetchWorkers < 1 {
		cfg.FetchWorkers = 1
	}
	return &TradeMonitor{
		logger:   logger,
		cfg:      cfg,
		store:    store,
		source:   source,
		notifier: n,
		now:      time.Now,
	}
}

// Stats returns a snapshot of the sweep counters.
func (m *TradeMonitor) Stats() SweepStats {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.stats
}

// Run sweeps immediately, then on every tick until the context is canceled.
func (m *TradeMonitor) Run(ctx context.Context) {
	m.logger.Info("trade monitor started",
		zap.Duration("poll_interval", m.cfg.PollInterval),
		zap.Int("fetch_workers", m.cfg.FetchWorkers),
	)

	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()

	m.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("trade monitor stopped")
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

// sweep polls a snapshot of all subscriptions with bounded concurrency. A
// subscription failing never blocks the others.
func (m *TradeMonitor) sweep(ctx context.Context) {
	subs := m.store.ListAll()
	if len(subs) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.FetchWorkers)
	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			m.pollSubscription(gctx, sub)
			return nil
		})
	}
	g.Wait()
}

func (m *TradeMonitor) pollSubscription(ctx context.Context, sub Subscription) {
	now := m.now()
	if !sub.LastCheckedAt.IsZero() && now.Sub(sub.LastCheckedAt) < m.cfg.MinPollInterval {
		return
	}

	log := m.logger.With(
		zap.Int64("chat_id", sub.ChatID),
		zap.String("token", sub.TokenAddress),
	)

	m.countPolled()

	fetchCtx, cancel := context.WithTimeout(ctx, m.cfg.FetchTimeout)
	trade, err := m.source.LatestTrade(fetchCtx, sub.PoolAddress)
	cancel()
	if err != nil {
		m.countFetchFailure()
		log.Warn("trade fetch failed", zap.Error(err))
		m.store.UpdateCursor(sub.ChatID, sub.TokenAddress, "", m.now())
		return
	}
	if trade == nil {
		m.store.UpdateCursor(sub.ChatID, sub.TokenAddress, "", m.now())
		return
	}

	ct, err := ClassifyTrade(trade)
	if err != nil {
		// Leave the cursor in place so the trade is reconsidered once
		// the data is parseable.
		m.countParseFailure()
		log.Warn("trade classification failed", zap.Error(err))
		m.store.UpdateCursor(sub.ChatID, sub.TokenAddress, "", m.now())
		return
	}

	if ct.ID == sub.LastTradeID {
		m.countDeduped()
		m.store.UpdateCursor(sub.ChatID, sub.TokenAddress, "", m.now())
		return
	}

	// The trade is now seen: advance the cursor before dispatch so delivery
	// failures never cause a duplicate alert.
	m.store.UpdateCursor(sub.ChatID, sub.TokenAddress, ct.ID, m.now())

	if !Matches(sub, ct) {
		m.countFiltered()
		log.Debug("trade filtered",
			zap.String("trade_id", shortID(ct.ID)),
			zap.String("direction", string(ct.Direction)),
			zap.String("amount", ct.Amount.String()),
		)
		return
	}

	m.notifier.SendTradeAlert(m.buildAlert(sub, ct))
	m.countAlertSent()
	log.Info("trade alert sent",
		zap.String("trade_id", shortID(ct.ID)),
		zap.String("direction", string(ct.Direction)),
		zap.String("value_usd", ct.ValueUSD.StringFixed(2)),
	)
}

func (m *TradeMonitor) buildAlert(sub Subscription, ct ClassifiedTrade) notifier.TradeAlert {
	name, symbol := splitTicker(sub.Ticker)
	return notifier.TradeAlert{
		ChatID:       sub.ChatID,
		TokenName:    name,
		TokenSymbol:  symbol,
		TokenAddress: sub.TokenAddress,
		Side:         string(ct.Direction),
		Amount:       ct.Amount.InexactFloat64(),
		UnitPriceUSD: ct.UnitPriceUSD.InexactFloat64(),
		TotalUSD:     ct.ValueUSD.InexactFloat64(),
		ImageURL:     sub.ImageURL,
		ChartURL:     notifier.ChartLink(m.cfg.Network, sub.TokenAddress),
		TradeURL:     notifier.TradeLink(m.cfg.TradeBotURL, sub.RefCode),
	}
}

func (m *TradeMonitor) countPolled()       { m.statsMu.Lock(); m.stats.Polled++; m.statsMu.Unlock() }
func (m *TradeMonitor) countFetchFailure() { m.statsMu.Lock(); m.stats.FetchFailures++; m.statsMu.Unlock() }
func (m *TradeMonitor) countParseFailure() { m.statsMu.Lock(); m.stats.ParseFailures++; m.statsMu.Unlock() }
func (m *TradeMonitor) countDeduped()      { m.statsMu.Lock(); m.stats.Deduped++; m.statsMu.Unlock() }
func (m *TradeMonitor) countFiltered()     { m.statsMu.Lock(); m.stats.Filtered++; m.statsMu.Unlock() }
func (m *TradeMonitor) countAlertSent()    { m.statsMu.Lock(); m.stats.AlertsSent++; m.statsMu.Unlock() }
