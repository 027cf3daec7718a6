// Package notifier defines the trade alert payload, the notifier interface
// implemented by each delivery channel, and the pure formatting used to build
// alert captions.
package notifier

// TradeAlert contains all the data needed for a trade alert notification.
type TradeAlert struct {
	// Destination chat.
	ChatID int64

	// Token info from the subscription's ticker and address.
	TokenName    string
	TokenSymbol  string
	TokenAddress string

	// Trade info.
	Side         string // "buy" or "sell"
	Amount       float64
	UnitPriceUSD float64
	TotalUSD     float64

	// Presentation.
	ImageURL string // when set the alert is sent as a captioned image
	ChartURL string
	TradeURL string
}

// Notifier is the interface for sending trade alerts to a delivery channel.
// Implementations must isolate per-call failures: a failed send is logged by
// the implementation and never propagates.
type Notifier interface {
	// SendTradeAlert sends a trade alert notification.
	SendTradeAlert(alert TradeAlert)

	// Close cleans up any resources.
	Close() error
}

// MultiNotifier broadcasts alerts to multiple notifiers.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a new MultiNotifier with the given notifiers.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	// Filter out nil notifiers
	var active []Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &MultiNotifier{notifiers: active}
}

// SendTradeAlert sends the alert to all registered notifiers.
func (m *MultiNotifier) SendTradeAlert(alert TradeAlert) {
	for _, n := range m.notifiers {
		n.SendTradeAlert(alert)
	}
}

// Close closes all registered notifiers.
func (m *MultiNotifier) Close() error {
	var lastErr error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Count returns the number of active notifiers.
func (m *MultiNotifier) Count() int {
	return len(m.notifiers)
}
