package app

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Direction filters which trade sides a subscription alerts on.
type Direction string

const (
	DirectionAny  Direction = ""
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

var (
	// ErrAlertExists is returned when a chat already watches a token.
	ErrAlertExists = errors.New("alert already exists")
	// ErrAlertNotFound is returned for lookups of absent subscriptions.
	ErrAlertNotFound = errors.New("alert not found")
)

// Subscription is one chat's standing watch on a token's most liquid pool.
// (ChatID, TokenAddress) is the identity key.
type Subscription struct {
	ChatID       int64
	TokenAddress string // normalized: lowercase, network prefix stripped
	Ticker       string // display label, "Name (SYMBOL)"
	PoolAddress  string
	Direction    Direction
	MinAmount    decimal.Decimal
	ImageURL     string
	RefCode      string

	// LastTradeID is the dedup cursor: the most recently processed trade,
	// empty until the first poll observes one. It only ever moves forward.
	LastTradeID string
	// LastCheckedAt is the time of the last poll attempt, enforcing the
	// per-subscription minimum poll interval.
	LastCheckedAt time.Time
}

type subKey struct {
	chatID int64
	token  string
}

// AlertStore is the authoritative set of active subscriptions. It is safe for
// concurrent use by command handlers and the poll scheduler; readers always
// receive copies.
type AlertStore struct {
	mu    sync.Mutex
	subs  map[subKey]*Subscription
	order []subKey // insertion order for listings
}

func NewAlertStore() *AlertStore {
	return &AlertStore{subs: make(map[subKey]*Subscription)}
}

// Create registers a subscription. Returns ErrAlertExists if the chat already
// watches the token; the existing subscription is left untouched.
func (s *AlertStore) Create(sub Subscription) error {
	key := subKey{chatID: sub.ChatID, token: sub.TokenAddress}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subs[key]; exists {
		return ErrAlertExists
	}

	stored := sub
	s.subs[key] = &stored
	s.order = append(s.order, key)
	return nil
}

// Remove deletes a subscription, reporting whether it existed.
func (s *AlertStore) Remove(chatID int64, tokenAddress string) bool {
	key := subKey{chatID: chatID, token: tokenAddress}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subs[key]; !exists {
		return false
	}
	delete(s.subs, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a copy of the subscription, if present.
func (s *AlertStore) Get(chatID int64, tokenAddress string) (Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[subKey{chatID: chatID, token: tokenAddress}]
	if !ok {
		return Subscription{}, false
	}
	return *sub, true
}

// ListByChat returns the chat's subscriptions in insertion order.
func (s *AlertStore) ListByChat(chatID int64) []Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []Subscription
	for _, key := range s.order {
		if key.chatID != chatID {
			continue
		}
		if sub, ok := s.subs[key]; ok {
			result = append(result, *sub)
		}
	}
	return result
}

// ListAll returns a snapshot of every subscription for the scheduler sweep.
func (s *AlertStore) ListAll() []Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Subscription, 0, len(s.order))
	for _, key := range s.order {
		if sub, ok := s.subs[key]; ok {
			result = append(result, *sub)
		}
	}
	return result
}

// Len returns the number of active subscriptions.
func (s *AlertStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// UpdateCursor records a poll attempt. tradeID advances the dedup cursor when
// non-empty; checkedAt is always recorded. A no-op when the subscription was
// removed concurrently: that race is expected and non-fatal.
func (s *AlertStore) UpdateCursor(chatID int64, tokenAddress, tradeID string, checkedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[subKey{chatID: chatID, token: tokenAddress}]
	if !ok {
		return
	}
	if tradeID != "" {
		sub.LastTradeID = tradeID
	}
	sub.LastCheckedAt = checkedAt
}
