package app

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestAlertStoreCreateAndGet(t *testing.T) {
	store := NewAlertStore()

	sub := Subscription{
		ChatID:       42,
		TokenAddress: "0xabc",
		Ticker:       "Kek (KEK)",
		PoolAddress:  "0xpool",
		Direction:    DirectionBuy,
		MinAmount:    decimal.NewFromInt(100),
	}
	if err := store.Create(sub); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, ok := store.Get(42, "0xabc")
	if !ok {
		t.Fatal("Get did not find created subscription")
	}
	if got.Ticker != "Kek (KEK)" || got.Direction != DirectionBuy {
		t.Errorf("Get returned wrong subscription: %+v", got)
	}
	if !got.MinAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("MinAmount = %s, want 100", got.MinAmount)
	}
}

func TestAlertStoreDuplicateCreate(t *testing.T) {
	store := NewAlertStore()

	sub := Subscription{ChatID: 1, TokenAddress: "0xabc"}
	if err := store.Create(sub); err != nil {
		t.Fatalf("first Create returned error: %v", err)
	}

	sub.Ticker = "changed"
	err := store.Create(sub)
	if !errors.Is(err, ErrAlertExists) {
		t.Fatalf("duplicate Create error = %v, want ErrAlertExists", err)
	}

	got, _ := store.Get(1, "0xabc")
	if got.Ticker == "changed" {
		t.Error("duplicate Create overwrote existing subscription")
	}
}

func TestAlertStoreSameTokenDifferentChats(t *testing.T) {
	store := NewAlertStore()

	if err := store.Create(Subscription{ChatID: 1, TokenAddress: "0xabc"}); err != nil {
		t.Fatalf("Create chat 1: %v", err)
	}
	if err := store.Create(Subscription{ChatID: 2, TokenAddress: "0xabc"}); err != nil {
		t.Fatalf("Create chat 2: %v", err)
	}
	if store.Len() != 2 {
		t.Errorf("Len = %d, want 2", store.Len())
	}
}

func TestAlertStoreRemove(t *testing.T) {
	store := NewAlertStore()

	store.Create(Subscription{ChatID: 1, TokenAddress: "0xabc"})

	if !store.Remove(1, "0xabc") {
		t.Error("Remove returned false for existing subscription")
	}
	if store.Remove(1, "0xabc") {
		t.Error("Remove returned true for absent subscription")
	}
	if _, ok := store.Get(1, "0xabc"); ok {
		t.Error("Get found removed subscription")
	}
}

func TestAlertStoreListByChatOrder(t *testing.T) {
	store := NewAlertStore()

	store.Create(Subscription{ChatID: 1, TokenAddress: "0xaaa"})
	store.Create(Subscription{ChatID: 2, TokenAddress: "0xbbb"})
	store.Create(Subscription{ChatID: 1, TokenAddress: "0xccc"})

	subs := store.ListByChat(1)
	if len(subs) != 2 {
		t.Fatalf("ListByChat returned %d subscriptions, want 2", len(subs))
	}
	if subs[0].TokenAddress != "0xaaa" || subs[1].TokenAddress != "0xccc" {
		t.Errorf("ListByChat order = %s, %s; want 0xaaa, 0xccc", subs[0].TokenAddress, subs[1].TokenAddress)
	}
}

func TestAlertStoreListAll(t *testing.T) {
	store := NewAlertStore()

	store.Create(Subscription{ChatID: 1, TokenAddress: "0xaaa"})
	store.Create(Subscription{ChatID: 2, TokenAddress: "0xbbb"})
	store.Remove(1, "0xaaa")

	all := store.ListAll()
	if len(all) != 1 {
		t.Fatalf("ListAll returned %d subscriptions, want 1", len(all))
	}
	if all[0].ChatID != 2 {
		t.Errorf("remaining subscription chat = %d, want 2", all[0].ChatID)
	}
}

func TestAlertStoreUpdateCursor(t *testing.T) {
	store := NewAlertStore()
	store.Create(Subscription{ChatID: 1, TokenAddress: "0xabc"})

	now := time.Now()
	store.UpdateCursor(1, "0xabc", "trade-1", now)

	got, _ := store.Get(1, "0xabc")
	if got.LastTradeID != "trade-1" {
		t.Errorf("LastTradeID = %q, want trade-1", got.LastTradeID)
	}
	if !got.LastCheckedAt.Equal(now) {
		t.Errorf("LastCheckedAt = %v, want %v", got.LastCheckedAt, now)
	}

	// Empty trade ID stamps the poll time without moving the cursor.
	later := now.Add(time.Minute)
	store.UpdateCursor(1, "0xabc", "", later)

	got, _ = store.Get(1, "0xabc")
	if got.LastTradeID != "trade-1" {
		t.Errorf("cursor moved on empty trade ID: %q", got.LastTradeID)
	}
	if !got.LastCheckedAt.Equal(later) {
		t.Errorf("LastCheckedAt = %v, want %v", got.LastCheckedAt, later)
	}
}

func TestAlertStoreUpdateCursorAbsent(t *testing.T) {
	store := NewAlertStore()
	// Removed-while-polling race: must not panic or create entries.
	store.UpdateCursor(99, "0xgone", "trade-1", time.Now())
	if store.Len() != 0 {
		t.Errorf("UpdateCursor created a subscription, Len = %d", store.Len())
	}
}

func TestAlertStoreGetReturnsCopy(t *testing.T) {
	store := NewAlertStore()
	store.Create(Subscription{ChatID: 1, TokenAddress: "0xabc"})

	got, _ := store.Get(1, "0xabc")
	got.LastTradeID = "mutated"

	fresh, _ := store.Get(1, "0xabc")
	if fresh.LastTradeID == "mutated" {
		t.Error("mutating a Get result changed stored state")
	}
}
