package app

import (
	"fmt"

	"github.com/shopspring/decimal"

	"kekbot/clients/geckoterminal"
)

// ClassifiedTrade is a raw API trade resolved to the watched token's side of
// the swap, with numeric fields parsed.
type ClassifiedTrade struct {
	ID           string
	Direction    Direction
	TokenAddress string // address of the token that moved, lowercase
	Amount       decimal.Decimal
	UnitPriceUSD decimal.Decimal
	ValueUSD     decimal.Decimal
}

// ClassifyTrade interprets a trade from the watched token's perspective. For a
// buy the token is the "to" side of the swap, for a sell the "from" side. An
// unknown kind or an unparseable numeric field is an error; the caller must
// not advance its dedup cursor on failure.
func ClassifyTrade(trade *geckoterminal.Trade) (ClassifiedTrade, error) {
	attrs := trade.Attributes

	var rawAmount, rawPrice, tokenAddress string
	var direction Direction

	switch attrs.Kind {
	case "buy":
		direction = DirectionBuy
		rawAmount = attrs.ToTokenAmount
		rawPrice = attrs.PriceToInUSD
		tokenAddress = attrs.ToTokenAddress
	case "sell":
		direction = DirectionSell
		rawAmount = attrs.FromTokenAmount
		rawPrice = attrs.PriceFromInUSD
		tokenAddress = attrs.FromTokenAddress
	default:
		return ClassifiedTrade{}, fmt.Errorf("unknown trade kind %q for trade %s", attrs.Kind, trade.ID)
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return ClassifiedTrade{}, fmt.Errorf("parse amount %q for trade %s: %w", rawAmount, trade.ID, err)
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return ClassifiedTrade{}, fmt.Errorf("parse price %q for trade %s: %w", rawPrice, trade.ID, err)
	}

	return ClassifiedTrade{
		ID:           trade.ID,
		Direction:    direction,
		TokenAddress: normalizeToken(tokenAddress),
		Amount:       amount,
		UnitPriceUSD: price,
		ValueUSD:     amount.Mul(price),
	}, nil
}

// Matches reports whether a classified trade passes a subscription's filters:
// the direction filter (empty matches both sides) and the minimum token
// amount, inclusive.
func Matches(sub Subscription, trade ClassifiedTrade) bool {
	if sub.Direction != DirectionAny && sub.Direction != trade.Direction {
		return false
	}
	return trade.Amount.GreaterThanOrEqual(sub.MinAmount)
}
