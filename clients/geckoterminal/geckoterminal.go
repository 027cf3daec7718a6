// Package geckoterminal is a minimal client for the GeckoTerminal public API,
// scoped to a single network. It covers the endpoints the bot needs: pool
// trades, token pools, and the trending/top pool listings.
package geckoterminal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned when the API reports 404 for a token or pool.
var ErrNotFound = errors.New("geckoterminal: not found")

// Client talks to the GeckoTerminal REST API for one network.
type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
	network    string
}

// NewClient creates a client. baseURL is the API root (no trailing slash
// required), network is the network path segment, e.g. "ronin".
func NewClient(logger *zap.Logger, baseURL, network string, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		network:    network,
	}
}

// Network returns the configured network segment.
func (c *Client) Network() string {
	return c.network
}

// ---- API types (JSON:API shaped; only the fields we read) ----

// Trade is one executed trade in a pool.
type Trade struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes TradeAttributes `json:"attributes"`
}

// TradeAttributes carries the raw trade fields. Numeric values arrive as
// strings and are parsed downstream.
type TradeAttributes struct {
	Kind             string `json:"kind"` // "buy" or "sell"
	TxHash           string `json:"tx_hash"`
	BlockTimestamp   string `json:"block_timestamp"`
	FromTokenAmount  string `json:"from_token_amount"`
	ToTokenAmount    string `json:"to_token_amount"`
	PriceFromInUSD   string `json:"price_from_in_usd"`
	PriceToInUSD     string `json:"price_to_in_usd"`
	FromTokenAddress string `json:"from_token_address"`
	ToTokenAddress   string `json:"to_token_address"`
	VolumeInUSD      string `json:"volume_in_usd"`
}

// Pool is a liquidity pool with its market attributes.
type Pool struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	Attributes    PoolAttributes    `json:"attributes"`
	Relationships PoolRelationships `json:"relationships"`
}

type PoolAttributes struct {
	Name              string `json:"name"`
	Address           string `json:"address"`
	BaseTokenPriceUSD string `json:"base_token_price_usd"`
	ReserveInUSD      string `json:"reserve_in_usd"`
	FdvUSD            string `json:"fdv_usd"`
	VolumeUSD         struct {
		H24 string `json:"h24"`
	} `json:"volume_usd"`
	PriceChangePercentage struct {
		H24 string `json:"h24"`
	} `json:"price_change_percentage"`
}

type PoolRelationships struct {
	BaseToken  RelationshipRef `json:"base_token"`
	QuoteToken RelationshipRef `json:"quote_token"`
}

type RelationshipRef struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Token is an included token resource.
type Token struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name         string `json:"name"`
		Symbol       string `json:"symbol"`
		Address      string `json:"address"`
		ImageURL     string `json:"image_url"`
		MarketCapUSD string `json:"market_cap_usd"`
	} `json:"attributes"`
}

// PoolsResponse is a pool listing with its included token resources.
type PoolsResponse struct {
	Data     []Pool  `json:"data"`
	Included []Token `json:"included"`
}

// FindToken returns the included token whose resource ID matches, ignoring
// case. IDs are network-prefixed, e.g. "ronin_0xabc...".
func (r *PoolsResponse) FindToken(id string) (Token, bool) {
	for _, t := range r.Included {
		if t.Type == "token" && strings.EqualFold(t.ID, id) {
			return t, true
		}
	}
	return Token{}, false
}

type tradesResponse struct {
	Data []Trade `json:"data"`
}

// ---- endpoints ----

// LatestTrade returns the most recent trade for a pool, or nil when the pool
// has no trades yet.
func (c *Client) LatestTrade(ctx context.Context, poolAddress string) (*Trade, error) {
	endpoint := fmt.Sprintf("%s/networks/%s/pools/%s/trades", c.baseURL, c.network, url.PathEscape(poolAddress))

	var payload tradesResponse
	if err := c.getJSON(ctx, endpoint, nil, &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, nil
	}
	return &payload.Data[0], nil
}

// TokenPools lists the pools containing a token, most liquid first.
func (c *Client) TokenPools(ctx context.Context, tokenAddress string) (*PoolsResponse, error) {
	endpoint := fmt.Sprintf("%s/networks/%s/tokens/%s/pools", c.baseURL, c.network, url.PathEscape(tokenAddress))
	params := url.Values{"include": {"base_token,quote_token,dex"}}

	var payload PoolsResponse
	if err := c.getJSON(ctx, endpoint, params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// TrendingPools lists the network's trending pools.
func (c *Client) TrendingPools(ctx context.Context) (*PoolsResponse, error) {
	endpoint := fmt.Sprintf("%s/networks/%s/trending_pools", c.baseURL, c.network)
	params := url.Values{"include": {"base_token,quote_token,dex"}}

	var payload PoolsResponse
	if err := c.getJSON(ctx, endpoint, params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// TopPools lists the network's top pools.
func (c *Client) TopPools(ctx context.Context) (*PoolsResponse, error) {
	endpoint := fmt.Sprintf("%s/networks/%s/pools", c.baseURL, c.network)
	params := url.Values{"include": {"base_token,quote_token,dex"}}

	var payload PoolsResponse
	if err := c.getJSON(ctx, endpoint, params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, dest any) error {
	if len(params) > 0 {
		endpoint = endpoint + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("geckoterminal request failed",
			zap.String("url", endpoint),
			zap.Error(err),
		)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("geckoterminal request complete",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("geckoterminal: status %d for %s", resp.StatusCode, endpoint)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}
