package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"kekbot/clients/geckoterminal"
)

// Replier sends plain replies to a chat. Satisfied by *telegram.Client.
type Replier interface {
	Reply(chatID int64, text string) error
}

// MarketAPI covers the pool listing endpoints the commands use. Satisfied by
// *geckoterminal.Client.
type MarketAPI interface {
	TokenPools(ctx context.Context, tokenAddress string) (*geckoterminal.PoolsResponse, error)
	TrendingPools(ctx context.Context) (*geckoterminal.PoolsResponse, error)
	TopPools(ctx context.Context) (*geckoterminal.PoolsResponse, error)
}

const helpText = `Commands:
/alert <token_address> [buy|sell] [min_amount] [image_url] [ref_code] - watch a token for trades
/removealert <token_address> - stop watching a token
/activealerts - list this chat's alerts
/price <token_address> - current price and market stats
/pools - top pools on the network
/trending - trending pools on the network
/help - this message`

// Handlers routes Telegram commands to the alert store and market data API.
type Handlers struct {
	logger  *zap.Logger
	store   *AlertStore
	market  MarketAPI
	replier Replier
	network string
}

func NewHandlers(logger *zap.Logger, store *AlertStore, market MarketAPI, replier Replier, network string) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		logger:  logger,
		store:   store,
		market:  market,
		replier: replier,
		network: network,
	}
}

// HandleUpdate dispatches one incoming update. Non-command updates are
// ignored; handler errors are logged and reported to the chat, never fatal.
func (h *Handlers) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	chatID := update.Message.Chat.ID
	command := update.Message.Command()
	args := strings.Fields(update.Message.CommandArguments())

	log := h.logger.With(
		zap.Int64("chat_id", chatID),
		zap.String("command", command),
	)
	log.Debug("handling command")

	var err error
	switch command {
	case "start", "help":
		err = h.replier.Reply(chatID, helpText)
	case "alert":
		err = h.handleAlert(ctx, chatID, args)
	case "removealert":
		err = h.handleRemoveAlert(chatID, args)
	case "activealerts":
		err = h.handleActiveAlerts(chatID)
	case "price":
		err = h.handlePrice(ctx, chatID, args)
	case "pools":
		err = h.handlePools(ctx, chatID)
	case "trending":
		err = h.handleTrending(ctx, chatID)
	default:
		return
	}
	if err != nil {
		log.Warn("command failed", zap.Error(err))
		h.replier.Reply(chatID, "Something went wrong, try again in a bit.")
	}
}

type alertArgs struct {
	tokenAddress string
	direction    Direction
	minAmount    decimal.Decimal
	imageURL     string
	refCode      string
}

var errUsage = errors.New("bad arguments")

func parseAlertArgs(args []string) (alertArgs, error) {
	if len(args) == 0 || len(args) > 5 {
		return alertArgs{}, errUsage
	}

	parsed := alertArgs{
		tokenAddress: normalizeToken(args[0]),
		direction:    DirectionAny,
		minAmount:    decimal.Zero,
	}
	if parsed.tokenAddress == "" {
		return alertArgs{}, errUsage
	}

	if len(args) > 1 {
		switch strings.ToLower(args[1]) {
		case "buy":
			parsed.direction = DirectionBuy
		case "sell":
			parsed.direction = DirectionSell
		default:
			return alertArgs{}, fmt.Errorf("%w: direction must be buy or sell", errUsage)
		}
	}
	if len(args) > 2 {
		min, err := decimal.NewFromString(args[2])
		if err != nil || min.IsNegative() {
			return alertArgs{}, fmt.Errorf("%w: min_amount must be a non-negative number", errUsage)
		}
		parsed.minAmount = min
	}
	if len(args) > 3 {
		parsed.imageURL = args[3]
	}
	if len(args) > 4 {
		parsed.refCode = args[4]
	}
	return parsed, nil
}

func (h *Handlers) handleAlert(ctx context.Context, chatID int64, args []string) error {
	parsed, err := parseAlertArgs(args)
	if err != nil {
		return h.replier.Reply(chatID, "Usage: /alert <token_address> [buy|sell] [min_amount] [image_url] [ref_code]")
	}

	pools, err := h.market.TokenPools(ctx, parsed.tokenAddress)
	if errors.Is(err, geckoterminal.ErrNotFound) {
		return h.replier.Reply(chatID, "Token not found on "+h.network+".")
	}
	if err != nil {
		return fmt.Errorf("resolve pools for %s: %w", parsed.tokenAddress, err)
	}
	if len(pools.Data) == 0 {
		return h.replier.Reply(chatID, "No pools found for that token.")
	}

	// Pools arrive most liquid first; always watch the top one.
	pool := pools.Data[0]
	ticker := parsed.tokenAddress
	if token, ok := pools.FindToken(pool.Relationships.BaseToken.Data.ID); ok {
		ticker = fmt.Sprintf("%s (%s)", token.Attributes.Name, token.Attributes.Symbol)
		if parsed.imageURL == "" {
			parsed.imageURL = token.Attributes.ImageURL
		}
	}

	sub := Subscription{
		ChatID:       chatID,
		TokenAddress: parsed.tokenAddress,
		Ticker:       ticker,
		PoolAddress:  pool.Attributes.Address,
		Direction:    parsed.direction,
		MinAmount:    parsed.minAmount,
		ImageURL:     parsed.imageURL,
		RefCode:      parsed.refCode,
	}
	if err := h.store.Create(sub); err != nil {
		if errors.Is(err, ErrAlertExists) {
			return h.replier.Reply(chatID, "You already have an alert for that token. Remove it first with /removealert.")
		}
		return err
	}

	h.logger.Info("alert created",
		zap.Int64("chat_id", chatID),
		zap.String("token", sub.TokenAddress),
		zap.String("pool", sub.PoolAddress),
	)
	return h.replier.Reply(chatID, fmt.Sprintf("Alert set for %s. Watching pool %s.", ticker, shortID(pool.Attributes.Address)))
}

func (h *Handlers) handleRemoveAlert(chatID int64, args []string) error {
	if len(args) != 1 {
		return h.replier.Reply(chatID, "Usage: /removealert <token_address>")
	}
	token := normalizeToken(args[0])
	if !h.store.Remove(chatID, token) {
		return h.replier.Reply(chatID, "No alert found for that token.")
	}
	h.logger.Info("alert removed", zap.Int64("chat_id", chatID), zap.String("token", token))
	return h.replier.Reply(chatID, "Alert removed.")
}

func (h *Handlers) handleActiveAlerts(chatID int64) error {
	subs := h.store.ListByChat(chatID)
	if len(subs) == 0 {
		return h.replier.Reply(chatID, "No active alerts. Set one with /alert.")
	}

	var b strings.Builder
	b.WriteString("Active alerts:\n")
	for _, sub := range subs {
		direction := string(sub.Direction)
		if direction == "" {
			direction = "buy+sell"
		}
		fmt.Fprintf(&b, "• %s — %s, min %s\n  %s\n", sub.Ticker, direction, sub.MinAmount.String(), sub.TokenAddress)
	}
	return h.replier.Reply(chatID, b.String())
}

func (h *Handlers) handlePrice(ctx context.Context, chatID int64, args []string) error {
	if len(args) != 1 {
		return h.replier.Reply(chatID, "Usage: /price <token_address>")
	}

	token := normalizeToken(args[0])
	pools, err := h.market.TokenPools(ctx, token)
	if errors.Is(err, geckoterminal.ErrNotFound) {
		return h.replier.Reply(chatID, "Token not found on "+h.network+".")
	}
	if err != nil {
		return fmt.Errorf("fetch pools for %s: %w", token, err)
	}
	if len(pools.Data) == 0 {
		return h.replier.Reply(chatID, "No pools found for that token.")
	}

	pool := pools.Data[0]
	name := pool.Attributes.Name
	if tok, ok := pools.FindToken(pool.Relationships.BaseToken.Data.ID); ok {
		name = fmt.Sprintf("%s (%s)", tok.Attributes.Name, tok.Attributes.Symbol)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", name)
	fmt.Fprintf(&b, "Price: $%s\n", pool.Attributes.BaseTokenPriceUSD)
	fmt.Fprintf(&b, "24h change: %s%%\n", pool.Attributes.PriceChangePercentage.H24)
	fmt.Fprintf(&b, "24h volume: %s\n", formatCompactUSD(pool.Attributes.VolumeUSD.H24))
	fmt.Fprintf(&b, "Liquidity: %s\n", formatCompactUSD(pool.Attributes.ReserveInUSD))
	fmt.Fprintf(&b, "FDV: %s", formatCompactUSD(pool.Attributes.FdvUSD))
	return h.replier.Reply(chatID, b.String())
}

func (h *Handlers) handlePools(ctx context.Context, chatID int64) error {
	pools, err := h.market.TopPools(ctx)
	if err != nil {
		return fmt.Errorf("fetch top pools: %w", err)
	}
	return h.replier.Reply(chatID, formatPoolList("Top pools on "+h.network, pools))
}

func (h *Handlers) handleTrending(ctx context.Context, chatID int64) error {
	pools, err := h.market.TrendingPools(ctx)
	if err != nil {
		return fmt.Errorf("fetch trending pools: %w", err)
	}
	return h.replier.Reply(chatID, formatPoolList("Trending pools on "+h.network, pools))
}

const poolListLimit = 10

func formatPoolList(title string, pools *geckoterminal.PoolsResponse) string {
	if pools == nil || len(pools.Data) == 0 {
		return "No pools found."
	}

	var b strings.Builder
	b.WriteString(title + ":\n")
	for i, pool := range pools.Data {
		if i == poolListLimit {
			break
		}
		fmt.Fprintf(&b, "%d. %s — $%s (24h %s%%, vol %s)\n",
			i+1,
			pool.Attributes.Name,
			pool.Attributes.BaseTokenPriceUSD,
			pool.Attributes.PriceChangePercentage.H24,
			formatCompactUSD(pool.Attributes.VolumeUSD.H24),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatCompactUSD renders an API numeric string as $1.2K / $3.4M / $5.6B.
// Unparseable input is passed through with a $ prefix.
func formatCompactUSD(raw string) string {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "$" + raw
	}
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}
