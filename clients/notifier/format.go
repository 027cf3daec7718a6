package notifier

import (
	"fmt"
	"strconv"
	"strings"
)

// Trade size buckets by USD value, inclusive on the lower bucket.
const (
	bucketShrimpMax  = 100
	bucketFishMax    = 1000
	bucketDolphinMax = 2000
)

// SizeBucket returns the trade size label for a USD value.
func SizeBucket(totalUSD float64) string {
	switch {
	case totalUSD <= bucketShrimpMax:
		return "🦐 Shrimp"
	case totalUSD <= bucketFishMax:
		return "🐟 Fish"
	case totalUSD <= bucketDolphinMax:
		return "🐬 Dolphin"
	default:
		return "🐋 Whale"
	}
}

// precisionTier maps a magnitude threshold to a number of decimals. Values
// below the threshold use that precision; a value above every tier falls back
// to the formatter's default.
type precisionTier struct {
	below    float64
	decimals int
}

var (
	amountTiers = []precisionTier{
		{below: 0.0001, decimals: 8},
		{below: 0.01, decimals: 6},
		{below: 1, decimals: 4},
	}
	priceTiers = []precisionTier{
		{below: 0.00000001, decimals: 12},
		{below: 0.01, decimals: 8},
		{below: 1, decimals: 6},
	}
)

func tieredFormat(v float64, tiers []precisionTier, defaultDecimals int, group bool) string {
	for _, tier := range tiers {
		if v < tier.below {
			return strconv.FormatFloat(v, 'f', tier.decimals, 64)
		}
	}
	s := strconv.FormatFloat(v, 'f', defaultDecimals, 64)
	if group {
		return groupThousands(s)
	}
	return s
}

// FormatTokenAmount renders a token amount with magnitude-adaptive precision.
func FormatTokenAmount(v float64) string {
	return tieredFormat(v, amountTiers, 2, true)
}

// FormatUSDPrice renders a unit price with magnitude-adaptive precision.
func FormatUSDPrice(v float64) string {
	return "$" + tieredFormat(v, priceTiers, 4, false)
}

// FormatUSDTotal renders a USD total with two decimals and separators.
func FormatUSDTotal(v float64) string {
	return "$" + groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
}

// groupThousands inserts comma separators into the integer part of a
// formatted number.
func groupThousands(s string) string {
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	if hasFrac {
		return sign + intPart + "." + fracPart
	}
	return sign + intPart
}

// markdownV2Escaper escapes the characters Telegram treats as structural in
// MarkdownV2 parse mode.
var markdownV2Escaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"(", "\\(",
	")", "\\)",
	"~", "\\~",
	"`", "\\`",
	">", "\\>",
	"#", "\\#",
	"+", "\\+",
	"-", "\\-",
	"=", "\\=",
	"|", "\\|",
	"{", "\\{",
	"}", "\\}",
	".", "\\.",
	"!", "\\!",
)

// EscapeMarkdownV2 escapes every MarkdownV2 structural character exactly once.
func EscapeMarkdownV2(s string) string {
	return markdownV2Escaper.Replace(s)
}

// BuildCaption renders the MarkdownV2 alert caption. It is deterministic:
// the same alert always produces the same bytes.
func BuildCaption(a TradeAlert) string {
	side := "🟢 Buy"
	if strings.EqualFold(a.Side, "sell") {
		side = "🔴 Sell"
	}

	name := EscapeMarkdownV2(a.TokenName)
	symbol := EscapeMarkdownV2(a.TokenSymbol)
	amount := EscapeMarkdownV2(FormatTokenAmount(a.Amount))
	price := EscapeMarkdownV2(FormatUSDPrice(a.UnitPriceUSD))
	total := EscapeMarkdownV2(FormatUSDTotal(a.TotalUSD))
	address := EscapeMarkdownV2(a.TokenAddress)

	return fmt.Sprintf(
		"%s Alert\\! 🚀\n"+
			"Token: %s \\(%s\\)\n"+
			"`%s`\n"+
			"Amount: %s %s\n"+
			"Price: %s\n"+
			"Total Value: %s\n"+
			"%s",
		side, name, symbol, address, amount, symbol, price, total, SizeBucket(a.TotalUSD),
	)
}

// ChartLink builds the chart URL for a token.
func ChartLink(network, tokenAddress string) string {
	return fmt.Sprintf("https://www.geckoterminal.com/%s/tokens/%s", network, tokenAddress)
}

// refCodePlaceholder is embedded in trade links when a subscription carries
// no referral code.
const refCodePlaceholder = "XXXX"

// TradeLink builds the trade deep link, embedding the referral code when set.
func TradeLink(botURL, refCode string) string {
	if refCode == "" {
		refCode = refCodePlaceholder
	}
	return botURL + "?start=" + refCode
}
