package notifier

import (
	"strings"
	"testing"
)

func TestSizeBucket_Boundaries(t *testing.T) {
	tests := []struct {
		usd  float64
		want string
	}{
		{0, "🦐 Shrimp"},
		{100.00, "🦐 Shrimp"},
		{100.01, "🐟 Fish"},
		{1000.00, "🐟 Fish"},
		{1000.01, "🐬 Dolphin"},
		{2000.00, "🐬 Dolphin"},
		{2000.01, "🐋 Whale"},
		{50000, "🐋 Whale"},
	}

	for _, tt := range tests {
		if got := SizeBucket(tt.usd); got != tt.want {
			t.Errorf("SizeBucket(%v) = %q, want %q", tt.usd, got, tt.want)
		}
	}
}

func TestFormatTokenAmount(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.00005, "0.00005000"},
		{0.005, "0.005000"},
		{0.5, "0.5000"},
		{1, "1.00"},
		{1234.5, "1,234.50"},
		{1234567.891, "1,234,567.89"},
	}

	for _, tt := range tests {
		if got := FormatTokenAmount(tt.v); got != tt.want {
			t.Errorf("FormatTokenAmount(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatUSDPrice(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.000000001, "$0.000000001000"},
		{0.005, "$0.00500000"},
		{0.5, "$0.500000"},
		{2, "$2.0000"},
	}

	for _, tt := range tests {
		if got := FormatUSDPrice(tt.v); got != tt.want {
			t.Errorf("FormatUSDPrice(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatUSDTotal(t *testing.T) {
	if got := FormatUSDTotal(1234567.8); got != "$1,234,567.80" {
		t.Errorf("unexpected total: %q", got)
	}
	if got := FormatUSDTotal(20); got != "$20.00" {
		t.Errorf("unexpected total: %q", got)
	}
}

func TestGroupThousands(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123", "123"},
		{"1234", "1,234"},
		{"123456", "123,456"},
		{"1234567.89", "1,234,567.89"},
		{"-1234.50", "-1,234.50"},
	}

	for _, tt := range tests {
		if got := groupThousands(tt.in); got != tt.want {
			t.Errorf("groupThousands(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	in := "Kek_Token (v2.0) [beta]!"
	want := "Kek\\_Token \\(v2\\.0\\) \\[beta\\]\\!"
	if got := EscapeMarkdownV2(in); got != want {
		t.Errorf("EscapeMarkdownV2(%q) = %q, want %q", in, got, want)
	}
}

func TestBuildCaption(t *testing.T) {
	alert := TradeAlert{
		ChatID:       42,
		TokenName:    "Kek Token",
		TokenSymbol:  "KEK",
		TokenAddress: "0xaaa",
		Side:         "buy",
		Amount:       10,
		UnitPriceUSD: 2,
		TotalUSD:     20,
	}

	caption := BuildCaption(alert)

	if !strings.HasPrefix(caption, "🟢 Buy Alert\\! 🚀\n") {
		t.Errorf("unexpected caption header: %q", caption)
	}
	if !strings.Contains(caption, "Token: Kek Token \\(KEK\\)") {
		t.Errorf("missing token line: %q", caption)
	}
	if !strings.Contains(caption, "`0xaaa`") {
		t.Errorf("missing address line: %q", caption)
	}
	if !strings.Contains(caption, "Amount: 10\\.00 KEK") {
		t.Errorf("missing amount line: %q", caption)
	}
	if !strings.Contains(caption, "Price: $2\\.0000") {
		t.Errorf("missing price line: %q", caption)
	}
	if !strings.Contains(caption, "Total Value: $20\\.00") {
		t.Errorf("missing total line: %q", caption)
	}
	if !strings.HasSuffix(caption, "🦐 Shrimp") {
		t.Errorf("missing size label: %q", caption)
	}
}

func TestBuildCaption_Deterministic(t *testing.T) {
	alert := TradeAlert{
		TokenName:    "Kek Token",
		TokenSymbol:  "KEK",
		TokenAddress: "0xaaa",
		Side:         "sell",
		Amount:       0.0042,
		UnitPriceUSD: 0.0000005,
		TotalUSD:     2000.01,
	}

	first := BuildCaption(alert)
	second := BuildCaption(alert)
	if first != second {
		t.Errorf("captions differ:\n%q\n%q", first, second)
	}
	if !strings.HasSuffix(first, "🐋 Whale") {
		t.Errorf("expected whale bucket: %q", first)
	}
}

func TestTradeLink(t *testing.T) {
	if got := TradeLink("https://t.me/ronin_kek_bot", "ABC1"); got != "https://t.me/ronin_kek_bot?start=ABC1" {
		t.Errorf("unexpected trade link: %q", got)
	}
	if got := TradeLink("https://t.me/ronin_kek_bot", ""); got != "https://t.me/ronin_kek_bot?start=XXXX" {
		t.Errorf("expected placeholder ref code: %q", got)
	}
}

func TestChartLink(t *testing.T) {
	want := "https://www.geckoterminal.com/ronin/tokens/0xaaa"
	if got := ChartLink("ronin", "0xaaa"); got != want {
		t.Errorf("unexpected chart link: %q", got)
	}
}
