package app

import "strings"

// normalizeToken lowercases an address and strips a network resource prefix
// such as "ronin_" that the API uses in relationship IDs.
func normalizeToken(address string) string {
	address = strings.ToLower(strings.TrimSpace(address))
	if i := strings.LastIndex(address, "_"); i >= 0 {
		address = address[i+1:]
	}
	return address
}

// splitTicker breaks a "Name (SYMBOL)" display label into its parts. When the
// label has no symbol suffix both parts are the label itself.
func splitTicker(ticker string) (name, symbol string) {
	open := strings.LastIndex(ticker, "(")
	closing := strings.LastIndex(ticker, ")")
	if open < 0 || closing < open {
		return ticker, ticker
	}
	name = strings.TrimSpace(ticker[:open])
	symbol = strings.TrimSpace(ticker[open+1 : closing])
	if name == "" || symbol == "" {
		return ticker, ticker
	}
	return name, symbol
}

// shortID truncates an identifier for log output.
func shortID(id string) string {
	const max = 16
	if len(id) <= max {
		return id
	}
	return id[:max] + "…"
}
