package main

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var priceRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

var marketCapUnits = []struct {
	suffix string
	div    float64
}{
	{"T", 1e12},
	{"B", 1e9},
	{"M", 1e6},
	{"K", 1e3},
}

// PageFor returns the detail page path for a ticker.
func PageFor(ticker string) string {
	return fmt.Sprintf("stocks/%s.html", ticker)
}

// NormalizeTicker trims and uppercases a symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// NormalizeRow converts one screener row to a record. The bool is false when
// the row has no usable symbol.
func NormalizeRow(row ScreenerRow) (StockRecord, bool) {
	ticker := NormalizeTicker(string(row.Symbol))
	if ticker == "" {
		return StockRecord{}, false
	}

	industry := string(row.Industry)
	if industry == "" {
		industry = string(row.Sector)
	}

	marketCap := ""
	raw := strings.TrimSpace(strings.ReplaceAll(string(row.MarketCap), ",", ""))
	if v, ok := parseMagnitude(raw); ok {
		marketCap = FormatMarketCap(v)
	}

	return StockRecord{
		Name:         row.Name.Trimmed(),
		Ticker:       ticker,
		Industry:     strings.TrimSpace(industry),
		MarketCap:    marketCap,
		CurrentPrice: ParsePrice(string(row.LastSale)),
		Page:         PageFor(ticker),
	}, true
}

// NormalizeRows keys normalized rows by ticker. A later row for the same
// ticker replaces an earlier one.
func NormalizeRows(rows []ScreenerRow) map[string]StockRecord {
	out := make(map[string]StockRecord, len(rows))
	for _, row := range rows {
		if rec, ok := NormalizeRow(row); ok {
			out[rec.Ticker] = rec
		}
	}
	return out
}

// FormatMarketCap renders a magnitude with the largest T/B/M/K unit it
// reaches, two decimals at most and trailing zeros removed: 2.9e12 -> "2.9T",
// 1500 -> "1.5K", 950 -> "950".
func FormatMarketCap(v float64) string {
	abs := math.Abs(v)
	for _, u := range marketCapUnits {
		if abs >= u.div {
			s := strconv.FormatFloat(v/u.div, 'f', 2, 64)
			s = strings.TrimRight(s, "0")
			s = strings.TrimSuffix(s, ".")
			return s + u.suffix
		}
	}
	return strconv.FormatInt(int64(v), 10)
}

// ParsePrice extracts the first decimal number from a price string such as
// "$227.15". It returns "" when there is none.
func ParsePrice(s string) string {
	return priceRe.FindString(s)
}

// parseMagnitude parses a float, rejecting blanks and non-finite values.
func parseMagnitude(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
