package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

type ReportFilter struct {
	Industry string
	Rating   string
}

func (f ReportFilter) match(r StockRecord) bool {
	if f.Industry != "" && !strings.EqualFold(strings.TrimSpace(r.Industry), strings.TrimSpace(f.Industry)) {
		return false
	}
	if f.Rating != "" && !strings.EqualFold(strings.TrimSpace(r.Rating), strings.TrimSpace(f.Rating)) {
		return false
	}
	return true
}

// FilterRecords keeps the records matching f.
func FilterRecords(records []StockRecord, f ReportFilter) []StockRecord {
	out := make([]StockRecord, 0, len(records))
	for _, r := range records {
		if f.match(r) {
			out = append(out, r)
		}
	}
	return out
}

type ReportRow struct {
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	Industry     string `json:"industry"`
	MarketCap    string `json:"market_cap"`
	CurrentPrice string `json:"current_price"`
	TargetPrice  string `json:"target_price"`
	Upside       string `json:"upside"`
	Rating       string `json:"rating"`
	Strategy     string `json:"strategy"`
	LastUpdated  string `json:"last_updated"`
}

func BuildReport(records []StockRecord, f ReportFilter) []ReportRow {
	rows := make([]ReportRow, 0, len(records))
	for _, r := range FilterRecords(records, f) {
		rows = append(rows, ReportRow{
			Ticker:       r.Ticker,
			Name:         r.Name,
			Industry:     r.Industry,
			MarketCap:    r.MarketCap,
			CurrentPrice: r.CurrentPrice,
			TargetPrice:  r.TargetPrice,
			Upside:       Upside(r.CurrentPrice, r.TargetPrice),
			Rating:       r.Rating,
			Strategy:     r.Strategy,
			LastUpdated:  r.LastUpdated,
		})
	}
	return rows
}

// Upside is the percent move from current to target, one decimal place.
// It is blank unless both prices hold a positive number.
func Upside(current, target string) string {
	cur, ok := positiveDecimal(current)
	if !ok {
		return ""
	}
	tgt, ok := positiveDecimal(target)
	if !ok {
		return ""
	}
	pct := tgt.Sub(cur).Div(cur).Mul(decimal.NewFromInt(100))
	return pct.StringFixed(1)
}

func positiveDecimal(s string) (decimal.Decimal, bool) {
	num := ParsePrice(s)
	if num == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(num)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

// WriteReport prints rows as an aligned table.
func WriteReport(w io.Writer, rows []ReportRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TICKER\tNAME\tINDUSTRY\tCAP\tPRICE\tTARGET\tUPSIDE%\tRATING\tSTRATEGY\tUPDATED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Ticker, r.Name, r.Industry, r.MarketCap, r.CurrentPrice,
			r.TargetPrice, r.Upside, r.Rating, r.Strategy, r.LastUpdated)
	}
	return tw.Flush()
}
