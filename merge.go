package main

import "strings"

// MergeRefreshAll builds the collection after a full refresh. Feed fields
// (name, industry, market cap, price, page) come from universe; last_updated,
// target_price, strategy and rating are carried over from existing. Tickers
// missing from universe are dropped unless retainMissing is set, in which case
// they are kept untouched.
func MergeRefreshAll(existing []StockRecord, universe map[string]StockRecord, retainMissing bool) ([]StockRecord, RefreshSummary) {
	prev := NewRecordSet(existing)
	next := make(RecordSet, len(universe))
	var summary RefreshSummary

	for ticker, fresh := range universe {
		old, seen := prev[ticker]
		merged := StockRecord{
			Name:         fresh.Name,
			Ticker:       ticker,
			Industry:     fresh.Industry,
			MarketCap:    fresh.MarketCap,
			LastUpdated:  old.LastUpdated,
			CurrentPrice: fresh.CurrentPrice,
			TargetPrice:  old.TargetPrice,
			Strategy:     old.Strategy,
			Rating:       old.Rating,
			Page:         PageFor(ticker),
		}
		next[ticker] = merged

		switch {
		case !seen:
			summary.Added++
		case merged != old:
			summary.Updated++
		}
	}

	for ticker, old := range prev {
		if _, ok := next[ticker]; ok {
			continue
		}
		if retainMissing {
			next[ticker] = old
			summary.Retained++
		} else {
			summary.Dropped++
		}
	}

	out := next.Sorted()
	summary.Total = len(out)
	return out, summary
}

// placeholderRecord stands in for a feed row when the screener does not list
// ticker, reusing whatever was stored before.
func placeholderRecord(ticker string, prev StockRecord) StockRecord {
	return StockRecord{
		Name:         prev.Name,
		Ticker:       ticker,
		Industry:     prev.Industry,
		MarketCap:    prev.MarketCap,
		CurrentPrice: prev.CurrentPrice,
		Page:         PageFor(ticker),
	}
}

// MergeSingle combines the stored record for ticker with a freshly fetched
// one. A non-empty stored industry wins over the feed. last_updated is never
// changed here. Overrides in opts replace target price, strategy and rating.
func MergeSingle(ticker string, prev StockRecord, fresh StockRecord, opts UpsertOptions) StockRecord {
	industry := strings.TrimSpace(prev.Industry)
	if industry == "" {
		industry = fresh.Industry
	}

	return StockRecord{
		Name:         fresh.Name,
		Ticker:       ticker,
		Industry:     industry,
		MarketCap:    fresh.MarketCap,
		LastUpdated:  prev.LastUpdated,
		CurrentPrice: fresh.CurrentPrice,
		TargetPrice:  override(opts.TargetPrice, prev.TargetPrice),
		Strategy:     override(opts.Strategy, prev.Strategy),
		Rating:       override(opts.Rating, prev.Rating),
		Page:         PageFor(ticker),
	}
}

func override(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
