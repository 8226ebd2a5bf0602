package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// StockRecord is one persisted entry of the dataset, keyed by Ticker.
type StockRecord struct {
	Name         string `json:"name" parquet:"name"`
	Ticker       string `json:"ticker" parquet:"ticker"`
	Industry     string `json:"industry" parquet:"industry"`
	MarketCap    string `json:"market_cap" parquet:"market_cap"`
	LastUpdated  string `json:"last_updated" parquet:"last_updated"`
	CurrentPrice string `json:"current_price" parquet:"current_price"`
	TargetPrice  string `json:"target_price" parquet:"target_price"`
	Strategy     string `json:"strategy" parquet:"strategy"`
	Rating       string `json:"rating" parquet:"rating"`
	Page         string `json:"page" parquet:"page"`
}

// UnmarshalJSON accepts hand-edited files where fields are numbers, null or
// missing. Every field ends up as a string.
func (r *StockRecord) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name         FlexString `json:"name"`
		Ticker       FlexString `json:"ticker"`
		Industry     FlexString `json:"industry"`
		MarketCap    FlexString `json:"market_cap"`
		LastUpdated  FlexString `json:"last_updated"`
		CurrentPrice FlexString `json:"current_price"`
		TargetPrice  FlexString `json:"target_price"`
		Strategy     FlexString `json:"strategy"`
		Rating       FlexString `json:"rating"`
		Page         FlexString `json:"page"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = StockRecord{
		Name:         string(raw.Name),
		Ticker:       string(raw.Ticker),
		Industry:     string(raw.Industry),
		MarketCap:    string(raw.MarketCap),
		LastUpdated:  string(raw.LastUpdated),
		CurrentPrice: string(raw.CurrentPrice),
		TargetPrice:  string(raw.TargetPrice),
		Strategy:     string(raw.Strategy),
		Rating:       string(raw.Rating),
		Page:         string(raw.Page),
	}
	return nil
}

// Field returns the value of the named JSON field.
func (r StockRecord) Field(name string) (string, bool) {
	switch name {
	case "name":
		return r.Name, true
	case "ticker":
		return r.Ticker, true
	case "industry":
		return r.Industry, true
	case "market_cap":
		return r.MarketCap, true
	case "last_updated":
		return r.LastUpdated, true
	case "current_price":
		return r.CurrentPrice, true
	case "target_price":
		return r.TargetPrice, true
	case "strategy":
		return r.Strategy, true
	case "rating":
		return r.Rating, true
	case "page":
		return r.Page, true
	}
	return "", false
}

// recordFields lists the JSON field names in persisted order.
var recordFields = []string{
	"name", "ticker", "industry", "market_cap", "last_updated",
	"current_price", "target_price", "strategy", "rating", "page",
}

// FlexString decodes a JSON string, number or boolean into its text form.
// null, objects and arrays decode to the empty string.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*f = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case 'n', '{', '[':
		*f = ""
	default:
		*f = FlexString(b)
	}
	return nil
}

func (f FlexString) Trimmed() string {
	return strings.TrimSpace(string(f))
}

// ScreenerRow is one row of the NASDAQ screener payload. Every field is optional.
type ScreenerRow struct {
	Symbol    FlexString `json:"symbol"`
	Name      FlexString `json:"name"`
	Industry  FlexString `json:"industry"`
	Sector    FlexString `json:"sector"`
	MarketCap FlexString `json:"marketCap"`
	LastSale  FlexString `json:"lastsale"`
}

type screenerPayload struct {
	Data *struct {
		Rows []ScreenerRow `json:"rows"`
	} `json:"data"`
}

// UpsertOptions carries optional overrides for UpsertTicker. nil keeps the
// stored value.
type UpsertOptions struct {
	TargetPrice *string `json:"target_price"`
	Strategy    *string `json:"strategy"`
	Rating      *string `json:"rating"`
}

// RefreshSummary describes what a full refresh did to the collection.
type RefreshSummary struct {
	Total    int `json:"total"`
	Added    int `json:"added"`
	Updated  int `json:"updated"`
	Dropped  int `json:"dropped"`
	Retained int `json:"retained"`
}

func (s RefreshSummary) String() string {
	return fmt.Sprintf("%d records (%d added, %d updated, %d dropped, %d retained)",
		s.Total, s.Added, s.Updated, s.Dropped, s.Retained)
}

type FieldValueRequest struct {
	Value *string `json:"value" binding:"required"`
}
