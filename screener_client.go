package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultScreenerURL = "https://api.nasdaq.com/api/screener/stocks"
	DefaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// ScreenerClient pulls the per-exchange stock listing from the NASDAQ screener.
type ScreenerClient struct {
	client *resty.Client
	url    string
	logger *log.Logger
}

func NewScreenerClient(cfg ScreenerConfig, logger *log.Logger) *ScreenerClient {
	if cfg.URL == "" {
		cfg.URL = DefaultScreenerURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeaders(map[string]string{
		"authority":       "api.nasdaq.com",
		"User-Agent":      cfg.UserAgent,
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"Origin":          "https://www.nasdaq.com",
		"Referer":         "https://www.nasdaq.com/",
	})

	return &ScreenerClient{client: client, url: cfg.URL, logger: logger}
}

// FetchExchange returns the raw rows for one exchange (nyse, nasdaq, amex).
func (s *ScreenerClient) FetchExchange(ctx context.Context, exchange string) ([]ScreenerRow, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"download": "true",
			"exchange": exchange,
		}).
		Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s listing: %w", exchange, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("unexpected status code for %s: %d", exchange, resp.StatusCode())
	}

	var payload screenerPayload
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse %s listing: %w", exchange, err)
	}

	if payload.Data == nil {
		return nil, nil
	}
	return payload.Data.Rows, nil
}

// FetchUniverse fetches every exchange and normalizes the rows. Any failure
// aborts the whole fetch.
func (s *ScreenerClient) FetchUniverse(ctx context.Context, exchanges []string) (map[string]StockRecord, error) {
	var rows []ScreenerRow
	for _, exch := range exchanges {
		batch, err := s.FetchExchange(ctx, exch)
		if err != nil {
			return nil, err
		}
		s.logger.Printf("Fetched %d rows from %s", len(batch), exch)
		rows = append(rows, batch...)
	}
	return NormalizeRows(rows), nil
}

// FindTicker searches the exchanges in order for ticker. An exchange that
// fails is skipped with a warning; a cancelled context aborts the lookup.
func (s *ScreenerClient) FindTicker(ctx context.Context, exchanges []string, ticker string) (StockRecord, bool, error) {
	ticker = NormalizeTicker(ticker)
	for _, exch := range exchanges {
		rows, err := s.FetchExchange(ctx, exch)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return StockRecord{}, false, fmt.Errorf("lookup of %s interrupted: %w", ticker, ctxErr)
			}
			s.logger.Printf("Warning: skipping %s while looking up %s: %v", exch, ticker, err)
			continue
		}
		for _, row := range rows {
			if NormalizeTicker(string(row.Symbol)) != ticker {
				continue
			}
			if rec, ok := NormalizeRow(row); ok {
				return rec, true, nil
			}
		}
	}
	return StockRecord{}, false, nil
}
