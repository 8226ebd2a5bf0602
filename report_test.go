package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestUpside(t *testing.T) {
	tests := []struct {
		current, target, want string
	}{
		{"227.15", "250", "10.1"},
		{"$100", "$90", "-10.0"},
		{"50", "50", "0.0"},
		{"0", "10", ""},
		{"10", "", ""},
		{"", "10", ""},
		{"N/A", "10", ""},
	}

	for _, tt := range tests {
		if got := Upside(tt.current, tt.target); got != tt.want {
			t.Errorf("Upside(%q, %q) = %q, want %q", tt.current, tt.target, got, tt.want)
		}
	}
}

func reportRecords() []StockRecord {
	return []StockRecord{
		{Ticker: "AAPL", Name: "Apple", Industry: "Computers", CurrentPrice: "227.15", TargetPrice: "250", Rating: "Buy"},
		{Ticker: "IBM", Name: "IBM", Industry: "computers ", CurrentPrice: "195", Rating: "Hold"},
		{Ticker: "XOM", Name: "Exxon", Industry: "Oil", CurrentPrice: "110", TargetPrice: "120", Rating: "buy"},
	}
}

func TestFilterRecords(t *testing.T) {
	got := FilterRecords(reportRecords(), ReportFilter{Industry: "COMPUTERS"})
	if len(got) != 2 {
		t.Errorf("industry filter returned %d records", len(got))
	}

	got = FilterRecords(reportRecords(), ReportFilter{Rating: "buy"})
	if len(got) != 2 || got[0].Ticker != "AAPL" || got[1].Ticker != "XOM" {
		t.Errorf("rating filter returned %+v", got)
	}

	got = FilterRecords(reportRecords(), ReportFilter{Industry: "computers", Rating: "Buy"})
	if len(got) != 1 || got[0].Ticker != "AAPL" {
		t.Errorf("combined filter returned %+v", got)
	}

	if got := FilterRecords(reportRecords(), ReportFilter{}); len(got) != 3 {
		t.Errorf("empty filter returned %d records", len(got))
	}
}

func TestBuildAndWriteReport(t *testing.T) {
	rows := BuildReport(reportRecords(), ReportFilter{})
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Upside != "10.1" || rows[1].Upside != "" || rows[2].Upside != "9.1" {
		t.Errorf("unexpected upsides %q %q %q", rows[0].Upside, rows[1].Upside, rows[2].Upside)
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, rows); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "TICKER") || !strings.HasPrefix(lines[1], "AAPL") {
		t.Errorf("unexpected table:\n%s", buf.String())
	}
}
