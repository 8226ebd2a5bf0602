package main

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
)

func exportRecordsFixture() []StockRecord {
	return []StockRecord{
		{Name: "Apple Inc.", Ticker: "AAPL", Industry: "Computers", MarketCap: "2.9T",
			LastUpdated: "2025-10-03", CurrentPrice: "227.15", TargetPrice: "250",
			Strategy: "LT", Rating: "Buy", Page: "stocks/AAPL.html"},
		{Name: "Nestlé, S.A.", Ticker: "NSRGY", Page: "stocks/NSRGY.html"},
	}
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stocks.csv")
	if err := ExportRecords(exportRecordsFixture(), path, ""); err != nil {
		t.Fatalf("ExportRecords: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if !reflect.DeepEqual(rows[0], recordFields) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "AAPL" || rows[1][6] != "250" {
		t.Errorf("unexpected AAPL row %v", rows[1])
	}
	if rows[2][0] != "Nestlé, S.A." {
		t.Errorf("name not round-tripped: %q", rows[2][0])
	}
}

func TestExportParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.data")
	records := exportRecordsFixture()

	if err := ExportRecords(records, path, FormatParquet); err != nil {
		t.Fatalf("ExportRecords: %v", err)
	}

	got, err := parquet.ReadFile[StockRecord](path)
	if err != nil {
		t.Fatalf("read parquet: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("parquet round trip mismatch:\n got %+v\nwant %+v", got, records)
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	err := ExportRecords(exportRecordsFixture(), filepath.Join(t.TempDir(), "stocks.xlsx"), "")
	if err == nil || !strings.Contains(err.Error(), "unsupported export format") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}
