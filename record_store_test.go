package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestJSONStoreLoadMissingFile(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "nope.json"))

	records, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestJSONStoreLoadMalformed(t *testing.T) {
	for name, content := range map[string]string{
		"object":  `{"ticker": "AAPL"}`,
		"garbage": `not json`,
		"empty":   ``,
		"broken":  `[{"ticker": "AAPL"`,
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "stocks.json")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := NewJSONStore(path).Load()
			if !errors.Is(err, ErrMalformedStore) {
				t.Errorf("expected ErrMalformedStore, got %v", err)
			}
		})
	}
}

func TestJSONStoreLoadCanonicalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.json")
	content := `[
  {"ticker": "msft", "name": "Microsoft", "market_cap": 3100, "current_price": 410.5,
   "target_price": null, "page": "wrong.html", "extra": "dropped"}
]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := NewJSONStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	want := StockRecord{
		Name: "Microsoft", Ticker: "MSFT", MarketCap: "3100",
		CurrentPrice: "410.5", Page: "stocks/MSFT.html",
	}
	if records[0] != want {
		t.Errorf("got %+v, want %+v", records[0], want)
	}
}

func TestJSONStoreSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stocks.json")
	store := NewJSONStore(path)

	records := []StockRecord{{
		Name: "Nestlé S.A. & Co <ADR>", Ticker: "NSRGY", Page: "stocks/NSRGY.html",
	}}
	if err := store.Save(records); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "[\n  {\n    \"name\": ") {
		t.Errorf("expected 2-space indented array, got:\n%s", text)
	}
	if !strings.Contains(text, "Nestlé S.A. & Co <ADR>") {
		t.Errorf("non-ASCII and HTML characters should be written literally:\n%s", text)
	}
	if strings.HasSuffix(text, "\n") {
		t.Error("file should not end with a newline")
	}

	order := []string{"name", "ticker", "industry", "market_cap", "last_updated",
		"current_price", "target_price", "strategy", "rating", "page"}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, `"`+key+`"`)
		if idx <= last {
			t.Fatalf("key %q out of order in:\n%s", key, text)
		}
		last = idx
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != records[0] {
		t.Errorf("reload mismatch: %+v", loaded)
	}
}

func TestJSONStoreSaveEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.json")
	if err := NewJSONStore(path).Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %q", data)
	}
}

func TestRecordSetSorted(t *testing.T) {
	set := NewRecordSet([]StockRecord{
		{Ticker: "MSFT"}, {Ticker: "aapl", Name: "first"}, {Ticker: "AAPL", Name: "second"}, {Ticker: "GOOG"},
	})

	sorted := set.Sorted()
	if len(sorted) != 3 {
		t.Fatalf("expected 3 records, got %d", len(sorted))
	}
	for i, want := range []string{"AAPL", "GOOG", "MSFT"} {
		if NormalizeTicker(sorted[i].Ticker) != want {
			t.Errorf("position %d: got %s, want %s", i, sorted[i].Ticker, want)
		}
	}
	if sorted[0].Name != "second" {
		t.Errorf("later duplicate should win, got %q", sorted[0].Name)
	}
}

func TestJSONStoreSaveKeepsFileMode(t *testing.T) {
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.json")
	if err := NewJSONStore(fresh).Save(nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	info, err := os.Stat(fresh)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != defaultStoreMode {
		t.Errorf("new store mode = %v, want %v", info.Mode().Perm(), defaultStoreMode)
	}

	for _, mode := range []os.FileMode{0644, 0664, 0600} {
		path := filepath.Join(dir, "stocks.json")
		if err := os.WriteFile(path, []byte("[]"), mode); err != nil {
			t.Fatal(err)
		}
		if err := os.Chmod(path, mode); err != nil {
			t.Fatal(err)
		}

		if err := NewJSONStore(path).Save(exportRecordsFixture()); err != nil {
			t.Fatalf("Save: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != mode {
			t.Errorf("mode after Save = %v, want %v", info.Mode().Perm(), mode)
		}
	}
}

func TestJSONStoreSaveLineSeparatorsLiteral(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.json")
	store := NewJSONStore(path)

	records := []StockRecord{
		{Name: "Caf\u00e9 \u2028 <x> \u2029", Ticker: "CAFE", Page: "stocks/CAFE.html"},
		{Name: `plain \u2028 text`, Ticker: "TXT", Page: "stocks/TXT.html"},
	}
	if err := store.Save(records); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.Contains(text, "\"Caf\u00e9 \u2028 <x> \u2029\"") {
		t.Errorf("line separators should be written literally:\n%q", text)
	}
	if !strings.Contains(text, `"plain \\u2028 text"`) {
		t.Errorf("escaped backslash should stay escaped:\n%q", text)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 || loaded[0] != records[0] || loaded[1] != records[1] {
		t.Errorf("reload mismatch: %+v", loaded)
	}
}
