package main

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestHistoryDB(t *testing.T) *HistoryDB {
	t.Helper()
	db, err := NewHistoryDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewHistoryDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestHistoryDBRuns(t *testing.T) {
	db := newTestHistoryDB(t)

	last, err := db.LastRefresh()
	if err != nil {
		t.Fatalf("LastRefresh: %v", err)
	}
	if !last.IsZero() {
		t.Errorf("expected zero time on an empty database, got %v", last)
	}

	base := time.Date(2025, 10, 1, 17, 30, 0, 0, time.UTC)
	runs := []RefreshRun{
		{Kind: RunKindAll, Total: 10, Added: 10, StartedAt: base, FinishedAt: base.Add(time.Minute)},
		{Kind: RunKindSingle, Ticker: "AAPL", Total: 10, Updated: 1, StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour)},
		{Kind: RunKindAll, Total: 11, Added: 1, StartedAt: base.Add(24 * time.Hour), FinishedAt: base.Add(24*time.Hour + time.Minute)},
	}
	for _, run := range runs {
		if err := db.RecordRun(run); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	last, err = db.LastRefresh()
	if err != nil {
		t.Fatalf("LastRefresh: %v", err)
	}
	if !last.Equal(runs[2].FinishedAt) {
		t.Errorf("LastRefresh = %v, want %v", last, runs[2].FinishedAt)
	}

	recent, err := db.RecentRuns(2)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(recent) != 2 || recent[0].Total != 11 || recent[1].Ticker != "AAPL" {
		t.Errorf("unexpected recent runs %+v", recent)
	}
}

func TestHistoryDBChanges(t *testing.T) {
	db := newTestHistoryDB(t)

	at := time.Date(2025, 10, 5, 9, 0, 0, 0, time.UTC)
	before := StockRecord{Ticker: "AAPL", TargetPrice: "250", LastUpdated: "2025-10-03", Page: "stocks/AAPL.html"}
	after := before
	after.TargetPrice = "275"
	after.LastUpdated = "2025-10-05"

	if err := db.RecordChanges(diffRecords(before, after, "set_target_price", at)); err != nil {
		t.Fatalf("RecordChanges: %v", err)
	}
	later := after
	later.Rating = "Buy"
	if err := db.RecordChanges(diffRecords(after, later, "set_rating", at.Add(time.Hour))); err != nil {
		t.Fatalf("RecordChanges: %v", err)
	}
	if err := db.RecordChanges(nil); err != nil {
		t.Errorf("empty batch should be a no-op, got %v", err)
	}

	changes, err := db.History("aapl", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d", len(changes))
	}
	if changes[0].Field != "rating" || changes[0].NewValue != "Buy" {
		t.Errorf("newest change should come first, got %+v", changes[0])
	}

	limited, err := db.History("AAPL", 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit not applied, got %d", len(limited))
	}

	other, err := db.History("MSFT", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no MSFT changes, got %d", len(other))
	}
}

func TestDiffRecords(t *testing.T) {
	before := StockRecord{Ticker: "AAPL", Name: "Apple", Industry: "Computers"}
	after := StockRecord{Ticker: "AAPL", Name: "Apple Inc.", Industry: "Computers", Rating: "Buy"}

	changes := diffRecords(before, after, "upsert", time.Time{})
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %+v", changes)
	}
	if changes[0].Field != "name" || changes[0].OldValue != "Apple" || changes[0].NewValue != "Apple Inc." {
		t.Errorf("unexpected first change %+v", changes[0])
	}
	if changes[1].Field != "rating" || changes[1].OldValue != "" {
		t.Errorf("unexpected second change %+v", changes[1])
	}

	if got := diffRecords(after, after, "upsert", time.Time{}); len(got) != 0 {
		t.Errorf("identical records should not diff, got %+v", got)
	}
}
