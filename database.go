package main

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ChangeRecorder receives an audit trail of writes made by the updater.
type ChangeRecorder interface {
	RecordRun(run RefreshRun) error
	RecordChanges(changes []FieldChange) error
}

// HistoryDB stores refresh runs and field changes in SQLite.
type HistoryDB struct {
	db *gorm.DB
}

func NewHistoryDB(dbPath string) (*HistoryDB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto migrate tables
	if err := db.AutoMigrate(allModels...); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return &HistoryDB{db: db}, nil
}

func (d *HistoryDB) RecordRun(run RefreshRun) error {
	if err := d.db.Create(&run).Error; err != nil {
		return fmt.Errorf("failed to insert refresh run: %w", err)
	}
	return nil
}

func (d *HistoryDB) RecordChanges(changes []FieldChange) error {
	if len(changes) == 0 {
		return nil
	}

	return d.db.Transaction(func(tx *gorm.DB) error {
		batchSize := 500
		if err := tx.CreateInBatches(changes, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert field changes: %w", err)
		}
		return nil
	})
}

// History returns the most recent changes for ticker, newest first.
func (d *HistoryDB) History(ticker string, limit int) ([]FieldChange, error) {
	var changes []FieldChange
	result := d.db.Where("ticker = ?", NormalizeTicker(ticker)).
		Order("changed_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&changes)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to query history: %w", result.Error)
	}
	return changes, nil
}

// RecentRuns returns the latest refresh runs, newest first.
func (d *HistoryDB) RecentRuns(limit int) ([]RefreshRun, error) {
	var runs []RefreshRun
	result := d.db.Order("finished_at DESC").Order("id DESC").Limit(limit).Find(&runs)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to query refresh runs: %w", result.Error)
	}
	return runs, nil
}

// LastRefresh returns when the last full refresh finished, or the zero time.
func (d *HistoryDB) LastRefresh() (time.Time, error) {
	var run RefreshRun
	result := d.db.Where("kind = ?", RunKindAll).
		Order("finished_at DESC").
		Limit(1).
		Find(&run)

	if result.Error != nil {
		return time.Time{}, fmt.Errorf("failed to query latest refresh: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return time.Time{}, nil
	}
	return run.FinishedAt, nil
}

func (d *HistoryDB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// diffRecords lists the fields that differ between before and after.
func diffRecords(before, after StockRecord, operation string, at time.Time) []FieldChange {
	var changes []FieldChange
	for _, field := range recordFields {
		oldValue, _ := before.Field(field)
		newValue, _ := after.Field(field)
		if oldValue == newValue {
			continue
		}
		changes = append(changes, FieldChange{
			Ticker:    after.Ticker,
			Field:     field,
			OldValue:  oldValue,
			NewValue:  newValue,
			Operation: operation,
			ChangedAt: at,
		})
	}
	return changes
}
