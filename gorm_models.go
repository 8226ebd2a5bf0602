package main

import (
	"time"
)

// GORM models for the change history database

// RefreshRun is one refresh of the dataset, either the full universe or a
// single ticker.
type RefreshRun struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Kind       string    `gorm:"index:idx_refresh_runs_kind;not null" json:"kind"`
	Ticker     string    `gorm:"" json:"ticker,omitempty"`
	Total      int       `gorm:"not null" json:"total"`
	Added      int       `gorm:"not null" json:"added"`
	Updated    int       `gorm:"not null" json:"updated"`
	Dropped    int       `gorm:"not null" json:"dropped"`
	StartedAt  time.Time `gorm:"not null" json:"startedAt"`
	FinishedAt time.Time `gorm:"index:idx_refresh_runs_finished_at;not null" json:"finishedAt"`
}

// TableName specifies the table name for RefreshRun
func (RefreshRun) TableName() string {
	return "refresh_runs"
}

// FieldChange records one field of one record changing value.
type FieldChange struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Ticker    string    `gorm:"index:idx_field_changes_ticker_changed_at;not null" json:"ticker"`
	Field     string    `gorm:"not null" json:"field"`
	OldValue  string    `gorm:"not null" json:"oldValue"`
	NewValue  string    `gorm:"not null" json:"newValue"`
	Operation string    `gorm:"not null" json:"operation"`
	ChangedAt time.Time `gorm:"index:idx_field_changes_ticker_changed_at;not null" json:"changedAt"`
}

// TableName specifies the table name for FieldChange
func (FieldChange) TableName() string {
	return "field_changes"
}

// Get all model types for auto migration
var allModels = []interface{}{
	&RefreshRun{},
	&FieldChange{},
}
