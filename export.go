package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
)

const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// ExportRecords writes records to path as CSV or Parquet. An empty format is
// taken from the file extension.
func ExportRecords(records []StockRecord, path, format string) error {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create output directory %s: %w", dir, err)
		}
	}

	switch format {
	case FormatCSV:
		return exportCSV(records, path)
	case FormatParquet:
		return exportParquet(records, path)
	}
	return fmt.Errorf("unsupported export format %q (expected csv or parquet)", format)
}

func exportCSV(records []StockRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(recordFields); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	row := make([]string, len(recordFields))
	for _, r := range records {
		for i, field := range recordFields {
			row[i], _ = r.Field(field)
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write %s: %w", r.Ticker, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return f.Close()
}

func exportParquet(records []StockRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	pw := parquet.NewGenericWriter[StockRecord](f, parquet.Compression(&parquet.Snappy))
	if _, err := pw.Write(records); err != nil {
		pw.Close()
		f.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}

	// footer first, then the file
	if err := pw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}
