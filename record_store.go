package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

var ErrMalformedStore = errors.New("store must contain a JSON array")

const defaultStoreMode os.FileMode = 0644

// JSONStore persists the whole collection as one pretty-printed JSON array.
type JSONStore struct {
	Path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{Path: path}
}

// Load reads and canonicalizes the stored records. A missing file is an
// empty collection.
func (s *JSONStore) Load() ([]StockRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%s: %w", s.Path, ErrMalformedStore)
	}

	var records []StockRecord
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", s.Path, ErrMalformedStore, err)
	}
	for i := range records {
		records[i] = canonicalRecord(records[i])
	}
	return records, nil
}

// Save overwrites the file with records. The write goes to a temp file in the
// same directory first so a failed write leaves the old file intact.
func (s *JSONStore) Save(records []StockRecord) error {
	if records == nil {
		records = []StockRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	out := unescapeLineSeparators(bytes.TrimRight(buf.Bytes(), "\n"))

	mode := defaultStoreMode
	if info, err := os.Stat(s.Path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	// CreateTemp uses 0600
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set mode on %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.Path, err)
	}
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes that
// encoding/json always emits back into literal characters. Escaped
// backslashes are copied through so a literal "\\u2028" stays text.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if b[i+1] == 'u' && i+6 <= len(b) {
			switch string(b[i : i+6]) {
			case `\u2028`:
				out = append(out, "\u2028"...)
				i += 5
				continue
			case `\u2029`:
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}

// canonicalRecord uppercases the ticker and recomputes page.
func canonicalRecord(r StockRecord) StockRecord {
	r.Ticker = NormalizeTicker(r.Ticker)
	if r.Ticker != "" {
		r.Page = PageFor(r.Ticker)
	}
	return r
}

// RecordSet indexes records by uppercase ticker.
type RecordSet map[string]StockRecord

// NewRecordSet indexes records; a later duplicate ticker wins.
func NewRecordSet(records []StockRecord) RecordSet {
	set := make(RecordSet, len(records))
	for _, r := range records {
		set[NormalizeTicker(r.Ticker)] = r
	}
	return set
}

// Sorted returns the records ordered by ascending ticker.
func (s RecordSet) Sorted() []StockRecord {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]StockRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, s[k])
	}
	return out
}
