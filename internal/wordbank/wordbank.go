// Package wordbank loads vocabulary entries from JSON data files.
package wordbank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/verte-zerg/lrn/internal/model"
)

// Data file fields that every entry must carry.
const (
	FieldSource = "en"
	FieldTarget = "ua"
)

var (
	// ErrNotFound reports a data file that cannot be read.
	ErrNotFound = errors.New("data file not found")
	// ErrMalformed reports a data file that is not a list of entries.
	ErrMalformed = errors.New("data file is malformed")
)

// Bank is the loaded, read-only list of entries.
type Bank struct {
	Entries []model.Entry
	// Duplicates lists keys that appeared more than once. Only the first
	// occurrence of each key is kept in Entries.
	Duplicates []string
}

type rawEntry struct {
	Source json.RawMessage `json:"en"`
	Target json.RawMessage `json:"ua"`
	Tense  json.RawMessage `json:"times"`
	Kind   json.RawMessage `json:"type"`
}

// Load reads entries from a JSON file.
func Load(path string) (Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bank{}, fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	bank, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Bank{}, fmt.Errorf("%s: %w", path, err)
	}
	return bank, nil
}

// Parse decodes a JSON array of entry objects.
func Parse(r io.Reader) (Bank, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return Bank{}, fmt.Errorf("%w: expected a JSON array of objects: %v", ErrMalformed, err)
	}
	if len(items) == 0 {
		return Bank{}, fmt.Errorf("%w: no entries", ErrMalformed)
	}

	bank := Bank{Entries: make([]model.Entry, 0, len(items))}
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		var raw rawEntry
		if err := json.Unmarshal(item, &raw); err != nil {
			return Bank{}, fmt.Errorf("%w: entry %d is not an object", ErrMalformed, i+1)
		}
		source, ok := textField(raw.Source)
		if !ok {
			return Bank{}, fmt.Errorf("%w: entry %d: %q must be a non-empty string", ErrMalformed, i+1, FieldSource)
		}
		target, ok := textField(raw.Target)
		if !ok {
			return Bank{}, fmt.Errorf("%w: entry %d: %q must be a non-empty string", ErrMalformed, i+1, FieldTarget)
		}
		entry := model.Entry{
			Source: source,
			Target: target,
			Tense:  metaField(raw.Tense),
			Kind:   metaField(raw.Kind),
		}
		if _, dup := seen[entry.Key()]; dup {
			bank.Duplicates = append(bank.Duplicates, entry.Key())
			continue
		}
		seen[entry.Key()] = struct{}{}
		bank.Entries = append(bank.Entries, entry)
	}
	return bank, nil
}

func textField(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Metadata is display-only, so values of the wrong type are ignored.
func metaField(raw json.RawMessage) string {
	s, _ := textField(raw)
	return s
}
