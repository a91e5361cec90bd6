package currency

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dvloznov/finance-dashboard/internal/gcs"
)

// LoadConverter builds a Converter from a JSON rate table at uri, which may be
// a local path or a gs:// object. An empty uri yields the default table.
//
// The table is an object keyed by currency code:
//
//	{"USD": {"symbol": "$", "rate": 1, "label": "US Dollar"}, ...}
func LoadConverter(ctx context.Context, r gcs.ObjectReader, uri string) (*Converter, error) {
	if uri == "" {
		return Default(), nil
	}

	data, err := r.ReadObject(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("LoadConverter: %w", err)
	}

	return ParseTable(data)
}

// ParseTable decodes and validates a JSON rate table.
func ParseTable(data []byte) (*Converter, error) {
	var entries map[string]Currency
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("ParseTable: decoding rate table: %w", err)
	}

	c, err := NewConverter(entries)
	if err != nil {
		return nil, fmt.Errorf("ParseTable: %w", err)
	}
	return c, nil
}

// MarshalTable encodes the converter's table in the format ParseTable reads.
func MarshalTable(c *Converter) ([]byte, error) {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("MarshalTable: %w", err)
	}
	return data, nil
}

// SaveTable writes the converter's table to uri.
func SaveTable(ctx context.Context, w gcs.ObjectWriter, uri string, c *Converter) error {
	data, err := MarshalTable(c)
	if err != nil {
		return err
	}
	if err := w.WriteObject(ctx, uri, data); err != nil {
		return fmt.Errorf("SaveTable: %w", err)
	}
	return nil
}
