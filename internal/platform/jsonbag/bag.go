// Package jsonbag provides Bag, the schemaless key-value document stored in jsonb columns
// (user profile and settings, organization settings, membership settings).
package jsonbag

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Bag is an opaque JSON object. Values may nest arbitrarily; nothing in the core inspects them.
type Bag map[string]any

// Value implements driver.Valuer. A nil Bag is written as an empty object.
func (b Bag) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	raw, err := json.Marshal(map[string]any(b))
	if err != nil {
		return nil, fmt.Errorf("jsonbag: marshal: %w", err)
	}
	return raw, nil
}

// Scan implements sql.Scanner. NULL scans into a nil Bag.
func (b *Bag) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*b = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("jsonbag: cannot scan %T", src)
	}
	if len(raw) == 0 {
		*b = nil
		return nil
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("jsonbag: unmarshal: %w", err)
	}
	*b = m
	return nil
}

// Clone returns a deep copy made through a JSON round trip, so stored bags never alias caller maps.
func (b Bag) Clone() Bag {
	if b == nil {
		return nil
	}
	raw, err := json.Marshal(map[string]any(b))
	if err != nil {
		return nil
	}
	out := Bag{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
