// Package persistence provides database storage implementations.
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Float64Slice stores an embedding vector as a JSON column, which works
// identically on SQLite and PostgreSQL.
type Float64Slice []float64

// Scan implements sql.Scanner for reading JSON columns.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer for writing JSON columns.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}
