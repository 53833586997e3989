package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a loosely-typed jsonb column, used for activity log snapshots.
type JSONMap map[string]any

// Value serializes the map for persistence.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("jsonmap: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the jsonb payload.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("jsonmap: unsupported scan type %T", value)
	}
}
