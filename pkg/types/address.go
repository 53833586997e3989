package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Address is stored as a jsonb column on orders.
type Address struct {
	FullName   string  `json:"full_name" validate:"required"`
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state,omitempty"`
	PostalCode string  `json:"postal_code" validate:"required"`
	Country    string  `json:"country" validate:"required"`
	Phone      string  `json:"phone,omitempty"`
}

// Value serializes the address for persistence.
func (a Address) Value() (driver.Value, error) {
	if strings.TrimSpace(a.Line1) == "" {
		return nil, fmt.Errorf("address: missing line1")
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("address: marshal: %w", err)
	}
	return string(raw), nil
}

// Scan decodes the jsonb payload back into the struct.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("address: unsupported scan type %T", value)
	}
}
