package enums

import "fmt"

// TaxRateKind maps to the tax_rate_kind enum in Postgres.
type TaxRateKind string

const (
	TaxRateKindPercentage TaxRateKind = "percentage"
	TaxRateKindFixed      TaxRateKind = "fixed"
)

var validTaxRateKinds = []TaxRateKind{TaxRateKindPercentage, TaxRateKindFixed}

// IsValid checks whether the given kind matches the canonical enum.
func (k TaxRateKind) IsValid() bool {
	for _, candidate := range validTaxRateKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseTaxRateKind converts raw strings into TaxRateKind.
func ParseTaxRateKind(value string) (TaxRateKind, error) {
	for _, candidate := range validTaxRateKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tax rate kind %q", value)
}
