package enums

import "fmt"

// BannerPosition maps to the banner_position enum in Postgres.
type BannerPosition string

const (
	BannerPositionHomeHero  BannerPosition = "home_hero"
	BannerPositionHomeStrip BannerPosition = "home_strip"
	BannerPositionSidebar   BannerPosition = "sidebar"
	BannerPositionCheckout  BannerPosition = "checkout"
)

var validBannerPositions = []BannerPosition{
	BannerPositionHomeHero,
	BannerPositionHomeStrip,
	BannerPositionSidebar,
	BannerPositionCheckout,
}

// IsValid checks whether the given position matches the canonical enum.
func (p BannerPosition) IsValid() bool {
	for _, candidate := range validBannerPositions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseBannerPosition converts raw strings into BannerPosition.
func ParseBannerPosition(value string) (BannerPosition, error) {
	for _, candidate := range validBannerPositions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid banner position %q", value)
}
