package mapping

import "strings"

// Marketplace identifies the source system a catalog export came from
type Marketplace string

const (
	Myntra   Marketplace = "myntra"
	Ajio     Marketplace = "ajio"
	Flipkart Marketplace = "flipkart"
)

// Marketplaces lists every configured marketplace in grid column order
var Marketplaces = []Marketplace{Myntra, Ajio, Flipkart}

// String returns the marketplace key
func (m Marketplace) String() string {
	return string(m)
}

// IsValid reports whether m is one of the configured marketplaces
func (m Marketplace) IsValid() bool {
	for _, known := range Marketplaces {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMarketplace normalises s and returns the matching marketplace.
// Unknown keys return ErrUnknownMarketplace.
func ParseMarketplace(s string) (Marketplace, error) {
	m := Marketplace(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return m, newUnknownMarketplaceError(s)
	}
	return m, nil
}

// MarketplaceKeys returns the marketplace keys as plain strings
func MarketplaceKeys() []string {
	keys := make([]string, len(Marketplaces))
	for i, m := range Marketplaces {
		keys[i] = string(m)
	}
	return keys
}
