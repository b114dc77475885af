package mapping

import (
	"fmt"
	"strings"

	"github.com/lrcatalog/mapper/internal/domain/shared"
)

// Error codes for the mapping context
const (
	CodeConfigCorrupt      = "CONFIG_CORRUPT"
	CodeInvalidMappingRow  = "INVALID_MAPPING_ROW"
	CodeUnknownMarketplace = "UNKNOWN_MARKETPLACE"
)

var (
	// ErrConfigCorrupt is returned when persisted mapping data exists but is not the expected shape
	ErrConfigCorrupt = shared.NewDomainError(CodeConfigCorrupt, "mapping configuration is corrupt")

	// ErrInvalidMappingRow is returned when an edited row has no canonical field name
	ErrInvalidMappingRow = shared.NewDomainError(CodeInvalidMappingRow, "invalid mapping row")

	// ErrUnknownMarketplace is returned when a marketplace key is not configured
	ErrUnknownMarketplace = shared.NewDomainError(CodeUnknownMarketplace, "unknown marketplace")
)

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfigCorrupt, fmt.Sprintf(format, args...))
}

func invalidRowf(row int, format string, args ...any) error {
	return fmt.Errorf("%w %d: %s", ErrInvalidMappingRow, row, fmt.Sprintf(format, args...))
}

func newUnknownMarketplaceError(key string) error {
	return fmt.Errorf("%w %q, must be one of: %s", ErrUnknownMarketplace, key, strings.Join(MarketplaceKeys(), ", "))
}
