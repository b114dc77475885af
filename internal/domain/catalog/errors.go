package catalog

import (
	"fmt"
	"strings"

	"github.com/lrcatalog/mapper/internal/domain/shared"
)

// CodeMissingHeaders is the domain code for a conversion blocked by absent columns
const CodeMissingHeaders = "MISSING_HEADERS"

// ErrMissingHeaders is returned when a strict conversion finds mapped source
// columns absent from the input. Missing columns are part of a Result, not a
// Transform failure; the error exists for callers that refuse partial output.
var ErrMissingHeaders = shared.NewDomainError(CodeMissingHeaders, "input is missing mapped columns")

// MissingHeadersError wraps ErrMissingHeaders with the missing column names
func MissingHeadersError(missing []string) error {
	return fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", "))
}
