package tabular

import (
	"fmt"

	"github.com/lrcatalog/mapper/internal/domain/shared"
)

// CodeUnreadableInput is the domain code of every input reading failure
const CodeUnreadableInput = "UNREADABLE_INPUT"

// ErrUnreadableInput is the root of all input reading failures. Every error
// below wraps it, so errors.Is(err, ErrUnreadableInput) identifies a file
// that could not be parsed as a table.
var ErrUnreadableInput = shared.NewDomainError(CodeUnreadableInput, "input file could not be read")

var (
	// ErrEmptyFile is returned when the file has no content
	ErrEmptyFile = fmt.Errorf("%w: file is empty", ErrUnreadableInput)

	// ErrInvalidEncoding is returned when text is not valid UTF-8 or UTF-16
	ErrInvalidEncoding = fmt.Errorf("%w: invalid text encoding, expected UTF-8", ErrUnreadableInput)

	// ErrMissingHeader is returned when no header row can be found
	ErrMissingHeader = fmt.Errorf("%w: missing header row", ErrUnreadableInput)

	// ErrMalformed is returned when delimited text cannot be tokenised
	ErrMalformed = fmt.Errorf("%w: malformed delimited text", ErrUnreadableInput)

	// ErrInvalidWorkbook is returned when an xlsx file cannot be opened
	ErrInvalidWorkbook = fmt.Errorf("%w: invalid xlsx workbook", ErrUnreadableInput)

	// ErrUnsupportedFormat is returned for file extensions with no reader
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported file format", ErrUnreadableInput)
)

// CodeFileTooLarge is the domain code of an input over the size limit
const CodeFileTooLarge = "FILE_TOO_LARGE"

// ErrFileTooLarge is returned when the input exceeds the size limit. The file
// was not read, so it is not an ErrUnreadableInput.
var ErrFileTooLarge = shared.NewDomainError(CodeFileTooLarge, "file exceeds maximum allowed size")
