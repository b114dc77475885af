package tabular

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lrcatalog/mapper/internal/domain/catalog"
)

// Format is a supported input file format
type Format string

// Supported input formats
const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

// DetectFormat maps a file name to its input format by extension
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

// Read parses r according to the extension of name
func Read(name string, r io.Reader, opts ...ReadOption) (*catalog.Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatTSV:
		return ReadCSV(r, append([]ReadOption{WithDelimiter('\t')}, opts...)...)
	case FormatXLSX:
		return ReadXLSX(r, opts...)
	default:
		return ReadCSV(r, opts...)
	}
}
