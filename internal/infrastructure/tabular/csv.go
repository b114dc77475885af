// Package tabular reads marketplace exports into catalog tables and writes
// converted catalogs as CSV. Cells are treated as opaque text throughout:
// nothing is trimmed, coerced or reformatted.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/lrcatalog/mapper/internal/domain/catalog"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadOption is a functional option for the readers
type ReadOption func(*readOptions)

type readOptions struct {
	delimiter  rune
	lazyQuotes bool
	maxSize    int64
}

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ReadOption {
	return func(o *readOptions) {
		o.delimiter = d
	}
}

// WithLazyQuotes controls lenient quote handling (default on)
func WithLazyQuotes(lazy bool) ReadOption {
	return func(o *readOptions) {
		o.lazyQuotes = lazy
	}
}

// WithMaxSize limits how many bytes are read; 0 means unlimited
func WithMaxSize(n int64) ReadOption {
	return func(o *readOptions) {
		o.maxSize = n
	}
}

// ReadCSV parses delimited text into a table. The first record is the header;
// every later record is a row. Rows may be shorter or longer than the header.
func ReadCSV(r io.Reader, opts ...ReadOption) (*catalog.Table, error) {
	o := readOptions{
		delimiter:  ',',
		lazyQuotes: true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := readLimited(r, o.maxSize)
	if err != nil {
		return nil, err
	}
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = o.delimiter
	reader.LazyQuotes = o.lazyQuotes
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}

	table := catalog.NewTable(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}

// decodeText strips a UTF-8 BOM, transcodes UTF-16 with a BOM to UTF-8 and
// rejects anything else that is not valid UTF-8.
func decodeText(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		decoded, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
		}
		data = decoded
	}

	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	return data, nil
}

// readLimited reads all of r, failing with ErrFileTooLarge past limit
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if r == nil {
		return nil, ErrEmptyFile
	}
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnreadableInput, err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableInput, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (limit %d bytes)", ErrFileTooLarge, limit)
	}
	return data, nil
}
