package tabular

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lrcatalog/mapper/internal/domain/catalog"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first worksheet of a workbook. Leading blank rows are
// skipped and the first non-blank row is the header. Blank rows between data
// rows are kept as empty rows; trailing blank rows are dropped. Cells are read
// as the text Excel would display.
func ReadXLSX(r io.Reader, opts ...ReadOption) (*catalog.Table, error) {
	o := readOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := readLimited(r, o.maxSize)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingHeader
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrInvalidWorkbook, sheets[0], err)
	}

	start := 0
	for start < len(rows) && isBlankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, ErrMissingHeader
	}

	end := len(rows)
	for end > start+1 && isBlankRow(rows[end-1]) {
		end--
	}

	table := catalog.NewTable(rows[start])
	table.Rows = append(make([][]string, 0, end-start-1), rows[start+1:end]...)
	return table, nil
}

// isBlankRow reports whether every cell of row is empty
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
