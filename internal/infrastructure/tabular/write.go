package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lrcatalog/mapper/internal/domain/catalog"
)

// OutputPrefix is prepended to converted file names
const OutputPrefix = "LR_"

// WriteCSV writes out as comma-separated text: a header of canonical field
// names followed by one record per row. Null cells are written as empty fields.
func WriteCSV(w io.Writer, out *catalog.Output) error {
	if out == nil {
		return fmt.Errorf("output is nil")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(out.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, len(out.Columns))
	for i := 0; i < out.RowCount; i++ {
		for j, cell := range out.Row(i) {
			if cell == nil {
				record[j] = ""
			} else {
				record[j] = *cell
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// EncodeCSV renders out with WriteCSV into memory
func EncodeCSV(out *catalog.Output) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OutputName returns the converted file name for an input file:
// LR_ followed by the input base name with its extension replaced by .csv
func OutputName(inputName string) string {
	base := filepath.Base(strings.ReplaceAll(inputName, "\\", "/"))
	if base == "." || base == "/" {
		base = "catalog"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "catalog"
	}
	return OutputPrefix + stem + ".csv"
}
