package catalog

import "github.com/lrcatalog/mapper/internal/domain/mapping"

// Result is the outcome of transforming one table
type Result struct {
	Output *Output
	// MissingHeaders lists source columns the mapping named for the
	// marketplace but the input header lacks, in mapping order. Names repeat
	// when several fields map to the same absent column.
	MissingHeaders []string
}

// HasMissingHeaders reports whether any mapped source column was absent
func (r *Result) HasMissingHeaders() bool {
	return len(r.MissingHeaders) > 0
}

// Transform converts an export table into the canonical column layout of cfg.
//
// Every config entry yields exactly one output column, in config order. A
// field unmapped for the marketplace is an all-null column; a field mapped to
// a column the header lacks is an all-null column and its source name is
// reported. Cell text is copied verbatim and rows keep their order. An
// unknown marketplace maps nothing, so the output is all null and the report
// empty. Transform does not modify its inputs.
func Transform(in *Table, marketplace mapping.Marketplace, cfg *mapping.Config) *Result {
	rows := in.RowCount()
	out := &Output{Columns: make([]Column, 0, cfg.Len()), RowCount: rows}
	missing := make([]string, 0)

	var index map[string]int
	if in != nil {
		index = in.columnIndexes()
	}

	for i := 0; i < cfg.Len(); i++ {
		entry := cfg.Entries[i]
		source := entry.Source(marketplace)
		if source == "" {
			out.Columns = append(out.Columns, nullColumn(entry.Field, rows))
			continue
		}

		col, ok := index[source]
		if !ok {
			out.Columns = append(out.Columns, nullColumn(entry.Field, rows))
			missing = append(missing, source)
			continue
		}

		out.Columns = append(out.Columns, copyColumn(in, entry.Field, col))
	}

	return &Result{Output: out, MissingHeaders: missing}
}

func copyColumn(in *Table, name string, col int) Column {
	column := Column{Name: name, Values: make([]*string, len(in.Rows))}
	for r := range in.Rows {
		if v, ok := in.Cell(r, col); ok {
			column.Values[r] = &v
		}
	}
	return column
}
