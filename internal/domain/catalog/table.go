// Package catalog contains the catalog conversion bounded context: marketplace
// export tables and their transformation into the canonical LR column format.
package catalog

// Table is a parsed marketplace export: a header row of source column names
// and rows of opaque text cells. Rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable creates a table from a header and rows
func NewTable(header []string, rows ...[]string) *Table {
	return &Table{Header: header, Rows: rows}
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the index of the column named exactly name.
// When the header repeats a name the first occurrence wins.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t == nil {
		return -1, false
	}
	for i, h := range t.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Cell returns the cell at row, col. ok is false when the row is too short.
func (t *Table) Cell(row, col int) (value string, ok bool) {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return "", false
	}
	return r[col], true
}

// columnIndexes maps each header name to its first index
func (t *Table) columnIndexes() map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i := len(t.Header) - 1; i >= 0; i-- {
		idx[t.Header[i]] = i
	}
	return idx
}
