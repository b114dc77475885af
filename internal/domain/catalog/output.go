package catalog

// Column is one canonical output column. A nil value is a null cell.
type Column struct {
	Name   string
	Values []*string
}

// IsNull reports whether every cell of the column is null
func (c Column) IsNull() bool {
	for _, v := range c.Values {
		if v != nil {
			return false
		}
	}
	return true
}

// Output is a converted catalog in canonical column order
type Output struct {
	Columns  []Column
	RowCount int
}

// Header returns the canonical column names
func (o *Output) Header() []string {
	header := make([]string, len(o.Columns))
	for i, c := range o.Columns {
		header[i] = c.Name
	}
	return header
}

// Row returns the cells of row i across all columns
func (o *Output) Row(i int) []*string {
	row := make([]*string, len(o.Columns))
	for j, c := range o.Columns {
		row[j] = c.Values[i]
	}
	return row
}

// Column returns the column with the given canonical name
func (o *Output) Column(name string) (Column, bool) {
	for _, c := range o.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func nullColumn(name string, rows int) Column {
	return Column{Name: name, Values: make([]*string, rows)}
}
