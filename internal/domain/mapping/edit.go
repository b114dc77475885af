package mapping

import "strings"

// EditRow is one row of the editable mapping grid: the canonical field and
// the source column per marketplace. Missing or blank cells mean unmapped.
type EditRow struct {
	Field   string
	Sources map[Marketplace]string
}

// Rows returns the config as grid rows, in entry order
func (c *Config) Rows() []EditRow {
	if c == nil {
		return []EditRow{}
	}
	rows := make([]EditRow, len(c.Entries))
	for i, e := range c.Entries {
		clone := e.Clone()
		rows[i] = EditRow{Field: clone.Field, Sources: clone.Sources}
	}
	return rows
}

// ApplyEdits rebuilds a config from edited grid rows in row order.
// The whole edit is rejected with ErrInvalidMappingRow when any row has an
// empty field name or repeats a field name; nothing is silently dropped.
func ApplyEdits(rows []EditRow) (*Config, error) {
	cfg := &Config{Entries: make([]Entry, 0, len(rows))}
	seen := make(map[string]int, len(rows))

	for i, row := range rows {
		// Rows are reported 1-based, matching the grid
		rowNum := i + 1
		if strings.TrimSpace(row.Field) == "" {
			return nil, invalidRowf(rowNum, "field name is required")
		}
		if first, dup := seen[row.Field]; dup {
			return nil, invalidRowf(rowNum, "field %q already defined in row %d", row.Field, first)
		}
		seen[row.Field] = rowNum

		entry := Entry{Field: row.Field, Sources: make(map[Marketplace]string, len(Marketplaces))}
		for _, m := range Marketplaces {
			entry.Sources[m] = row.Sources[m]
		}
		cfg.Entries = append(cfg.Entries, entry)
	}

	return cfg, nil
}
