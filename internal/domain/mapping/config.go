package mapping

// Entry maps one canonical field to its source column name per marketplace.
// A missing or empty source name means the field is unmapped for that marketplace.
type Entry struct {
	Field   string
	Sources map[Marketplace]string
}

// NewEntry creates an entry with a source name for every configured marketplace
func NewEntry(field, myntra, ajio, flipkart string) Entry {
	return Entry{
		Field: field,
		Sources: map[Marketplace]string{
			Myntra:   myntra,
			Ajio:     ajio,
			Flipkart: flipkart,
		},
	}
}

// Source returns the source column name for the marketplace, "" when unmapped
func (e Entry) Source(m Marketplace) string {
	return e.Sources[m]
}

// Clone returns a deep copy of the entry
func (e Entry) Clone() Entry {
	sources := make(map[Marketplace]string, len(Marketplaces))
	for _, m := range Marketplaces {
		sources[m] = e.Sources[m]
	}
	return Entry{Field: e.Field, Sources: sources}
}

// Config is the ordered collection of mapping entries.
// Entry order is the output column order; field names are unique.
type Config struct {
	Entries []Entry
}

// NewConfig creates a config from entries, copying them
func NewConfig(entries ...Entry) *Config {
	cfg := &Config{Entries: make([]Entry, len(entries))}
	for i, e := range entries {
		cfg.Entries[i] = e.Clone()
	}
	return cfg
}

// Len returns the number of entries
func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entries)
}

// Fields returns the canonical field names in order
func (c *Config) Fields() []string {
	fields := make([]string, c.Len())
	for i := range fields {
		fields[i] = c.Entries[i].Field
	}
	return fields
}

// Lookup returns the entry for the canonical field
func (c *Config) Lookup(field string) (Entry, bool) {
	for _, e := range c.Entries {
		if e.Field == field {
			return e, true
		}
	}
	return Entry{}, false
}

// Clone returns a deep copy of the config
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	return NewConfig(c.Entries...)
}
