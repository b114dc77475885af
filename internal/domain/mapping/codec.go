package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// persistIndent is the indentation of mapping files on disk
const persistIndent = "    "

// Encode serialises the config as a JSON object keyed by canonical field,
// preserving entry order. Every configured marketplace key is written.
func Encode(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, errors.New("mapping config is nil")
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range cfg.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Field)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		buf.WriteByte('{')
		for j, m := range Marketplaces {
			if j > 0 {
				buf.WriteByte(',')
			}
			mk, _ := json.Marshal(string(m))
			sv, err := json.Marshal(e.Sources[m])
			if err != nil {
				return nil, err
			}
			buf.Write(mk)
			buf.WriteByte(':')
			buf.Write(sv)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", persistIndent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Decode parses a persisted mapping. Object key order becomes entry order.
// Missing marketplace keys read as unmapped; any other deviation from the
// expected shape returns an error wrapping ErrConfigCorrupt.
func Decode(data []byte) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, corruptf("invalid JSON: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, corruptf("top level must be an object")
	}

	cfg := &Config{Entries: make([]Entry, 0)}
	seen := make(map[string]struct{})

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, corruptf("invalid JSON: %v", err)
		}
		field, ok := tok.(string)
		if !ok {
			return nil, corruptf("expected field name, got %v", tok)
		}
		if field == "" {
			return nil, corruptf("empty field name")
		}
		if _, dup := seen[field]; dup {
			return nil, corruptf("duplicate field %q", field)
		}
		seen[field] = struct{}{}

		entry, err := decodeEntry(dec, field)
		if err != nil {
			return nil, err
		}
		cfg.Entries = append(cfg.Entries, entry)
	}

	if _, err := dec.Token(); err != nil {
		return nil, corruptf("invalid JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, corruptf("unexpected data after mapping object")
	}

	return cfg, nil
}

func decodeEntry(dec *json.Decoder, field string) (Entry, error) {
	tok, err := dec.Token()
	if err != nil {
		return Entry{}, corruptf("field %q: %v", field, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Entry{}, corruptf("field %q: expected an object", field)
	}

	entry := Entry{Field: field, Sources: make(map[Marketplace]string, len(Marketplaces))}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Entry{}, corruptf("field %q: %v", field, err)
		}
		key, _ := tok.(string)
		m := Marketplace(key)
		if !m.IsValid() {
			return Entry{}, corruptf("field %q: unknown marketplace %q", field, key)
		}
		if _, dup := entry.Sources[m]; dup {
			return Entry{}, corruptf("field %q: duplicate marketplace %q", field, key)
		}

		tok, err = dec.Token()
		if err != nil {
			return Entry{}, corruptf("field %q: %v", field, err)
		}
		value, ok := tok.(string)
		if !ok {
			return Entry{}, corruptf("field %q: %s must be a string", field, key)
		}
		entry.Sources[m] = value
	}
	if _, err := dec.Token(); err != nil {
		return Entry{}, corruptf("field %q: %v", field, err)
	}

	for _, m := range Marketplaces {
		if _, ok := entry.Sources[m]; !ok {
			entry.Sources[m] = ""
		}
	}
	return entry, nil
}

// MarshalJSON encodes the config in the persisted mapping format
func (c *Config) MarshalJSON() ([]byte, error) {
	return Encode(c)
}

// UnmarshalJSON decodes the persisted mapping format
func (c *Config) UnmarshalJSON(data []byte) error {
	decoded, err := Decode(data)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}
