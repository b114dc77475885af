package mapping

import (
	"testing"

	"github.com/lrcatalog/mapper/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEdits(t *testing.T) {
	t.Run("rebuilds config in row order", func(t *testing.T) {
		rows := []EditRow{
			{Field: "Size", Sources: map[Marketplace]string{Myntra: "Standard Size", Ajio: "*Size", Flipkart: "Size"}},
			{Field: "Brand Name", Sources: map[Marketplace]string{Myntra: "brand"}},
		}

		cfg, err := ApplyEdits(rows)
		require.NoError(t, err)

		assert.Equal(t, []string{"Size", "Brand Name"}, cfg.Fields())
		brand, ok := cfg.Lookup("Brand Name")
		require.True(t, ok)
		assert.Equal(t, "brand", brand.Source(Myntra))
		assert.Equal(t, "", brand.Source(Ajio))
		assert.Equal(t, "", brand.Source(Flipkart))
		assert.Len(t, brand.Sources, len(Marketplaces))
	})

	t.Run("round trips default rows", func(t *testing.T) {
		cfg, err := ApplyEdits(Default().Rows())
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("empty rows yield empty config", func(t *testing.T) {
		cfg, err := ApplyEdits(nil)
		require.NoError(t, err)
		assert.Equal(t, 0, cfg.Len())
	})

	t.Run("rejects empty field name", func(t *testing.T) {
		rows := []EditRow{
			{Field: "Brand Name", Sources: map[Marketplace]string{Myntra: "brand"}},
			{Field: "", Sources: map[Marketplace]string{Myntra: "styleId"}},
		}

		cfg, err := ApplyEdits(rows)
		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrInvalidMappingRow)
		assert.Contains(t, err.Error(), "row 2")
		assert.Equal(t, CodeInvalidMappingRow, shared.CodeOf(err))
	})

	t.Run("rejects whitespace field name", func(t *testing.T) {
		_, err := ApplyEdits([]EditRow{{Field: "   "}})
		assert.ErrorIs(t, err, ErrInvalidMappingRow)
	})

	t.Run("rejects duplicate field name", func(t *testing.T) {
		rows := []EditRow{{Field: "MRP"}, {Field: "Size"}, {Field: "MRP"}}

		_, err := ApplyEdits(rows)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMappingRow)
		assert.Contains(t, err.Error(), "row 3")
		assert.Contains(t, err.Error(), "row 1")
	})

	t.Run("does not alias row maps", func(t *testing.T) {
		sources := map[Marketplace]string{Myntra: "brand"}
		cfg, err := ApplyEdits([]EditRow{{Field: "Brand Name", Sources: sources}})
		require.NoError(t, err)

		sources[Myntra] = "changed"
		assert.Equal(t, "brand", cfg.Entries[0].Source(Myntra))
	})
}

func TestConfigRows(t *testing.T) {
	cfg := NewConfig(
		NewEntry("Brand Name", "brand", "*Brand", "Brand"),
		NewEntry("GST Rate", "", "", ""),
	)

	rows := cfg.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "Brand Name", rows[0].Field)
	assert.Equal(t, "*Brand", rows[0].Sources[Ajio])
	assert.Equal(t, "", rows[1].Sources[Flipkart])

	rows[0].Sources[Ajio] = "changed"
	assert.Equal(t, "*Brand", cfg.Entries[0].Source(Ajio))
}
