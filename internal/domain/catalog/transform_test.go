package catalog

import (
	"testing"

	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func cellValues(c Column) []string {
	vals := make([]string, len(c.Values))
	for i, v := range c.Values {
		if v != nil {
			vals[i] = *v
		} else {
			vals[i] = "<null>"
		}
	}
	return vals
}

func TestTransform_MyntraExample(t *testing.T) {
	in := NewTable([]string{"brand", "styleId", "Standard Size"}, []string{"Acme", "ST-001", "M"})
	cfg := mapping.Default()

	res := Transform(in, mapping.Myntra, cfg)

	require.NotNil(t, res.Output)
	header := res.Output.Header()
	assert.Equal(t, cfg.Fields(), header)
	assert.Equal(t, []string{"Brand Name", "Color Grouping Code", "Vendor Style Code", "Size"}, header[:4])
	assert.Equal(t, 1, res.Output.RowCount)

	row := res.Output.Row(0)
	assert.Equal(t, ptr("Acme"), row[0])
	assert.Equal(t, ptr("ST-001"), row[1])
	assert.Nil(t, row[2])
	assert.Equal(t, ptr("M"), row[3])

	assert.Contains(t, res.MissingHeaders, "vendorSkuCode")
	assert.Contains(t, res.MissingHeaders, "Brand Colour (Remarks)")
	assert.NotContains(t, res.MissingHeaders, "brand")
	assert.NotContains(t, res.MissingHeaders, "styleId")
	assert.NotContains(t, res.MissingHeaders, "Standard Size")
	assert.NotContains(t, res.MissingHeaders, "")
	assert.Equal(t, "vendorSkuCode", res.MissingHeaders[0])
	assert.True(t, res.HasMissingHeaders())
}

func TestTransform_MissingReportMatchesMapping(t *testing.T) {
	in := NewTable([]string{"brand", "styleId", "Standard Size"}, []string{"Acme", "ST-001", "M"})
	cfg := mapping.Default()

	res := Transform(in, mapping.Myntra, cfg)

	var want []string
	for _, e := range cfg.Entries {
		src := e.Source(mapping.Myntra)
		if src != "" && !in.HasColumn(src) {
			want = append(want, src)
		}
	}
	assert.Equal(t, want, res.MissingHeaders)
}

func TestTransform_UnknownMarketplace(t *testing.T) {
	in := NewTable([]string{"brand", "*Brand", "Brand"}, []string{"a", "b", "c"}, []string{"d", "e", "f"})
	cfg := mapping.Default()

	res := Transform(in, mapping.Marketplace("unknown_marketplace"), cfg)

	assert.Empty(t, res.MissingHeaders)
	assert.False(t, res.HasMissingHeaders())
	require.Len(t, res.Output.Columns, cfg.Len())
	assert.Equal(t, 2, res.Output.RowCount)
	for _, c := range res.Output.Columns {
		assert.True(t, c.IsNull(), c.Name)
		assert.Len(t, c.Values, 2)
	}
}

func TestTransform_ColumnOrderIgnoresInputOrder(t *testing.T) {
	cfg := mapping.NewConfig(
		mapping.NewEntry("Brand Name", "brand", "", ""),
		mapping.NewEntry("Size", "Standard Size", "", ""),
		mapping.NewEntry("MRP", "MRP", "", ""),
	)
	in := NewTable([]string{"MRP", "extra", "Standard Size", "brand"}, []string{"999", "x", "L", "Acme"})

	res := Transform(in, mapping.Myntra, cfg)

	assert.Equal(t, []string{"Brand Name", "Size", "MRP"}, res.Output.Header())
	assert.Equal(t, []*string{ptr("Acme"), ptr("L"), ptr("999")}, res.Output.Row(0))
	assert.Empty(t, res.MissingHeaders)
}

func TestTransform_UnmappedVersusAbsent(t *testing.T) {
	cfg := mapping.NewConfig(
		mapping.NewEntry("Packed Width (inches)", "", "*articleDimensionsUnitWidth", "packageDimensionsWidth"),
		mapping.NewEntry("Vendor Style Code", "vendorSkuCode", "*Item SKU", "Seller SKU ID"),
	)
	in := NewTable([]string{"brand"}, []string{"Acme"})

	res := Transform(in, mapping.Myntra, cfg)

	width, ok := res.Output.Column("Packed Width (inches)")
	require.True(t, ok)
	assert.True(t, width.IsNull())

	sku, ok := res.Output.Column("Vendor Style Code")
	require.True(t, ok)
	assert.True(t, sku.IsNull())

	assert.Equal(t, []string{"vendorSkuCode"}, res.MissingHeaders)
}

func TestTransform_DuplicateMissingNamesAreKept(t *testing.T) {
	in := NewTable([]string{"Brand"}, []string{"Acme"})

	res := Transform(in, mapping.Flipkart, mapping.Default())

	count := 0
	for _, name := range res.MissingHeaders {
		if name == "EAN/UPC" {
			count++
		}
	}
	assert.Equal(t, 2, count, "HSN Code and GTIN both map to EAN/UPC")
}

func TestTransform_ValuesAreOpaque(t *testing.T) {
	cfg := mapping.NewConfig(
		mapping.NewEntry("HSN Code", "HSN", "", ""),
		mapping.NewEntry("Product Details", "Product Details", "", ""),
	)
	in := NewTable(
		[]string{"HSN", "Product Details"},
		[]string{"00620442", "  padded, with \"quotes\"  "},
		[]string{"", "1.50E+03"},
		[]string{"007", "line1\nline2"},
	)

	res := Transform(in, mapping.Myntra, cfg)

	hsn, _ := res.Output.Column("HSN Code")
	assert.Equal(t, []string{"00620442", "", "007"}, cellValues(hsn))
	details, _ := res.Output.Column("Product Details")
	assert.Equal(t, []string{"  padded, with \"quotes\"  ", "1.50E+03", "line1\nline2"}, cellValues(details))
}

func TestTransform_RowCountAndOrderPreserved(t *testing.T) {
	cfg := mapping.NewConfig(mapping.NewEntry("Size", "Standard Size", "", ""))
	in := NewTable([]string{"Standard Size"},
		[]string{"XL"}, []string{"S"}, []string{"S"}, []string{"M"},
	)

	res := Transform(in, mapping.Myntra, cfg)

	assert.Equal(t, in.RowCount(), res.Output.RowCount)
	size, _ := res.Output.Column("Size")
	assert.Equal(t, []string{"XL", "S", "S", "M"}, cellValues(size))
}

func TestTransform_RaggedRowsReadAsNull(t *testing.T) {
	cfg := mapping.NewConfig(
		mapping.NewEntry("Brand Name", "brand", "", ""),
		mapping.NewEntry("MRP", "MRP", "", ""),
	)
	in := NewTable([]string{"brand", "MRP"}, []string{"Acme", "100"}, []string{"Zeta"})

	res := Transform(in, mapping.Myntra, cfg)

	mrp, _ := res.Output.Column("MRP")
	assert.Equal(t, []string{"100", "<null>"}, cellValues(mrp))
}

func TestTransform_RepeatedHeaderUsesFirstColumn(t *testing.T) {
	cfg := mapping.NewConfig(mapping.NewEntry("Color", "Color", "", ""))
	in := NewTable([]string{"Color", "Size", "Color"}, []string{"Red", "M", "Blue"})

	res := Transform(in, mapping.Myntra, cfg)

	color, _ := res.Output.Column("Color")
	assert.Equal(t, []string{"Red"}, cellValues(color))
}

func TestTransform_HeaderMatchIsExact(t *testing.T) {
	cfg := mapping.NewConfig(mapping.NewEntry("Brand Name", "brand", "", ""))
	in := NewTable([]string{" brand", "Brand"}, []string{"a", "b"})

	res := Transform(in, mapping.Myntra, cfg)

	assert.Equal(t, []string{"brand"}, res.MissingHeaders)
}

func TestTransform_EmptyInputs(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		in := NewTable([]string{"brand"})

		res := Transform(in, mapping.Myntra, mapping.Default())

		assert.Equal(t, 0, res.Output.RowCount)
		assert.Len(t, res.Output.Columns, mapping.Default().Len())
		for _, c := range res.Output.Columns {
			assert.Empty(t, c.Values)
		}
	})

	t.Run("empty config", func(t *testing.T) {
		in := NewTable([]string{"brand"}, []string{"Acme"})

		res := Transform(in, mapping.Myntra, &mapping.Config{})

		assert.Empty(t, res.Output.Columns)
		assert.Equal(t, 1, res.Output.RowCount)
		assert.Empty(t, res.MissingHeaders)
	})
}

func TestTransform_DoesNotModifyInputs(t *testing.T) {
	cfg := mapping.Default()
	in := NewTable([]string{"brand"}, []string{"Acme"})

	res := Transform(in, mapping.Myntra, cfg)
	*res.Output.Columns[0].Values[0] = "changed"

	assert.Equal(t, "Acme", in.Rows[0][0])
	assert.Equal(t, mapping.Default(), cfg)
}

func TestTable(t *testing.T) {
	in := NewTable([]string{"a", "b", "a"}, []string{"1"})

	idx, ok := in.ColumnIndex("a")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = in.ColumnIndex("c")
	assert.False(t, ok)

	_, ok = in.Cell(0, 1)
	assert.False(t, ok)

	var nilTable *Table
	assert.Equal(t, 0, nilTable.RowCount())
	assert.False(t, nilTable.HasColumn("a"))
}
