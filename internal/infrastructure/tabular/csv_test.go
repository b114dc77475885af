package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lrcatalog/mapper/internal/domain/catalog"
	"github.com/lrcatalog/mapper/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestReadCSV(t *testing.T) {
	t.Run("Valid UTF-8 CSV", func(t *testing.T) {
		csv := "brand,styleId,Standard Size\nAcme,ST-001,M\nZeta,ST-002,L"
		table, err := ReadCSV(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, []string{"brand", "styleId", "Standard Size"}, table.Header)
		assert.Equal(t, [][]string{{"Acme", "ST-001", "M"}, {"Zeta", "ST-002", "L"}}, table.Rows)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		csv := "\xEF\xBB\xBFbrand,styleId\nAcme,ST-001"
		table, err := ReadCSV(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, "brand", table.Header[0])
	})

	t.Run("UTF-16 with BOM is decoded", func(t *testing.T) {
		for _, endian := range []unicode.Endianness{unicode.LittleEndian, unicode.BigEndian} {
			enc := unicode.UTF16(endian, unicode.UseBOM).NewEncoder()
			data, err := enc.Bytes([]byte("brand,Product Details\nAcme,Coton ü\n"))
			require.NoError(t, err)

			table, err := ReadCSV(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, []string{"brand", "Product Details"}, table.Header)
			assert.Equal(t, "Coton ü", table.Rows[0][1])
		}
	})

	t.Run("Cells are not trimmed or coerced", func(t *testing.T) {
		csv := " brand ,HSN\n  Acme  ,00620442\n\"a, \"\"quoted\"\" value\",1.50E+03"
		table, err := ReadCSV(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, []string{" brand ", "HSN"}, table.Header)
		assert.Equal(t, []string{"  Acme  ", "00620442"}, table.Rows[0])
		assert.Equal(t, []string{"a, \"quoted\" value", "1.50E+03"}, table.Rows[1])
	})

	t.Run("Ragged rows are allowed", func(t *testing.T) {
		csv := "a,b,c\n1\n1,2,3,4"
		table, err := ReadCSV(strings.NewReader(csv))

		require.NoError(t, err)
		assert.Equal(t, [][]string{{"1"}, {"1", "2", "3", "4"}}, table.Rows)
	})

	t.Run("Header only gives no rows", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("brand,styleId\n"))

		require.NoError(t, err)
		assert.Equal(t, 0, table.RowCount())
	})

	t.Run("Multiline quoted cell", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("Product Details\n\"line1\nline2\"\n"))

		require.NoError(t, err)
		assert.Equal(t, "line1\nline2", table.Rows[0][0])
	})

	t.Run("Custom delimiter", func(t *testing.T) {
		table, err := ReadCSV(strings.NewReader("brand;MRP\nAcme;999"), WithDelimiter(';'))

		require.NoError(t, err)
		assert.Equal(t, []string{"brand", "MRP"}, table.Header)
	})
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		opts    []ReadOption
		wantErr error
	}{
		{"empty file", []byte{}, nil, ErrEmptyFile},
		{"bom only", []byte{0xEF, 0xBB, 0xBF}, nil, ErrEmptyFile},
		{"blank lines only", []byte("\n\n\n"), nil, ErrMissingHeader},
		{"latin-1 bytes", []byte("brand\nCaf\xe9\n"), nil, ErrInvalidEncoding},
		{"strict quotes", []byte("a,b\n\"x\"y,1\n"), []ReadOption{WithLazyQuotes(false)}, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCSV(bytes.NewReader(tt.input), tt.opts...)

			assert.Nil(t, table)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrUnreadableInput)
			assert.Equal(t, CodeUnreadableInput, shared.CodeOf(err))
		})
	}
}

func TestReadCSV_TooLarge(t *testing.T) {
	table, err := ReadCSV(bytes.NewReader([]byte("brand\nAcme\n")), WithMaxSize(4))

	assert.Nil(t, table)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.NotErrorIs(t, err, ErrUnreadableInput)
	assert.Equal(t, CodeFileTooLarge, shared.CodeOf(err))
}

func TestRead_Dispatch(t *testing.T) {
	t.Run("tsv uses tab delimiter", func(t *testing.T) {
		table, err := Read("export.TSV", strings.NewReader("brand\tMRP\nAcme\t999"))

		require.NoError(t, err)
		assert.Equal(t, []string{"brand", "MRP"}, table.Header)
	})

	t.Run("txt is read as csv", func(t *testing.T) {
		table, err := Read("export.txt", strings.NewReader("brand,MRP\nAcme,999"))

		require.NoError(t, err)
		assert.Equal(t, []string{"Acme", "999"}, table.Rows[0])
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Read("export.pdf", strings.NewReader("x"))

		assert.ErrorIs(t, err, ErrUnsupportedFormat)
		assert.ErrorIs(t, err, ErrUnreadableInput)
	})

	t.Run("no extension", func(t *testing.T) {
		_, err := DetectFormat("export")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestWriteCSV(t *testing.T) {
	acme, empty, quoted := "Acme", "", "a, \"b\""
	out := &catalog.Output{
		Columns: []catalog.Column{
			{Name: "Brand Name", Values: []*string{&acme, &empty}},
			{Name: "GST Rate", Values: []*string{nil, nil}},
			{Name: "Product Details", Values: []*string{&quoted, nil}},
		},
		RowCount: 2,
	}

	data, err := EncodeCSV(out)
	require.NoError(t, err)
	assert.Equal(t, "Brand Name,GST Rate,Product Details\nAcme,,\"a, \"\"b\"\"\"\n,,\n", string(data))

	t.Run("round trips through ReadCSV", func(t *testing.T) {
		table, err := ReadCSV(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, out.Header(), table.Header)
		assert.Equal(t, []string{"Acme", "", "a, \"b\""}, table.Rows[0])
	})

	t.Run("header only output", func(t *testing.T) {
		data, err := EncodeCSV(&catalog.Output{Columns: []catalog.Column{{Name: "Size"}}})
		require.NoError(t, err)
		assert.Equal(t, "Size\n", string(data))
	})

	t.Run("nil output", func(t *testing.T) {
		_, err := EncodeCSV(nil)
		assert.Error(t, err)
	})
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"myntra_export.csv", "LR_myntra_export.csv"},
		{"ajio catalog.xlsx", "LR_ajio catalog.csv"},
		{"/tmp/uploads/flipkart.tsv", "LR_flipkart.csv"},
		{`C:\Users\me\flipkart.csv`, "LR_flipkart.csv"},
		{"archive.tar.csv", "LR_archive.tar.csv"},
		{"", "LR_catalog.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.input))
		})
	}
}
