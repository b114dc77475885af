package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into Sheet1 starting at startRow and returns the xlsx bytes
func buildWorkbook(t *testing.T, startRow int, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadXLSX(t *testing.T) {
	t.Run("first sheet header and rows", func(t *testing.T) {
		data := buildWorkbook(t, 1,
			[]interface{}{"brand", "styleId", "Standard Size"},
			[]interface{}{"Acme", "ST-001", "M"},
			[]interface{}{"Zeta", "ST-002", "L"},
		)

		table, err := ReadXLSX(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []string{"brand", "styleId", "Standard Size"}, table.Header)
		assert.Equal(t, [][]string{{"Acme", "ST-001", "M"}, {"Zeta", "ST-002", "L"}}, table.Rows)
	})

	t.Run("leading blank rows are skipped", func(t *testing.T) {
		data := buildWorkbook(t, 3,
			[]interface{}{"brand"},
			[]interface{}{"Acme"},
		)

		table, err := ReadXLSX(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []string{"brand"}, table.Header)
		assert.Equal(t, 1, table.RowCount())
	})

	t.Run("interior blank rows are kept", func(t *testing.T) {
		data := buildWorkbook(t, 1,
			[]interface{}{"brand"},
			[]interface{}{"Acme"},
			nil,
			[]interface{}{"Zeta"},
		)

		table, err := ReadXLSX(bytes.NewReader(data))
		require.NoError(t, err)
		require.Equal(t, 3, table.RowCount())
		assert.Empty(t, table.Rows[1])
		assert.Equal(t, []string{"Zeta"}, table.Rows[2])
	})

	t.Run("numbers read as displayed text", func(t *testing.T) {
		data := buildWorkbook(t, 1,
			[]interface{}{"MRP", "Name"},
			[]interface{}{999, "Shirt"},
		)

		table, err := ReadXLSX(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []string{"999", "Shirt"}, table.Rows[0])
	})

	t.Run("dispatch by extension", func(t *testing.T) {
		data := buildWorkbook(t, 1, []interface{}{"brand"}, []interface{}{"Acme"})

		table, err := Read("MYNTRA.XLSX", bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, []string{"brand"}, table.Header)
	})
}

func TestReadXLSX_Errors(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		_, err := ReadXLSX(strings.NewReader("brand,MRP\nAcme,999"))

		assert.ErrorIs(t, err, ErrInvalidWorkbook)
		assert.ErrorIs(t, err, ErrUnreadableInput)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadXLSX(bytes.NewReader(nil))
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("empty sheet has no header", func(t *testing.T) {
		data := buildWorkbook(t, 1)

		_, err := ReadXLSX(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrMissingHeader)
	})

	t.Run("size limit", func(t *testing.T) {
		data := buildWorkbook(t, 1, []interface{}{"brand"})

		_, err := ReadXLSX(bytes.NewReader(data), WithMaxSize(16))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}
