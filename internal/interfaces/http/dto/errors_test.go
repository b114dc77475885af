package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/lrcatalog/mapper/internal/domain/catalog"
	"github.com/lrcatalog/mapper/internal/domain/mapping"
	"github.com/lrcatalog/mapper/internal/domain/shared"
	"github.com/lrcatalog/mapper/internal/infrastructure/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeConfigCorrupt, http.StatusInternalServerError},
		{ErrCodeInvalidMappingRow, http.StatusBadRequest},
		{ErrCodeUnknownMarketplace, http.StatusBadRequest},
		{ErrCodeUnreadableInput, http.StatusUnprocessableEntity},
		{ErrCodeMissingHeaders, http.StatusUnprocessableEntity},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode_DomainErrors(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{shared.ErrNotFound, ErrCodeNotFound},
		{mapping.ErrConfigCorrupt, ErrCodeConfigCorrupt},
		{mapping.ErrInvalidMappingRow, ErrCodeInvalidMappingRow},
		{mapping.ErrUnknownMarketplace, ErrCodeUnknownMarketplace},
		{tabular.ErrMalformed, ErrCodeUnreadableInput},
		{tabular.ErrFileTooLarge, ErrCodeRequestTooLarge},
		{catalog.MissingHeadersError([]string{"brand"}), ErrCodeMissingHeaders},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(shared.CodeOf(tt.err)))
		})
	}
}

func TestNormalizeErrorCode_PassThrough(t *testing.T) {
	assert.Equal(t, ErrCodeBadRequest, NormalizeErrorCode(ErrCodeBadRequest))
	assert.Equal(t, "CUSTOM_ERROR", NormalizeErrorCode("CUSTOM_ERROR"))
}

func TestErrorCodeConstants(t *testing.T) {
	for _, code := range DomainErrorCodeMapping {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "code %s has no HTTP status", code)
	}
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithDetails(ErrCodeMissingHeaders, "missing", "req-1",
		MissingHeadersDetails{MissingHeaders: []string{"brand"}})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": false,
		"error": {
			"code": "ERR_MISSING_HEADERS",
			"message": "missing",
			"request_id": "req-1",
			"details": {"missing_headers": ["brand"]}
		}
	}`, string(data))
}

func TestSuccessResponseOmitsError(t *testing.T) {
	data, err := json.Marshal(NewSuccessResponse(map[string]int{"count": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success": true, "data": {"count": 1}}`, string(data))
}

func TestMappingRowConversion(t *testing.T) {
	rows := []MappingRow{
		{LimeRoad: "Brand Name", Myntra: "brand", Ajio: "*Brand", Flipkart: ""},
		{LimeRoad: "GST Rate"},
	}

	edits := ToEditRows(rows)
	require.Len(t, edits, 2)
	assert.Equal(t, "Brand Name", edits[0].Field)
	assert.Equal(t, "*Brand", edits[0].Sources[mapping.Ajio])
	assert.Equal(t, "", edits[1].Sources[mapping.Myntra])

	resp := NewMappingResponse(edits)
	assert.Equal(t, rows, resp.Rows)
	assert.Equal(t, 2, resp.Count)
}

func TestNewMappingResponse_Default(t *testing.T) {
	resp := NewMappingResponse(mapping.Default().Rows())

	assert.Equal(t, 39, resp.Count)
	assert.Equal(t, "Brand Name", resp.Rows[0].LimeRoad)
	assert.Equal(t, "brand", resp.Rows[0].Myntra)
}
