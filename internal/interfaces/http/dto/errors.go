package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the request body exceeds the limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeRateLimited is used when a client exceeds the request rate
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Mapping error codes
const (
	// ErrCodeConfigCorrupt is used when the persisted mapping cannot be decoded
	ErrCodeConfigCorrupt = "ERR_CONFIG_CORRUPT"
	// ErrCodeInvalidMappingRow is used when an edited mapping row is rejected
	ErrCodeInvalidMappingRow = "ERR_INVALID_MAPPING_ROW"
	// ErrCodeUnknownMarketplace is used when a marketplace key is not configured
	ErrCodeUnknownMarketplace = "ERR_UNKNOWN_MARKETPLACE"
)

// Conversion error codes
const (
	// ErrCodeUnreadableInput is used when an uploaded file cannot be parsed as a table
	ErrCodeUnreadableInput = "ERR_UNREADABLE_INPUT"
	// ErrCodeMissingHeaders is used when a strict conversion finds mapped columns absent
	ErrCodeMissingHeaders = "ERR_MISSING_HEADERS"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeNotFound:        http.StatusNotFound,

	ErrCodeConfigCorrupt:      http.StatusInternalServerError,
	ErrCodeInvalidMappingRow:  http.StatusBadRequest,
	ErrCodeUnknownMarketplace: http.StatusBadRequest,

	// Well-formed requests whose content cannot be converted -> 422
	ErrCodeUnreadableInput: http.StatusUnprocessableEntity,
	ErrCodeMissingHeaders:  http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"CONFIG_CORRUPT":      ErrCodeConfigCorrupt,
	"INVALID_MAPPING_ROW": ErrCodeInvalidMappingRow,
	"UNKNOWN_MARKETPLACE": ErrCodeUnknownMarketplace,
	"UNREADABLE_INPUT":    ErrCodeUnreadableInput,
	"MISSING_HEADERS":     ErrCodeMissingHeaders,
	"FILE_TOO_LARGE":      ErrCodeRequestTooLarge,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
