package shared

import "errors"

// DomainError represents a domain-level error carrying a stable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// ErrNotFound is returned for unknown routes and resources
var ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")

// CodeOf returns the code of the first DomainError in err's chain, or "" if there is none
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
