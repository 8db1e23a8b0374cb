package tenants

import (
	"errors"
	"net/http"
)

// Domain errors for tenant configuration operations.
var (
	ErrNotFound        = errors.New("tenant config not found")
	ErrDuplicate       = errors.New("tenant config already exists for client")
	ErrInvalidSwitches = errors.New("order updating requires emergency classification to be enabled")
)

// MapHTTPStatus maps tenant domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidSwitches) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
