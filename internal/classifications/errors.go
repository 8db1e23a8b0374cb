package classifications

import (
	"errors"
	"net/http"
)

// Domain errors for classification operations.
var (
	ErrNotFound          = errors.New("classification record not found")
	ErrAlreadyClassified = errors.New("order already classified")
)

// MapHTTPStatus maps classification domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrAlreadyClassified) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
