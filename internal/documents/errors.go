package documents

import (
	"errors"
	"net/http"
)

// Domain errors for template and output operations.
var (
	ErrUnknownTemplate  = errors.New("unknown template")
	ErrTemplateNotFound = errors.New("template not found")
)

// MapHTTPStatus maps document domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownTemplate) || errors.Is(err, ErrTemplateNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
