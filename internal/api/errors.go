package api

import (
	"errors"
	"net/http"

	"github.com/ZahraAsadiMSFT/hr-modernization/internal/pipeline"
	"github.com/ZahraAsadiMSFT/hr-modernization/internal/sessions"
)

func mapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pipeline.ErrNotSuspended):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
