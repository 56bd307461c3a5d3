package httpadapter

import (
	"net/http"

	"github.com/getclever/docqa/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrRetrievalUnavailable),
		domain.IsKind(err, domain.ErrGenerationUnavailable),
		domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicErrorMessage hides upstream detail for server-side failures; those
// go to the log, not the client.
func publicErrorMessage(err error, status int) string {
	if status >= 500 {
		return "service temporarily unavailable"
	}
	return err.Error()
}
