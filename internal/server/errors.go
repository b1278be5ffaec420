package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kylejryan/claims-admin/internal/clients"
	"github.com/kylejryan/claims-admin/internal/httpx"
	"github.com/kylejryan/claims-admin/internal/lookup"
	"github.com/kylejryan/claims-admin/internal/session"
	"github.com/kylejryan/claims-admin/internal/validate"
)

var errBadRequest = errors.New("bad request")

// fail maps domain errors onto status codes.
func (h *handler) fail(c *gin.Context, err error) {
	var ve *validate.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.FieldErrors(c, "client failed validation", ve.Fields)
	case errors.Is(err, session.ErrSessionNotFound):
		httpx.Error(c, http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, session.ErrForbidden):
		httpx.Error(c, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, clients.ErrNotFound):
		httpx.Error(c, http.StatusNotFound, "client_not_found", err)
	case errors.Is(err, lookup.ErrUnknownKind):
		httpx.Error(c, http.StatusNotFound, "unknown_lookup", err)
	case errors.Is(err, session.ErrUnknownSlice),
		errors.Is(err, session.ErrUnknownCollection),
		errors.Is(err, session.ErrUnknownTab):
		httpx.Error(c, http.StatusNotFound, "unknown_name", err)
	case errors.Is(err, errBadRequest):
		httpx.Error(c, http.StatusBadRequest, "bad_request", err)
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		httpx.Error(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}
