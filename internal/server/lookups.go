package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kylejryan/claims-admin/internal/api"
	"github.com/kylejryan/claims-admin/internal/httpx"
	"github.com/kylejryan/claims-admin/internal/models"
	"github.com/kylejryan/claims-admin/internal/s3io"
)

func (h *handler) allLookups(c *gin.Context) {
	all, err := h.lookups.LoadAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, all)
}

func (h *handler) lookup(c *gin.Context) {
	list, err := h.lookups.FetchAll(c.Request.Context(), models.LookupKind(c.Param("kind")))
	if err != nil {
		h.fail(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, list)
}

var errNoPresigner = errors.New("document downloads are not configured")

// documentURL presigns a download for a stored document of client :id.
func (h *handler) documentURL(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.fail(c, badRequest("invalid client id %q", c.Param("id")))
		return
	}
	key := c.Query("key")
	owner, _, _, ok := s3io.ParseDocumentKey(key)
	if !ok || owner != id {
		h.fail(c, badRequest("key %q is not a document of client %d", key, id))
		return
	}
	if h.presigner == nil {
		httpx.Error(c, http.StatusServiceUnavailable, "presign_unavailable", errNoPresigner)
		return
	}
	url, ttl, err := s3io.PresignGet(c.Request.Context(), h.presigner, h.bucket, key, h.presignTTL)
	if err != nil {
		h.fail(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, api.DocumentURLResponse{URL: url, ExpiresIn: int(ttl.Seconds())})
}
