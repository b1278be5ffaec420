package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"github.com/kylejryan/claims-admin/internal/api"
	"github.com/kylejryan/claims-admin/internal/httpx"
	"github.com/kylejryan/claims-admin/internal/models"
	"github.com/kylejryan/claims-admin/internal/session"
)

const handleKey = "session_handle"

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errBadRequest}, args...)...)
}

func sessionOf(c *gin.Context) *session.Handle {
	return c.MustGet(handleKey).(*session.Handle)
}

func respond(c *gin.Context, h *session.Handle) {
	httpx.JSON(c, http.StatusOK, api.SessionResponse{
		ID:       h.ID,
		ClientID: h.ClientID,
		EditMode: h.EditMode(),
		View:     h.Store.View(),
	})
}

func body(c *gin.Context) ([]byte, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, badRequest("read body: %v", err)
	}
	return raw, nil
}

// loadSession resolves :id for the caller and stores the handle on the context.
func (h *handler) loadSession(c *gin.Context) {
	hd, err := h.sessions.Get(c.Request.Context(), c.Param("id"), httpx.UserSub(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Set(handleKey, hd)
	c.Next()
}

func (h *handler) openSession(c *gin.Context) {
	var req api.OpenSessionRequest
	raw, err := body(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := binding.JSON.BindBody(raw, &req); err != nil {
			h.fail(c, badRequest("%v", err))
			return
		}
	}
	if req.ClientID < 0 {
		h.fail(c, badRequest("clientId must not be negative"))
		return
	}

	var existing models.Client
	if req.ClientID != 0 {
		if existing, err = h.clients.Get(c.Request.Context(), req.ClientID); err != nil {
			h.fail(c, err)
			return
		}
	}
	hd := h.sessions.Open(c.Request.Context(), httpx.UserSub(c), req.ClientID)
	if req.ClientID != 0 {
		hd.Store.SetFromServer(existing)
	}
	httpx.JSON(c, http.StatusCreated, api.SessionResponse{
		ID:       hd.ID,
		ClientID: hd.ClientID,
		EditMode: hd.EditMode(),
		View:     hd.Store.View(),
	})
}

func (h *handler) view(c *gin.Context) { respond(c, sessionOf(c)) }

func (h *handler) closeSession(c *gin.Context) {
	if err := h.sessions.Close(c.Request.Context(), c.Param("id"), httpx.UserSub(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) reset(c *gin.Context) {
	hd := sessionOf(c)
	hd.Store.Reset()
	respond(c, hd)
}

func (h *handler) selectTab(c *gin.Context) {
	var req api.SelectTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("%v", err))
		return
	}
	hd := sessionOf(c)
	hd.Store.SelectTab(req.Tab)
	respond(c, hd)
}

func (h *handler) patchSlice(c *gin.Context) {
	name, err := session.ParseSliceName(c.Param("slice"))
	if err != nil {
		h.fail(c, err)
		return
	}
	raw, err := body(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	patch, err := session.NewFields(raw)
	if err != nil {
		h.fail(c, badRequest("%v", err))
		return
	}
	hd := sessionOf(c)
	if err := hd.Store.PatchSlice(name, patch); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, hd)
}

func (h *handler) setCollection(c *gin.Context) {
	h.collectionJSON(c, (*session.Store).SetCollectionJSON)
}

func (h *handler) addItem(c *gin.Context) {
	h.collectionJSON(c, (*session.Store).AddItemJSON)
}

func (h *handler) collectionJSON(c *gin.Context, apply func(*session.Store, session.CollectionName, []byte) error) {
	name, err := session.ParseCollectionName(c.Param("collection"))
	if err != nil {
		h.fail(c, err)
		return
	}
	raw, err := body(c)
	if err != nil {
		h.fail(c, err)
		return
	}
	hd := sessionOf(c)
	if err := apply(hd.Store, name, raw); err != nil {
		h.fail(c, badRequest("%v", err))
		return
	}
	respond(c, hd)
}

func (h *handler) softDelete(c *gin.Context) { h.flag(c, (*session.Store).SoftDelete) }

func (h *handler) restore(c *gin.Context) { h.flag(c, (*session.Store).Restore) }

func (h *handler) flag(c *gin.Context, apply func(*session.Store, session.CollectionName, session.Predicate) error) {
	name, err := session.ParseCollectionName(c.Param("collection"))
	if err != nil {
		h.fail(c, err)
		return
	}
	var req api.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("%v", err))
		return
	}
	var match session.Predicate
	switch {
	case len(req.Keys) > 0:
		match = session.KeyIn(req.Keys...)
	case len(req.Where) > 0:
		match = session.Where(req.Where)
	default:
		h.fail(c, badRequest("keys or where is required"))
		return
	}
	hd := sessionOf(c)
	if err := apply(hd.Store, name, match); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, hd)
}

func (h *handler) upsertDocument(c *gin.Context) {
	var doc models.ClientDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		h.fail(c, badRequest("%v", err))
		return
	}
	hd := sessionOf(c)
	hd.Store.UpsertDocument(doc)
	respond(c, hd)
}

func (h *handler) linkDocument(c *gin.Context) {
	var req api.LinkDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, badRequest("%v", err))
		return
	}
	tmp := uuid.NewString()
	hd := sessionOf(c)
	hd.Store.AddDocument(models.ClientDocument{
		DocumentId: req.DocumentId,
		Note:       req.Note,
		FileName:   req.FileName,
		FileData:   req.FileData,
		ListRank:   req.ListRank,
		TempKey:    tmp,
	})
	httpx.JSON(c, http.StatusCreated, api.LinkDocumentResponse{TempKey: tmp, View: hd.Store.View()})
}

func (h *handler) snapshot(c *gin.Context) {
	httpx.JSON(c, http.StatusOK, sessionOf(c).Store.Snapshot())
}

// save submits the snapshot. A new client is created and the session is
// rebound to its id; an existing one is updated along with pending deletions.
func (h *handler) save(c *gin.Context) {
	hd := sessionOf(c)
	ctx := c.Request.Context()
	snap := hd.Store.Snapshot()

	var (
		saved   models.Client
		err     error
		created = !hd.EditMode()
	)
	if created {
		saved, err = h.clients.Create(ctx, snap)
	} else {
		saved, err = h.clients.Update(ctx, hd.ClientID, snap, hd.Store.PendingDeletions())
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	hd.Store.SetFromServer(saved)
	if created {
		h.sessions.Rebind(hd.ID, saved.ClientId)
	}
	h.log.Info("session saved", "session_id", hd.ID, "client_id", saved.ClientId, "created", created)
	httpx.JSON(c, http.StatusOK, api.SaveResponse{Created: created, Client: saved, View: hd.Store.View()})
}
