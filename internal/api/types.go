// Package api contains types for the API requests and responses.
package api

import (
	"github.com/kylejryan/claims-admin/internal/models"
	"github.com/kylejryan/claims-admin/internal/session"
)

// OpenSessionRequest opens an edit session. ClientID 0 starts a new client.
type OpenSessionRequest struct {
	ClientID int64 `json:"clientId"`
}

// SessionResponse describes a session and its live view.
type SessionResponse struct {
	ID       string       `json:"id"`
	ClientID int64        `json:"clientId"`
	EditMode bool         `json:"editMode"`
	View     session.View `json:"view"`
}

// SelectTabRequest selects the tab shown for a session.
type SelectTabRequest struct {
	Tab session.Tab `json:"tab"`
}

// MatchRequest selects collection entries either by identity key or by
// field equality.
type MatchRequest struct {
	Keys  []string       `json:"keys"`
	Where map[string]any `json:"where"`
}

// LinkDocumentRequest links a new document to the session.
type LinkDocumentRequest struct {
	DocumentId int64  `json:"DocumentId" binding:"required"`
	Note       string `json:"Note"`
	FileName   string `json:"FileName"`
	FileData   string `json:"FileData"`
	ListRank   int    `json:"ListRank"`
}

// LinkDocumentResponse returns the temporary key of the linked row.
type LinkDocumentResponse struct {
	TempKey string       `json:"tempKey"`
	View    session.View `json:"view"`
}

// SaveResponse is returned after a successful create or update.
type SaveResponse struct {
	Created bool          `json:"created"`
	Client  models.Client `json:"client"`
	View    session.View  `json:"view"`
}

// DocumentURLResponse carries a presigned download URL.
type DocumentURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}
