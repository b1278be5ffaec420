package models

import (
	"strconv"
	"strings"
)

// ServiceDto is the display record attached to a ClientService row.
type ServiceDto struct {
	ServiceId   int64  `json:"ServiceId"`
	Description string `json:"Description"`
}

// DocumentDto is the display record attached to a ClientDocument row.
type DocumentDto struct {
	DocumentId  int64  `json:"DocumentId"`
	Description string `json:"Description"`
	IsActive    bool   `json:"IsActive"`
	IsDelete    bool   `json:"IsDelete"`
}

// ServiceProviderDto is the display record attached to a ClientServiceProvider row.
type ServiceProviderDto struct {
	ServiceProviderId int64  `json:"ServiceProviderId"`
	Name              string `json:"Name"`
}

// ClientService links a service type to a client.
type ClientService struct {
	ClientServiceId int64  `json:"ClientServiceId" dynamodbav:"client_service_id"`
	ClientId        int64  `json:"ClientId" dynamodbav:"client_id"`
	ServiceId       int64  `json:"ServiceId" dynamodbav:"service_id"`
	Note            string `json:"Note" dynamodbav:"note"`
	TransferNumber  string `json:"TransferNumber" dynamodbav:"transfer_number"`
	IsDeleted       bool   `json:"IsDeleted" dynamodbav:"is_deleted"`

	ServiceDto *ServiceDto `json:"ServiceDto,omitempty" dynamodbav:"-"`
}

// IdentityKey implements Item.
func (s ClientService) IdentityKey() string { return strconv.FormatInt(s.ServiceId, 10) }

// Deleted implements Item.
func (s ClientService) Deleted() bool { return s.IsDeleted }

// PersistedID implements Item.
func (s ClientService) PersistedID() int64 { return s.ClientServiceId }

// WithDeleted returns a copy with the delete flag set to v.
func (s ClientService) WithDeleted(v bool) ClientService { s.IsDeleted = v; return s }

// Sanitized drops the display record.
func (s ClientService) Sanitized() ClientService { s.ServiceDto = nil; return s }

// ClientRatingQuestion links a rating question to a client.
type ClientRatingQuestion struct {
	ClientRatingQuestionId int64 `json:"ClientRatingQuestionId" dynamodbav:"client_rating_question_id"`
	ClientId               int64 `json:"ClientId" dynamodbav:"client_id"`
	RatingQuestionId       int64 `json:"RatingQuestionId" dynamodbav:"rating_question_id"`
	ListRank               int   `json:"ListRank" dynamodbav:"list_rank"`
	IsDeleted              bool  `json:"IsDeleted" dynamodbav:"is_deleted"`

	RatingQuestion *RatingQuestion `json:"RatingQuestion,omitempty" dynamodbav:"-"`
}

// IdentityKey implements Item.
func (q ClientRatingQuestion) IdentityKey() string {
	return strconv.FormatInt(q.RatingQuestionId, 10)
}

// Deleted implements Item.
func (q ClientRatingQuestion) Deleted() bool { return q.IsDeleted }

// PersistedID implements Item.
func (q ClientRatingQuestion) PersistedID() int64 { return q.ClientRatingQuestionId }

// WithDeleted returns a copy with the delete flag set to v.
func (q ClientRatingQuestion) WithDeleted(v bool) ClientRatingQuestion { q.IsDeleted = v; return q }

// Sanitized drops the display record.
func (q ClientRatingQuestion) Sanitized() ClientRatingQuestion { q.RatingQuestion = nil; return q }

// ClientDocument links a document (type) and its uploaded file to a client.
type ClientDocument struct {
	ClientDocumentId int64  `json:"ClientDocumentId" dynamodbav:"client_document_id"`
	ClientId         int64  `json:"ClientId" dynamodbav:"client_id"`
	DocumentId       int64  `json:"DocumentId" dynamodbav:"document_id"`
	Note             string `json:"Note" dynamodbav:"note"`
	FileName         string `json:"FileName" dynamodbav:"file_name"`
	FileData         string `json:"FileData,omitempty" dynamodbav:"-"`
	FileKey          string `json:"FileKey,omitempty" dynamodbav:"file_key,omitempty"`
	FileSize         int64  `json:"FileSize,omitempty" dynamodbav:"file_size,omitempty"`
	ETag             string `json:"ETag,omitempty" dynamodbav:"etag,omitempty"`
	UploadedAt       string `json:"UploadedAt,omitempty" dynamodbav:"uploaded_at,omitempty"`
	ListRank         int    `json:"ListRank" dynamodbav:"list_rank"`
	IsDeleted        bool   `json:"IsDeleted" dynamodbav:"is_deleted"`

	// TempKey distinguishes unsaved rows of the same document type.
	TempKey     string       `json:"TempKey,omitempty" dynamodbav:"-"`
	Document    *DocumentDto `json:"Document,omitempty" dynamodbav:"-"`
	DocumentDto *DocumentDto `json:"DocumentDto,omitempty" dynamodbav:"-"`
}

// IdentityKey implements Item. Rows without a DocumentId use the "new" sentinel.
func (d ClientDocument) IdentityKey() string {
	doc := "new"
	if d.DocumentId != 0 {
		doc = strconv.FormatInt(d.DocumentId, 10)
	}
	if d.ClientDocumentId == 0 && d.TempKey != "" {
		return doc + ":tmp-" + d.TempKey
	}
	return doc + ":" + strconv.FormatInt(d.ClientDocumentId, 10)
}

// Deleted implements Item.
func (d ClientDocument) Deleted() bool { return d.IsDeleted }

// PersistedID implements Item.
func (d ClientDocument) PersistedID() int64 { return d.ClientDocumentId }

// WithDeleted returns a copy with the delete flag set to v.
func (d ClientDocument) WithDeleted(v bool) ClientDocument { d.IsDeleted = v; return d }

// Sanitized drops display records and normalizes FileData to bare base64.
func (d ClientDocument) Sanitized() ClientDocument {
	d.Document = nil
	d.DocumentDto = nil
	d.FileData = PureBase64(d.FileData)
	return d
}

// PureBase64 strips a data-URL prefix ("data:...;base64,") when present.
func PureBase64(s string) string {
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "base64,"); i >= 0 {
		return s[i+len("base64,"):]
	}
	return s
}

// ClientClaimCentre links a claim centre to a client.
type ClientClaimCentre struct {
	ClientClaimCentreId int64 `json:"ClientClaimCentreId" dynamodbav:"client_claim_centre_id"`
	ClientId            int64 `json:"ClientId" dynamodbav:"client_id"`
	ClaimCentreId       int64 `json:"ClaimCentreId" dynamodbav:"claim_centre_id"`
	IsDeleted           bool  `json:"IsDeleted" dynamodbav:"is_deleted"`
}

// IdentityKey implements Item.
func (c ClientClaimCentre) IdentityKey() string { return strconv.FormatInt(c.ClaimCentreId, 10) }

// Deleted implements Item.
func (c ClientClaimCentre) Deleted() bool { return c.IsDeleted }

// PersistedID implements Item.
func (c ClientClaimCentre) PersistedID() int64 { return c.ClientClaimCentreId }

// WithDeleted returns a copy with the delete flag set to v.
func (c ClientClaimCentre) WithDeleted(v bool) ClientClaimCentre { c.IsDeleted = v; return c }

// Sanitized returns c unchanged; claim centres carry no display records.
func (c ClientClaimCentre) Sanitized() ClientClaimCentre { return c }

// ClientServiceProvider links a service provider to a client.
type ClientServiceProvider struct {
	ClientServiceProviderId int64  `json:"ClientServiceProviderId" dynamodbav:"client_service_provider_id"`
	ClientId                int64  `json:"ClientId" dynamodbav:"client_id"`
	ServiceProviderId       int64  `json:"ServiceProviderId" dynamodbav:"service_provider_id"`
	Note                    string `json:"Note" dynamodbav:"note"`
	IsDeleted               bool   `json:"IsDeleted" dynamodbav:"is_deleted"`

	ClientServiceProviderDto *ServiceProviderDto `json:"ClientServiceProviderDto,omitempty" dynamodbav:"-"`
	ProviderDto              *ServiceProviderDto `json:"ProviderDto,omitempty" dynamodbav:"-"`
}

// IdentityKey implements Item.
func (p ClientServiceProvider) IdentityKey() string {
	return strconv.FormatInt(p.ServiceProviderId, 10)
}

// Deleted implements Item.
func (p ClientServiceProvider) Deleted() bool { return p.IsDeleted }

// PersistedID implements Item.
func (p ClientServiceProvider) PersistedID() int64 { return p.ClientServiceProviderId }

// WithDeleted returns a copy with the delete flag set to v.
func (p ClientServiceProvider) WithDeleted(v bool) ClientServiceProvider { p.IsDeleted = v; return p }

// Sanitized drops the display records.
func (p ClientServiceProvider) Sanitized() ClientServiceProvider {
	p.ClientServiceProviderDto = nil
	p.ProviderDto = nil
	return p
}

// ClientClaimController assigns a user as claim controller for a client.
type ClientClaimController struct {
	ClientClaimControllerId int64  `json:"ClientClaimControllerId" dynamodbav:"client_claim_controller_id"`
	ClientId                int64  `json:"ClientId" dynamodbav:"client_id"`
	UserName                string `json:"UserName" dynamodbav:"user_name"`
	IsDeleted               bool   `json:"IsDeleted" dynamodbav:"is_deleted"`
}

// IdentityKey implements Item.
func (c ClientClaimController) IdentityKey() string { return strings.ToLower(c.UserName) }

// Deleted implements Item.
func (c ClientClaimController) Deleted() bool { return c.IsDeleted }

// PersistedID implements Item.
func (c ClientClaimController) PersistedID() int64 { return c.ClientClaimControllerId }

// WithDeleted returns a copy with the delete flag set to v.
func (c ClientClaimController) WithDeleted(v bool) ClientClaimController { c.IsDeleted = v; return c }

// Sanitized returns c unchanged; claim controllers carry no display records.
func (c ClientClaimController) Sanitized() ClientClaimController { return c }

// Item is implemented by every collection row.
type Item interface {
	IdentityKey() string
	Deleted() bool
	PersistedID() int64
}
