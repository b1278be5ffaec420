package ddb

import (
	"context"

	"github.com/kylejryan/claims-admin/internal/models"
)

// Users lists operator accounts.
func (r *Repo) Users(ctx context.Context) ([]models.User, error) {
	return ListLookup[models.User](ctx, r, models.LookupUsers)
}

// ClientGroups lists client groups.
func (r *Repo) ClientGroups(ctx context.Context) ([]models.ClientGroup, error) {
	return ListLookup[models.ClientGroup](ctx, r, models.LookupClientGroups)
}

// ServiceTypes lists the services a client can offer.
func (r *Repo) ServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	return ListLookup[models.ServiceType](ctx, r, models.LookupServiceTypes)
}

// DocumentTypes lists the kinds of documents that can be linked.
func (r *Repo) DocumentTypes(ctx context.Context) ([]models.DocumentType, error) {
	return ListLookup[models.DocumentType](ctx, r, models.LookupDocumentTypes)
}

// RatingQuestionTypes lists rating question types.
func (r *Repo) RatingQuestionTypes(ctx context.Context) ([]models.RatingQuestionType, error) {
	return ListLookup[models.RatingQuestionType](ctx, r, models.LookupRatingQuestionTypes)
}
