// Package lookup serves the reference lists the client edit tabs pick from.
package lookup

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kylejryan/claims-admin/internal/logger"
	"github.com/kylejryan/claims-admin/internal/models"
)

// ErrUnknownKind is returned for a lookup kind that does not exist.
var ErrUnknownKind = errors.New("unknown lookup kind")

// Source reads raw lookup lists, inactive and deleted records included.
type Source interface {
	Users(ctx context.Context) ([]models.User, error)
	ClientGroups(ctx context.Context) ([]models.ClientGroup, error)
	ServiceTypes(ctx context.Context) ([]models.ServiceType, error)
	DocumentTypes(ctx context.Context) ([]models.DocumentType, error)
	RatingQuestionTypes(ctx context.Context) ([]models.RatingQuestionType, error)
}

// Service filters lookup lists down to selectable records.
type Service struct {
	log *logger.Logger
	src Source
}

// New builds a Service.
func New(log *logger.Logger, src Source) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{log: log.With("service", "Lookups"), src: src}
}

func keep[T any](in []T, active func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if active(v) {
			out = append(out, v)
		}
	}
	return out
}

// Users returns active, non-deleted users.
func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	v, err := s.src.Users(ctx)
	if err != nil {
		return nil, fmt.Errorf("users: %w", err)
	}
	return keep(v, func(u models.User) bool { return u.IsActive && !u.IsDeleted }), nil
}

// ClientGroups returns active, non-deleted client groups.
func (s *Service) ClientGroups(ctx context.Context) ([]models.ClientGroup, error) {
	v, err := s.src.ClientGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("client groups: %w", err)
	}
	return keep(v, func(g models.ClientGroup) bool { return g.IsActive && !g.IsDeleted }), nil
}

// ServiceTypes returns active, non-deleted service types.
func (s *Service) ServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	v, err := s.src.ServiceTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("service types: %w", err)
	}
	return keep(v, func(t models.ServiceType) bool { return t.IsActive && !t.IsDeleted }), nil
}

// DocumentTypes returns active, non-deleted document types.
func (s *Service) DocumentTypes(ctx context.Context) ([]models.DocumentType, error) {
	v, err := s.src.DocumentTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("document types: %w", err)
	}
	return keep(v, func(t models.DocumentType) bool { return t.IsActive && !t.IsDeleted }), nil
}

// RatingQuestionTypes returns active, non-deleted rating question types.
func (s *Service) RatingQuestionTypes(ctx context.Context) ([]models.RatingQuestionType, error) {
	v, err := s.src.RatingQuestionTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("rating question types: %w", err)
	}
	return keep(v, func(t models.RatingQuestionType) bool { return t.IsActive && !t.IsDeleted }), nil
}

// FetchAll returns the filtered list for one kind.
func (s *Service) FetchAll(ctx context.Context, kind models.LookupKind) (any, error) {
	switch kind {
	case models.LookupUsers:
		return s.Users(ctx)
	case models.LookupClientGroups:
		return s.ClientGroups(ctx)
	case models.LookupServiceTypes:
		return s.ServiceTypes(ctx)
	case models.LookupDocumentTypes:
		return s.DocumentTypes(ctx)
	case models.LookupRatingQuestionTypes:
		return s.RatingQuestionTypes(ctx)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// LoadAll fetches every list concurrently and fails with the first error.
func (s *Service) LoadAll(ctx context.Context) (models.Lookups, error) {
	var out models.Lookups
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.Users, err = s.Users(gctx); return })
	g.Go(func() (err error) { out.ClientGroups, err = s.ClientGroups(gctx); return })
	g.Go(func() (err error) { out.ServiceTypes, err = s.ServiceTypes(gctx); return })
	g.Go(func() (err error) { out.DocumentTypes, err = s.DocumentTypes(gctx); return })
	g.Go(func() (err error) { out.RatingQuestionTypes, err = s.RatingQuestionTypes(gctx); return })
	if err := g.Wait(); err != nil {
		s.log.Warn("lookup load failed", "error", err)
		return models.Lookups{}, err
	}
	return out, nil
}
