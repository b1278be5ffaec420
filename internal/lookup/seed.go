package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kylejryan/claims-admin/internal/models"
)

// Sink stores lookup records.
type Sink interface {
	PutLookup(ctx context.Context, kind models.LookupKind, id string, v any) error
}

// ParseSeed reads a YAML seed file. Top-level keys and record fields use the
// same names as the JSON API, e.g.
//
//	serviceTypes:
//	  - {ServiceId: 4, Description: Towing, IsActive: true}
func ParseSeed(raw []byte) (models.Lookups, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return models.Lookups{}, fmt.Errorf("parse seed: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return models.Lookups{}, fmt.Errorf("parse seed: %w", err)
	}
	var out models.Lookups
	if err := json.Unmarshal(b, &out); err != nil {
		return models.Lookups{}, fmt.Errorf("parse seed: %w", err)
	}
	return out, nil
}

// Seed writes every record in l to sink and returns how many were written.
func Seed(ctx context.Context, sink Sink, l models.Lookups) (int, error) {
	n := 0
	put := func(kind models.LookupKind, id int64, v any) error {
		if id == 0 {
			return fmt.Errorf("%s record without id", kind)
		}
		if err := sink.PutLookup(ctx, kind, strconv.FormatInt(id, 10), v); err != nil {
			return fmt.Errorf("seed %s %d: %w", kind, id, err)
		}
		n++
		return nil
	}
	for _, v := range l.Users {
		if err := put(models.LookupUsers, v.AspNetUserId, v); err != nil {
			return n, err
		}
	}
	for _, v := range l.ClientGroups {
		if err := put(models.LookupClientGroups, v.ClientGroupId, v); err != nil {
			return n, err
		}
	}
	for _, v := range l.ServiceTypes {
		if err := put(models.LookupServiceTypes, v.ServiceId, v); err != nil {
			return n, err
		}
	}
	for _, v := range l.DocumentTypes {
		if err := put(models.LookupDocumentTypes, v.DocumentId, v); err != nil {
			return n, err
		}
	}
	for _, v := range l.RatingQuestionTypes {
		if err := put(models.LookupRatingQuestionTypes, v.RatingQuestionTypeId, v); err != nil {
			return n, err
		}
	}
	return n, nil
}
