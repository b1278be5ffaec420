package session

import (
	"encoding/json"
	"fmt"

	"github.com/kylejryan/claims-admin/internal/models"
)

// SetCollectionJSON replaces the named collection from a JSON array.
func (s *Store) SetCollectionJSON(name CollectionName, raw []byte) error {
	switch name {
	case CollectionServices:
		v, err := decodeList[models.ClientService](raw)
		if err != nil {
			return err
		}
		s.SetServices(v)
	case CollectionRatingQuestions:
		v, err := decodeList[models.ClientRatingQuestion](raw)
		if err != nil {
			return err
		}
		s.SetRatingQuestions(v)
	case CollectionDocuments:
		v, err := decodeList[models.ClientDocument](raw)
		if err != nil {
			return err
		}
		s.SetDocuments(v)
	case CollectionClaimCentres:
		v, err := decodeList[models.ClientClaimCentre](raw)
		if err != nil {
			return err
		}
		s.SetClaimCentres(v)
	case CollectionServiceProviders:
		v, err := decodeList[models.ClientServiceProvider](raw)
		if err != nil {
			return err
		}
		s.SetServiceProviders(v)
	case CollectionClaimControllers:
		v, err := decodeList[models.ClientClaimController](raw)
		if err != nil {
			return err
		}
		s.SetClaimControllers(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return nil
}

// AddItemJSON links one JSON-encoded entry to the named collection using the
// same rules as AddDocument.
func (s *Store) AddItemJSON(name CollectionName, raw []byte) error {
	switch name {
	case CollectionServices:
		return addJSON(s, raw, "add_service", func(st *state) *[]models.ClientService { return &st.services })
	case CollectionRatingQuestions:
		return addJSON(s, raw, "add_rating_question", func(st *state) *[]models.ClientRatingQuestion { return &st.ratingQuestions })
	case CollectionDocuments:
		v, err := decodeOne[models.ClientDocument](raw)
		if err != nil {
			return err
		}
		s.AddDocument(v)
		return nil
	case CollectionClaimCentres:
		return addJSON(s, raw, "add_claim_centre", func(st *state) *[]models.ClientClaimCentre { return &st.claimCentres })
	case CollectionServiceProviders:
		return addJSON(s, raw, "add_service_provider", func(st *state) *[]models.ClientServiceProvider { return &st.serviceProviders })
	case CollectionClaimControllers:
		return addJSON(s, raw, "add_claim_controller", func(st *state) *[]models.ClientClaimController { return &st.claimControllers })
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

func addJSON[T row[T]](s *Store, raw []byte, op string, field func(*state) *[]T) error {
	v, err := decodeOne[T](raw)
	if err != nil {
		return err
	}
	s.update(op, func(next *state) {
		p := field(next)
		*p = addItem(*p, v)
	})
	return nil
}

func decodeList[T any](raw []byte) ([]T, error) {
	var v []T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if v == nil {
		v = []T{}
	}
	return v, nil
}

func decodeOne[T any](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("decode item: %w", err)
	}
	return v, nil
}
