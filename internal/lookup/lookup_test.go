package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/claims-admin/internal/models"
)

type fakeSource struct {
	docErr error
}

func (fakeSource) Users(context.Context) ([]models.User, error) {
	return []models.User{
		{UserName: "ann", IsActive: true},
		{UserName: "bob", IsActive: false},
		{UserName: "cid", IsActive: true, IsDeleted: true},
	}, nil
}

func (fakeSource) ClientGroups(context.Context) ([]models.ClientGroup, error) {
	return []models.ClientGroup{{ClientGroupId: 1, Name: "Funeral", IsActive: true}, {ClientGroupId: 2}}, nil
}

func (fakeSource) ServiceTypes(context.Context) ([]models.ServiceType, error) {
	return []models.ServiceType{{ServiceId: 1, IsActive: true}}, nil
}

func (f fakeSource) DocumentTypes(context.Context) ([]models.DocumentType, error) {
	if f.docErr != nil {
		return nil, f.docErr
	}
	return []models.DocumentType{{DocumentId: 1, IsActive: true}, {DocumentId: 2, IsActive: true, IsDeleted: true}}, nil
}

func (fakeSource) RatingQuestionTypes(context.Context) ([]models.RatingQuestionType, error) {
	return nil, nil
}

func TestFetchAll_FiltersInactive(t *testing.T) {
	s := New(nil, fakeSource{})
	v, err := s.FetchAll(context.Background(), models.LookupUsers)
	require.NoError(t, err)
	users := v.([]models.User)
	require.Len(t, users, 1)
	assert.Equal(t, "ann", users[0].UserName)

	_, err = s.FetchAll(context.Background(), "branches")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestLoadAll(t *testing.T) {
	s := New(nil, fakeSource{})
	all, err := s.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all.Users, 1)
	assert.Len(t, all.ClientGroups, 1)
	assert.Len(t, all.ServiceTypes, 1)
	assert.Len(t, all.DocumentTypes, 1)
	assert.NotNil(t, all.RatingQuestionTypes)
}

func TestLoadAll_FirstErrorWins(t *testing.T) {
	boom := errors.New("throttled")
	s := New(nil, fakeSource{docErr: boom})
	_, err := s.LoadAll(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "document types")
}
