package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kylejryan/claims-admin/internal/models"
)

func TestWhere(t *testing.T) {
	doc := models.ClientDocument{ClientDocumentId: 7, DocumentId: 5, FileName: "id.pdf"}

	cases := []struct {
		name   string
		fields map[string]any
		want   bool
	}{
		{"all match", map[string]any{"ClientDocumentId": float64(7), "DocumentId": 5}, true},
		{"one differs", map[string]any{"ClientDocumentId": float64(7), "DocumentId": 6}, false},
		{"string field", map[string]any{"FileName": "id.pdf"}, true},
		{"bool field", map[string]any{"IsDeleted": false}, true},
		{"null matches missing", map[string]any{"Document": nil}, true},
		{"type mismatch", map[string]any{"DocumentId": "5"}, false},
		{"empty matches nothing", map[string]any{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Where(tc.fields)(doc))
		})
	}
}

func TestWhere_SoftDeletesThroughStore(t *testing.T) {
	s := NewStore()
	s.SetServiceProviders([]models.ClientServiceProvider{
		{ServiceProviderId: 1, Note: "keep"},
		{ServiceProviderId: 2, Note: "drop"},
	})
	assert.NoError(t, s.SoftDelete(CollectionServiceProviders, Where(map[string]any{"Note": "drop"})))

	c := s.Snapshot()
	if assert.Len(t, c.ClientServiceProvider, 1) {
		assert.Equal(t, int64(1), c.ClientServiceProvider[0].ServiceProviderId)
	}
}

func TestKeyIn(t *testing.T) {
	p := KeyIn("ann", "5:7")
	assert.True(t, p(models.ClientClaimController{UserName: "Ann"}))
	assert.True(t, p(models.ClientDocument{DocumentId: 5, ClientDocumentId: 7}))
	assert.False(t, p(models.ClientService{ServiceId: 5}))
}
