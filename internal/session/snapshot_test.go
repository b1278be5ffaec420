package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/claims-admin/internal/models"
)

func TestSnapshot_ResetYieldsDefaults(t *testing.T) {
	s := NewStore()
	s.PatchCompanyInfo(Fields{"ClientName": "Acme", "IsActive": false})
	s.SetServices([]models.ClientService{{ServiceId: 1}})
	s.Reset()

	c := s.Snapshot()
	assert.Equal(t, int64(0), c.ClientId)
	assert.Equal(t, "", c.ClientName)
	assert.Equal(t, "", c.PrintName)
	assert.Equal(t, int64(0), c.ClientGroupId)
	require.NotNil(t, c.ClientGroup)
	assert.Equal(t, models.ClientGroup{ClientGroupId: 0, Name: "", IsActive: true}, *c.ClientGroup)
	assert.True(t, c.IsActive)
	assert.Empty(t, c.ClientService)
	assert.Empty(t, c.ClientDocument)
}

func TestSnapshot_NullFallsBackToDefault(t *testing.T) {
	s := NewStore()
	s.PatchCompanyInfo(Fields{"ClientName": nil, "IsActive": nil, "Tel": "011"})
	c := s.Snapshot()
	assert.Equal(t, "", c.ClientName)
	assert.True(t, c.IsActive)
	assert.Equal(t, "011", c.Tel)
}

func TestSnapshot_ExplicitFalseKept(t *testing.T) {
	s := NewStore()
	s.PatchCompanyInfo(Fields{"IsActive": false})
	assert.False(t, s.Snapshot().IsActive)
}

func TestSnapshot_ExcludesDeletedEntries(t *testing.T) {
	s := NewStore()
	s.SetServices([]models.ClientService{{ServiceId: 1}, {ServiceId: 2, IsDeleted: true}})
	s.SetRatingQuestions([]models.ClientRatingQuestion{{RatingQuestionId: 3, IsDeleted: true}})
	s.SetDocuments([]models.ClientDocument{{DocumentId: 4}, {DocumentId: 5, IsDeleted: true}})
	s.SetClaimControllers([]models.ClientClaimController{{UserName: "Ann"}, {UserName: "bob", IsDeleted: true}})

	c := s.Snapshot()
	require.Len(t, c.ClientService, 1)
	assert.Empty(t, c.ClientRatingQuestion)
	require.Len(t, c.ClientDocument, 1)
	assert.Equal(t, int64(4), c.ClientDocument[0].DocumentId)
	require.Len(t, c.ClientClaimController, 1)
	assert.Equal(t, "Ann", c.ClientClaimController[0].UserName)

	// live view still carries them
	v := s.View()
	assert.Len(t, v.Services, 2)
	assert.Len(t, v.Documents, 2)
}

func TestSnapshot_DedupesEveryCollection(t *testing.T) {
	s := NewStore()
	s.SetClaimCentres([]models.ClientClaimCentre{{ClaimCentreId: 1}, {ClaimCentreId: 1, ClientClaimCentreId: 9}})
	s.SetClaimControllers([]models.ClientClaimController{{UserName: "ann"}, {UserName: "ANN", ClientClaimControllerId: 4}})

	c := s.Snapshot()
	require.Len(t, c.ClientClaimCentre, 1)
	assert.Equal(t, int64(9), c.ClientClaimCentre[0].ClientClaimCentreId)
	require.Len(t, c.ClientClaimController, 1)
	assert.Equal(t, int64(4), c.ClientClaimController[0].ClientClaimControllerId)
}

func TestSnapshot_KeepsUnsavedDocumentsOfOneType(t *testing.T) {
	s := NewStore()
	s.AddDocument(models.ClientDocument{DocumentId: 5, TempKey: "a", Note: "front"})
	s.AddDocument(models.ClientDocument{DocumentId: 5, TempKey: "b", Note: "back"})

	docs := s.Snapshot().ClientDocument
	require.Len(t, docs, 2)
	notes := []string{docs[0].Note, docs[1].Note}
	assert.ElementsMatch(t, []string{"front", "back"}, notes)
	for _, d := range docs {
		assert.Empty(t, d.TempKey)
		assert.Zero(t, d.ClientDocumentId)
	}
}

func TestSnapshot_FileDataIsPureBase64(t *testing.T) {
	s := NewStore()
	s.SetDocuments([]models.ClientDocument{
		{DocumentId: 1, FileData: "data:image/png;base64,iVBORw0KGgo="},
		{DocumentId: 2, FileData: "iVBORw0KGgo="},
	})
	docs := s.Snapshot().ClientDocument
	require.Len(t, docs, 2)
	assert.Equal(t, "iVBORw0KGgo=", docs[0].FileData)
	assert.Equal(t, "iVBORw0KGgo=", docs[1].FileData)
}

func TestSnapshot_IsIndependentOfLaterEdits(t *testing.T) {
	s := NewStore()
	s.SetServices([]models.ClientService{{ServiceId: 1, Note: "a"}})
	c := s.Snapshot()
	c.ClientService[0].Note = "mutated"
	s.PatchCompanyInfo(Fields{"ClientName": "later"})

	assert.Equal(t, "a", s.Snapshot().ClientService[0].Note)
	assert.Equal(t, "", c.ClientName)
}

func TestView_JSONShape(t *testing.T) {
	s := NewStore()
	s.SelectTab(TabClaimController)
	b, err := json.Marshal(s.View())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "claimController", m["selectedTab"])
	for _, k := range []string{"details", "services", "ratingQs", "documents", "claimCentre", "serviceProv", "claimController"} {
		assert.Contains(t, m, k)
	}
}

func TestNewFields(t *testing.T) {
	f, err := NewFields([]byte(`{"ClientName":"Acme","ClientService":[{"ServiceId":1}],"Unknown":1}`))
	require.NoError(t, err)
	assert.Equal(t, "Acme", f["ClientName"])
	assert.NotContains(t, f, "ClientService")

	_, err = NewFields([]byte(`{"ClientName":5}`))
	assert.Error(t, err)

	_, err = NewFields([]byte(`[1,2]`))
	assert.Error(t, err)
}

func TestParseTab(t *testing.T) {
	tab, err := ParseTab(" Documents ")
	require.NoError(t, err)
	assert.Equal(t, TabDocuments, tab)

	_, err = ParseTab("billing")
	assert.ErrorIs(t, err, ErrUnknownTab)
	assert.Equal(t, "Tab(42)", Tab(42).String())
}
