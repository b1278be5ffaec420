package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/claims-admin/internal/session"
)

const script = `
steps:
  - op: load
    client:
      ClientId: 7
      ClientName: Acme
      ClientService:
        - {ClientServiceId: 11, ClientId: 7, ServiceId: 4}
  - op: patch
    slice: claimInfo
    fields: {ClaimsManager: ann}
  - op: add
    collection: services
    item: {ServiceId: 5, Note: towing}
  - op: soft-delete
    collection: services
    where: {ServiceId: 4}
  - op: add
    collection: documents
    item: {DocumentId: 2, FileName: id.pdf, TempKey: a}
  - op: upsert-document
    item: {DocumentId: 2, FileName: id-v2.pdf, TempKey: a}
  - op: tab
    tab: documents
`

func TestRun(t *testing.T) {
	s, err := Parse([]byte(script))
	require.NoError(t, err)
	require.Len(t, s.Steps, 7)

	st := session.NewStore()
	require.NoError(t, Run(st, s))

	snap := st.Snapshot()
	assert.Equal(t, "Acme", snap.ClientName)
	assert.Equal(t, "ann", snap.ClaimsManager)
	require.Len(t, snap.ClientService, 1)
	assert.Equal(t, int64(5), snap.ClientService[0].ServiceId)
	require.Len(t, snap.ClientDocument, 1)
	assert.Equal(t, "id-v2.pdf", snap.ClientDocument[0].FileName)
	assert.Equal(t, []int64{11}, st.PendingDeletions().Services)
	assert.Equal(t, session.TabDocuments, st.View().SelectedTab)
}

func TestRun_Errors(t *testing.T) {
	cases := map[string]string{
		"unknown op":         `steps: [{op: explode}]`,
		"unknown slice":      `steps: [{op: patch, slice: branches, fields: {a: 1}}]`,
		"unknown collection": `steps: [{op: set, collection: branches}]`,
		"unknown tab":        `steps: [{op: tab, tab: branches}]`,
		"missing item":       `steps: [{op: add, collection: services}]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := Parse([]byte(src))
			require.NoError(t, err)
			err = Run(session.NewStore(), s)
			assert.ErrorContains(t, err, "step 1")
		})
	}
}

func TestRun_SetEmptiesCollection(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - {op: add, collection: claimCentres, item: {ClaimCentreId: 8}}
  - {op: set, collection: claimCentres}
`))
	require.NoError(t, err)
	st := session.NewStore()
	require.NoError(t, Run(st, s))
	assert.Empty(t, st.Snapshot().ClientClaimCentre)
}
