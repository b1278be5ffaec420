package ddb

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/claims-admin/internal/models"
)

// fakeTable is an in-memory stand-in for one DynamoDB table. It understands
// exactly the expressions the repository sends.
type fakeTable struct {
	mu       sync.Mutex
	items    map[string]map[string]types.AttributeValue
	pageSize int
	queries  int
	txns     int
}

func newFakeTable() *fakeTable {
	return &fakeTable{items: map[string]map[string]types.AttributeValue{}, pageSize: 2}
}

func s(av types.AttributeValue) string {
	if v, ok := av.(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func id(k map[string]types.AttributeValue) string { return s(k["PK"]) + "|" + s(k["SK"]) }

func (f *fakeTable) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := id(in.Item)
	if in.ConditionExpression != nil && strings.Contains(*in.ConditionExpression, "attribute_not_exists") {
		if _, ok := f.items[k]; ok {
			return nil, &types.ConditionalCheckFailedException{Message: awsStr("exists")}
		}
	}
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeTable) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := id(in.Key)
	cur, ok := f.items[k]
	if in.ConditionExpression != nil && strings.Contains(*in.ConditionExpression, "attribute_exists") && !ok {
		return nil, &types.ConditionalCheckFailedException{Message: awsStr("missing")}
	}
	if !ok {
		cur = map[string]types.AttributeValue{"PK": in.Key["PK"], "SK": in.Key["SK"]}
	}
	expr := *in.UpdateExpression
	if strings.HasPrefix(expr, "ADD") {
		n := int64(0)
		if v, ok := cur["value"].(*types.AttributeValueMemberN); ok {
			n, _ = strconv.ParseInt(v.Value, 10, 64)
		}
		cur["value"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(n+1, 10)}
		f.items[k] = cur
		return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{"value": cur["value"]}}, nil
	}
	for _, assign := range strings.Split(strings.TrimPrefix(expr, "SET "), ",") {
		name, ref, _ := strings.Cut(assign, "=")
		cur[strings.TrimSpace(name)] = in.ExpressionAttributeValues[strings.TrimSpace(ref)]
	}
	f.items[k] = cur
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeTable) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeTable) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.txns++
	reasons := make([]types.CancellationReason, len(in.TransactItems))
	failed := false
	for i, a := range in.TransactItems {
		reasons[i].Code = awsStr("None")
		if a.Put != nil && a.Put.ConditionExpression != nil && strings.Contains(*a.Put.ConditionExpression, "attribute_not_exists") {
			if _, ok := f.items[id(a.Put.Item)]; ok {
				reasons[i].Code = awsStr("ConditionalCheckFailed")
				failed = true
			}
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{Message: awsStr("cancelled"), CancellationReasons: reasons}
	}
	for _, a := range in.TransactItems {
		switch {
		case a.Put != nil:
			f.items[id(a.Put.Item)] = a.Put.Item
		case a.Delete != nil:
			delete(f.items, id(a.Delete.Key))
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeTable) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	pk := s(in.ExpressionAttributeValues[":pk"])
	var keys []string
	for k := range f.items {
		if strings.HasPrefix(k, pk+"|") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	startAt := 0
	if in.ExclusiveStartKey != nil {
		after := id(in.ExclusiveStartKey)
		for startAt < len(keys) && keys[startAt] <= after {
			startAt++
		}
	}
	out := &dynamodb.QueryOutput{}
	for i := startAt; i < len(keys) && len(out.Items) < f.pageSize; i++ {
		out.Items = append(out.Items, f.items[keys[i]])
	}
	if end := startAt + len(out.Items); end < len(keys) {
		last := out.Items[len(out.Items)-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{"PK": last["PK"], "SK": last["SK"]}
	}
	return out, nil
}

func TestMakeKeys(t *testing.T) {
	pk, sk := MakeKeys(12, KindDocument, 7)
	assert.Equal(t, "CLIENT#12", pk)
	assert.Equal(t, "DOCUMENT#7", sk)
	assert.Equal(t, "LOOKUP#document-types", LookupPK(models.LookupDocumentTypes))
}

func TestNextID(t *testing.T) {
	r := &Repo{DB: newFakeTable(), Table: "clients"}
	ctx := context.Background()
	a, err := r.NextClientID(ctx)
	require.NoError(t, err)
	b, err := r.NextClientID(ctx)
	require.NoError(t, err)
	c, err := r.NextID(ctx, KindDocument)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 1}, []int64{a, b, c})
}

func TestClientRoundTrip(t *testing.T) {
	db := newFakeTable()
	r := &Repo{DB: db, Table: "clients"}
	ctx := context.Background()

	c := models.Client{
		ClientId:      12,
		ClientName:    "Acme",
		ClientGroupId: 3,
		ClaimsManager: "jdoe",
		IsActive:      true,
		ClientService: []models.ClientService{{ClientServiceId: 1}},
	}
	require.NoError(t, r.PutClient(ctx, c, true))
	assert.ErrorIs(t, r.PutClient(ctx, c, true), ErrExists)
	require.NoError(t, r.PutClient(ctx, c, false))

	require.NoError(t, r.PutChild(ctx, 12, KindService, 1, models.ClientService{ClientServiceId: 1, ClientId: 12, ServiceId: 4}))
	require.NoError(t, r.PutChild(ctx, 12, KindService, 2, models.ClientService{ClientServiceId: 2, ClientId: 12, ServiceId: 5}))
	require.NoError(t, r.PutChild(ctx, 12, KindDocument, 7, models.ClientDocument{ClientDocumentId: 7, DocumentId: 5, FileData: "AAAA", FileKey: "client/12/documents/7/id.pdf"}))
	require.NoError(t, r.PutChild(ctx, 12, KindClaimController, 9, models.ClientClaimController{ClientClaimControllerId: 9, UserName: "ann"}))
	require.NoError(t, r.PutChild(ctx, 13, KindService, 3, models.ClientService{ClientServiceId: 3, ClientId: 13}))

	got, err := r.GetClient(ctx, 12)
	require.NoError(t, err)
	assert.Greater(t, db.queries, 1, "results span several pages")
	assert.Equal(t, "Acme", got.ClientName)
	assert.Equal(t, "jdoe", got.ClaimsManager)
	assert.Len(t, got.ClientService, 2)
	require.Len(t, got.ClientDocument, 1)
	assert.Empty(t, got.ClientDocument[0].FileData, "file bytes never reach the table")
	assert.Equal(t, "client/12/documents/7/id.pdf", got.ClientDocument[0].FileKey)
	assert.Len(t, got.ClientClaimController, 1)

	require.NoError(t, r.DeleteChild(ctx, 12, KindService, 1))
	got, err = r.GetClient(ctx, 12)
	require.NoError(t, err)
	require.Len(t, got.ClientService, 1)
	assert.Equal(t, int64(5), got.ClientService[0].ServiceId)

	_, err = r.GetClient(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkDocumentUploaded(t *testing.T) {
	r := &Repo{DB: newFakeTable(), Table: "clients"}
	ctx := context.Background()
	require.NoError(t, r.PutClient(ctx, models.Client{ClientId: 1}, true))
	require.NoError(t, r.PutChild(ctx, 1, KindDocument, 4, models.ClientDocument{ClientDocumentId: 4, DocumentId: 2}))

	require.NoError(t, r.MarkDocumentUploaded(ctx, 1, 4, "client/1/documents/4/a.pdf", 2048, "abc", "2026-01-01T00:00:00Z"))
	got, err := r.GetClient(ctx, 1)
	require.NoError(t, err)
	d := got.ClientDocument[0]
	assert.Equal(t, int64(2048), d.FileSize)
	assert.Equal(t, "abc", d.ETag)
	assert.Equal(t, "2026-01-01T00:00:00Z", d.UploadedAt)

	err = r.MarkDocumentUploaded(ctx, 1, 5, "k", 1, "e", "u")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookups(t *testing.T) {
	r := &Repo{DB: newFakeTable(), Table: "clients"}
	ctx := context.Background()
	for _, dt := range []models.DocumentType{
		{DocumentId: 1, Description: "ID", IsActive: true},
		{DocumentId: 2, Description: "Old", IsActive: false},
		{DocumentId: 3, Description: "Proof", IsActive: true},
	} {
		require.NoError(t, r.PutLookup(ctx, models.LookupDocumentTypes, strconv.FormatInt(dt.DocumentId, 10), dt))
	}

	got, err := ListLookup[models.DocumentType](ctx, r, models.LookupDocumentTypes)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	none, err := ListLookup[models.User](ctx, r, models.LookupUsers)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaveClient(t *testing.T) {
	db := newFakeTable()
	r := &Repo{DB: db, Table: "clients"}
	ctx := context.Background()

	c := models.Client{ClientId: 3, ClientName: "Acme"}
	require.NoError(t, r.SaveClient(ctx, c, true, []ChildRow{
		{Kind: KindService, ID: 1, Value: models.ClientService{ClientServiceId: 1, ClientId: 3, ServiceId: 4}},
		{Kind: KindService, ID: 2, Value: models.ClientService{ClientServiceId: 2, ClientId: 3, ServiceId: 5}},
	}, nil))
	assert.Equal(t, 1, db.txns)

	err := r.SaveClient(ctx, c, true, []ChildRow{
		{Kind: KindService, ID: 9, Value: models.ClientService{ClientServiceId: 9, ClientId: 3, ServiceId: 6}},
	}, nil)
	assert.ErrorIs(t, err, ErrExists)

	c.ClientName = "Acme Holdings"
	require.NoError(t, r.SaveClient(ctx, c, false, nil, []ChildRef{{Kind: KindService, ID: 1}}))

	got, err := r.GetClient(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", got.ClientName)
	require.Len(t, got.ClientService, 1, "the rejected create wrote nothing")
	assert.Equal(t, int64(5), got.ClientService[0].ServiceId)
}

func TestSaveClient_LargeSaveWritesSequentially(t *testing.T) {
	db := newFakeTable()
	db.pageSize = 50
	r := &Repo{DB: db, Table: "clients"}
	ctx := context.Background()

	rows := make([]ChildRow, 0, maxTransactItems)
	for i := int64(1); i <= maxTransactItems; i++ {
		rows = append(rows, ChildRow{Kind: KindRatingQuestion, ID: i, Value: models.ClientRatingQuestion{ClientRatingQuestionId: i, ClientId: 8, RatingQuestionId: i}})
	}
	require.NoError(t, r.SaveClient(ctx, models.Client{ClientId: 8}, true, rows, nil))
	assert.Zero(t, db.txns)

	got, err := r.GetClient(ctx, 8)
	require.NoError(t, err)
	assert.Len(t, got.ClientRatingQuestion, maxTransactItems)
}
