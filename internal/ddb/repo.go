// Package ddb provides a single-table DynamoDB repository for clients, their
// child rows, lookup lists and id counters.
package ddb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/kylejryan/claims-admin/internal/models"
)

// ErrNotFound is returned when a client profile does not exist.
var ErrNotFound = errors.New("not found")

// ErrExists is returned when creating a client whose id is already taken.
var ErrExists = errors.New("already exists")

// API is the subset of the DynamoDB client the repository uses.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Repo wraps a DynamoDB client and table name.
type Repo struct {
	DB    API
	Table string
}

// Child row kinds, used as sort key prefixes under a client partition.
const (
	KindService         = "SERVICE"
	KindRatingQuestion  = "RATING_QUESTION"
	KindDocument        = "DOCUMENT"
	KindClaimCentre     = "CLAIM_CENTRE"
	KindServiceProvider = "SERVICE_PROVIDER"
	KindClaimController = "CLAIM_CONTROLLER"
)

const (
	skProfile  = "PROFILE"
	pkCounter  = "COUNTER"
	counterKey = "client"

	// maxTransactItems is the DynamoDB limit on actions per transaction.
	maxTransactItems = 100
)

// ChildRow is a child row to write during a client save.
type ChildRow struct {
	Kind  string
	ID    int64
	Value any
}

// ChildRef names a child row to delete during a client save.
type ChildRef struct {
	Kind string
	ID   int64
}

// awsStr is a helper to get a pointer to a string literal.
func awsStr(s string) *string { return &s }

// NowISO returns the current time in ISO8601 format.
func NowISO() string { return time.Now().UTC().Format(time.RFC3339) }

// ClientPK returns the partition key of a client.
func ClientPK(clientID int64) string { return fmt.Sprintf("CLIENT#%d", clientID) }

// MakeKeys constructs the partition and sort key of a child row.
func MakeKeys(clientID int64, kind string, childID int64) (pk, sk string) {
	return ClientPK(clientID), fmt.Sprintf("%s#%d", kind, childID)
}

// LookupPK returns the partition key holding one lookup list.
func LookupPK(kind models.LookupKind) string { return "LOOKUP#" + string(kind) }

func key(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// item marshals v and stamps the table keys and entity kind onto it.
func item(v any, pk, sk, kind string) (map[string]types.AttributeValue, error) {
	m, err := attributevalue.MarshalMap(v)
	if err != nil {
		return nil, err
	}
	for k, av := range key(pk, sk) {
		m[k] = av
	}
	m["kind"] = &types.AttributeValueMemberS{Value: kind}
	return m, nil
}

// NextID atomically increments the named counter and returns its new value.
func (r *Repo) NextID(ctx context.Context, name string) (int64, error) {
	out, err := r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.Table,
		Key:                       key(pkCounter, name),
		UpdateExpression:          awsStr("ADD #v :one"),
		ExpressionAttributeNames:  map[string]string{"#v": "value"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":one": &types.AttributeValueMemberN{Value: "1"}},
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("next id %s: %w", name, err)
	}
	n, ok := out.Attributes["value"].(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("next id %s: counter missing from response", name)
	}
	return strconv.ParseInt(n.Value, 10, 64)
}

// NextClientID allocates a client id.
func (r *Repo) NextClientID(ctx context.Context) (int64, error) {
	return r.NextID(ctx, counterKey)
}

// PutClient writes the client profile. With create set, an existing profile
// with the same id fails with ErrExists.
func (r *Repo) PutClient(ctx context.Context, c models.Client, create bool) error {
	it, err := item(c, ClientPK(c.ClientId), skProfile, "CLIENT")
	if err != nil {
		return err
	}
	in := &dynamodb.PutItemInput{TableName: &r.Table, Item: it}
	if create {
		in.ConditionExpression = awsStr("attribute_not_exists(PK) AND attribute_not_exists(SK)")
	}
	_, err = r.DB.PutItem(ctx, in)
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("client %d: %w", c.ClientId, ErrExists)
	}
	return err
}

// PutChild writes one child row of a client.
func (r *Repo) PutChild(ctx context.Context, clientID int64, kind string, childID int64, v any) error {
	pk, sk := MakeKeys(clientID, kind, childID)
	it, err := item(v, pk, sk, kind)
	if err != nil {
		return err
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.Table, Item: it})
	return err
}

// DeleteChild removes one child row of a client.
func (r *Repo) DeleteChild(ctx context.Context, clientID int64, kind string, childID int64) error {
	pk, sk := MakeKeys(clientID, kind, childID)
	_, err := r.DB.DeleteItem(ctx, &dynamodb.DeleteItemInput{TableName: &r.Table, Key: key(pk, sk)})
	return err
}

// SaveClient writes the profile, puts rows and deletes dels. Saves that fit in
// one transaction are atomic; larger ones are written profile first, then
// rows, then deletions, and a failure part way leaves the earlier writes in
// place.
func (r *Repo) SaveClient(ctx context.Context, c models.Client, create bool, rows []ChildRow, dels []ChildRef) error {
	if 1+len(rows)+len(dels) > maxTransactItems {
		return r.saveSequential(ctx, c, create, rows, dels)
	}

	profile, err := item(c, ClientPK(c.ClientId), skProfile, "CLIENT")
	if err != nil {
		return err
	}
	put := &types.Put{TableName: &r.Table, Item: profile}
	if create {
		put.ConditionExpression = awsStr("attribute_not_exists(PK) AND attribute_not_exists(SK)")
	}
	actions := make([]types.TransactWriteItem, 0, 1+len(rows)+len(dels))
	actions = append(actions, types.TransactWriteItem{Put: put})
	for _, row := range rows {
		pk, sk := MakeKeys(c.ClientId, row.Kind, row.ID)
		it, err := item(row.Value, pk, sk, row.Kind)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", sk, err)
		}
		actions = append(actions, types.TransactWriteItem{Put: &types.Put{TableName: &r.Table, Item: it}})
	}
	for _, d := range dels {
		pk, sk := MakeKeys(c.ClientId, d.Kind, d.ID)
		actions = append(actions, types.TransactWriteItem{Delete: &types.Delete{TableName: &r.Table, Key: key(pk, sk)}})
	}

	_, err = r.DB.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: actions})
	var tce *types.TransactionCanceledException
	if errors.As(err, &tce) && len(tce.CancellationReasons) > 0 &&
		aws.ToString(tce.CancellationReasons[0].Code) == "ConditionalCheckFailed" {
		return fmt.Errorf("client %d: %w", c.ClientId, ErrExists)
	}
	if err != nil {
		return fmt.Errorf("transact write: %w", err)
	}
	return nil
}

func (r *Repo) saveSequential(ctx context.Context, c models.Client, create bool, rows []ChildRow, dels []ChildRef) error {
	if err := r.PutClient(ctx, c, create); err != nil {
		return err
	}
	for _, row := range rows {
		if err := r.PutChild(ctx, c.ClientId, row.Kind, row.ID, row.Value); err != nil {
			return fmt.Errorf("put %s %d: %w", strings.ToLower(row.Kind), row.ID, err)
		}
	}
	for _, d := range dels {
		if err := r.DeleteChild(ctx, c.ClientId, d.Kind, d.ID); err != nil {
			return fmt.Errorf("delete %s %d: %w", strings.ToLower(d.Kind), d.ID, err)
		}
	}
	return nil
}

// GetClient loads a client profile with every child row.
func (r *Repo) GetClient(ctx context.Context, clientID int64) (models.Client, error) {
	items, err := r.queryPK(ctx, ClientPK(clientID))
	if err != nil {
		return models.Client{}, err
	}
	c, err := decodeClient(items)
	if err != nil {
		return models.Client{}, fmt.Errorf("client %d: %w", clientID, err)
	}
	return c, nil
}

func decodeClient(items []map[string]types.AttributeValue) (models.Client, error) {
	var c models.Client
	found := false
	for _, it := range items {
		sk, _ := it["SK"].(*types.AttributeValueMemberS)
		if sk == nil {
			continue
		}
		kind, _, _ := strings.Cut(sk.Value, "#")
		var err error
		switch kind {
		case skProfile:
			found = true
			err = attributevalue.UnmarshalMap(it, &c)
		case KindService:
			err = appendRow(it, &c.ClientService)
		case KindRatingQuestion:
			err = appendRow(it, &c.ClientRatingQuestion)
		case KindDocument:
			err = appendRow(it, &c.ClientDocument)
		case KindClaimCentre:
			err = appendRow(it, &c.ClientClaimCentre)
		case KindServiceProvider:
			err = appendRow(it, &c.ClientServiceProvider)
		case KindClaimController:
			err = appendRow(it, &c.ClientClaimController)
		}
		if err != nil {
			return c, fmt.Errorf("decode %s: %w", sk.Value, err)
		}
	}
	if !found {
		return models.Client{}, ErrNotFound
	}
	return c, nil
}

func appendRow[T any](it map[string]types.AttributeValue, dst *[]T) error {
	var v T
	if err := attributevalue.UnmarshalMap(it, &v); err != nil {
		return err
	}
	*dst = append(*dst, v)
	return nil
}

// MarkDocumentUploaded records the stored object's details on a document row.
// The row must already exist.
func (r *Repo) MarkDocumentUploaded(ctx context.Context, clientID, clientDocumentID int64, s3Key string, size int64, etag, uploadedAt string) error {
	pk, sk := MakeKeys(clientID, KindDocument, clientDocumentID)
	_, err := r.DB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           &r.Table,
		Key:                 key(pk, sk),
		ConditionExpression: awsStr("attribute_exists(PK) AND attribute_exists(SK)"),
		UpdateExpression:    awsStr("SET file_key = :k, file_size = :s, etag = :e, uploaded_at = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":k": &types.AttributeValueMemberS{Value: s3Key},
			":s": &types.AttributeValueMemberN{Value: strconv.FormatInt(size, 10)},
			":e": &types.AttributeValueMemberS{Value: etag},
			":u": &types.AttributeValueMemberS{Value: uploadedAt},
		},
	})
	var ccf *types.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return fmt.Errorf("document %d of client %d: %w", clientDocumentID, clientID, ErrNotFound)
	}
	return err
}

// PutLookup writes one record of a lookup list under id.
func (r *Repo) PutLookup(ctx context.Context, kind models.LookupKind, id string, v any) error {
	it, err := item(v, LookupPK(kind), id, string(kind))
	if err != nil {
		return err
	}
	_, err = r.DB.PutItem(ctx, &dynamodb.PutItemInput{TableName: &r.Table, Item: it})
	return err
}

// ListLookup reads every record of a lookup list.
func ListLookup[T any](ctx context.Context, r *Repo, kind models.LookupKind) ([]T, error) {
	items, err := r.queryPK(ctx, LookupPK(kind))
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if err := appendRow(it, &out); err != nil {
			return nil, fmt.Errorf("decode lookup %s: %w", kind, err)
		}
	}
	return out, nil
}

func (r *Repo) queryPK(ctx context.Context, pk string) ([]map[string]types.AttributeValue, error) {
	var items []map[string]types.AttributeValue
	var start map[string]types.AttributeValue
	for {
		out, err := r.DB.Query(ctx, &dynamodb.QueryInput{
			TableName:                 &r.Table,
			KeyConditionExpression:    awsStr("PK = :pk"),
			ExpressionAttributeValues: map[string]types.AttributeValue{":pk": &types.AttributeValueMemberS{Value: pk}},
			ExclusiveStartKey:         start,
		})
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", pk, err)
		}
		items = append(items, out.Items...)
		if len(out.LastEvaluatedKey) == 0 {
			return items, nil
		}
		start = out.LastEvaluatedKey
	}
}
