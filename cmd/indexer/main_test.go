package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/claims-admin/internal/logger"
)

type fakeHead struct {
	keys []string
}

func (f *fakeHead) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.keys = append(f.keys, aws.ToString(in.Key))
	if aws.ToString(in.Key) == "client/9/documents/1/gone.pdf" {
		return nil, errors.New("not found")
	}
	return &s3.HeadObjectOutput{
		ContentLength: aws.Int64(42),
		ETag:          aws.String(`"abc"`),
		ContentType:   aws.String("application/pdf"),
	}, nil
}

type mark struct {
	clientID, docID, size int64
	key, etag, at         string
}

type fakeMarker struct{ marks []mark }

func (f *fakeMarker) MarkDocumentUploaded(_ context.Context, clientID, docID int64, key string, size int64, etag, at string) error {
	f.marks = append(f.marks, mark{clientID, docID, size, key, etag, at})
	return nil
}

func record(key string) events.S3EventRecord {
	var r events.S3EventRecord
	r.S3.Bucket.Name = "docs"
	r.S3.Object.Key = key
	return r
}

func TestHandler(t *testing.T) {
	head := &fakeHead{}
	docs := &fakeMarker{}
	app := &App{
		log:  logger.Nop(),
		s3c:  head,
		docs: docs,
		now:  func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) },
	}

	_, err := app.handler(context.Background(), events.S3Event{Records: []events.S3EventRecord{
		record("client/7/documents/3/id+card.pdf"),
		record("user/1/claim.txt"),
		record("client/9/documents/1/gone.pdf"),
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"client/7/documents/3/id card.pdf", "client/9/documents/1/gone.pdf"}, head.keys)
	require.Len(t, docs.marks, 1)
	assert.Equal(t, mark{
		clientID: 7, docID: 3, size: 42,
		key: "client/7/documents/3/id card.pdf", etag: "abc", at: "2024-05-01T10:00:00Z",
	}, docs.marks[0])
}
