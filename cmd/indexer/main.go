// Package main records upload details on a client document row once its file
// lands in S3.
package main

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/kylejryan/claims-admin/internal/awsutil"
	"github.com/kylejryan/claims-admin/internal/config"
	"github.com/kylejryan/claims-admin/internal/ddb"
	"github.com/kylejryan/claims-admin/internal/logger"
	"github.com/kylejryan/claims-admin/internal/s3io"
)

// marker records the upload on the document row.
type marker interface {
	MarkDocumentUploaded(ctx context.Context, clientID, clientDocumentID int64, s3Key string, size int64, etag, uploadedAt string) error
}

// App holds the handler dependencies.
type App struct {
	log  *logger.Logger
	s3c  s3io.Header
	docs marker
	now  func() time.Time
}

func main() {
	env := config.MustLoad()
	log, err := logger.New(env.LogMode)
	if err != nil {
		panic(err)
	}
	cl, err := awsutil.NewClients(context.Background(), env.Region, env.Endpoint)
	if err != nil {
		log.Fatal("aws config", "error", err)
	}
	app := &App{
		log:  log.With("component", "indexer"),
		s3c:  cl.S3,
		docs: &ddb.Repo{DB: cl.DynamoDB, Table: env.Table},
		now:  time.Now,
	}
	lambda.Start(app.handler)
}

// handler processes every record; a bad record is logged and skipped.
func (a *App) handler(ctx context.Context, ev events.S3Event) (any, error) {
	for _, rec := range ev.Records {
		if err := a.processS3Record(ctx, rec); err != nil {
			a.log.Error("indexer: process error", "key", rec.S3.Object.Key, "error", err)
		}
	}
	return nil, nil
}

func (a *App) processS3Record(ctx context.Context, record events.S3EventRecord) error {
	bucket := record.S3.Bucket.Name
	key, err := url.QueryUnescape(record.S3.Object.Key)
	if err != nil {
		return fmt.Errorf("unescape key %q: %w", record.S3.Object.Key, err)
	}

	clientID, clientDocumentID, filename, ok := s3io.ParseDocumentKey(key)
	if !ok {
		a.log.Debug("indexer: not a document key", "key", key)
		return nil
	}

	meta, err := a.getObjectMetadata(ctx, bucket, key)
	if err != nil {
		return fmt.Errorf("head %s: %w", key, err)
	}
	if want := s3io.ContentTypeFor(filename); meta.ContentType != "" && meta.ContentType != want {
		a.log.Warn("indexer: unexpected content type", "key", key, "content_type", meta.ContentType, "want", want)
	}

	uploadedAt := a.now().UTC().Format(time.RFC3339)
	if err := a.docs.MarkDocumentUploaded(ctx, clientID, clientDocumentID, key, meta.Size, meta.ETag, uploadedAt); err != nil {
		return fmt.Errorf("mark document %d/%d: %w", clientID, clientDocumentID, err)
	}
	a.log.Info("document indexed", "client_id", clientID, "client_document_id", clientDocumentID, "size", meta.Size, "etag", meta.ETag)
	return nil
}

type objectMetadata struct {
	Size        int64
	ETag        string
	ContentType string
}

func (a *App) getObjectMetadata(ctx context.Context, bucket, key string) (objectMetadata, error) {
	ho, err := a.s3c.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	if err != nil {
		return objectMetadata{}, err
	}
	return objectMetadata{
		Size:        aws.ToInt64(ho.ContentLength),
		ETag:        strings.Trim(aws.ToString(ho.ETag), `"`),
		ContentType: strings.ToLower(aws.ToString(ho.ContentType)),
	}, nil
}
