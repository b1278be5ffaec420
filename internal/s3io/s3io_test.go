package s3io

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentKeyRoundTrip(t *testing.T) {
	key := BuildDocumentKey(12, 7, "ID copy.pdf")
	assert.Equal(t, "client/12/documents/7/ID copy.pdf", key)

	c, d, f, ok := ParseDocumentKey(key)
	require.True(t, ok)
	assert.Equal(t, int64(12), c)
	assert.Equal(t, int64(7), d)
	assert.Equal(t, "ID copy.pdf", f)
}

func TestParseDocumentKey_Rejects(t *testing.T) {
	for _, k := range []string{
		"",
		"user/1/abc.txt",
		"client/x/documents/7/a.pdf",
		"client/12/documents/0/a.pdf",
		"client/12/files/7/a.pdf",
		"client/12/documents/7/",
		"client/12/documents/7/a/b.pdf",
	} {
		_, _, _, ok := ParseDocumentKey(k)
		assert.False(t, ok, k)
	}
}

func TestCleanFilename(t *testing.T) {
	cases := map[string]string{
		"report.pdf":           "report.pdf",
		"../../etc/passwd":     "passwd",
		`C:\Users\me\scan.png`: "scan.png",
		"what?#%.txt":          "what___.txt",
		"  ":                   "document.bin",
		"":                     "document.bin",
	}
	for in, want := range cases {
		assert.Equal(t, want, CleanFilename(in), in)
	}
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "application/pdf", ContentTypeFor("a.PDF"))
	assert.Equal(t, ContentTypeDefault, ContentTypeFor("noext"))
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	err     error
	presign *s3.GetObjectInput
	expires time.Duration
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.put = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{ETag: aws.String(`"etag-1"`)}, nil
}

func (f *fakeS3) PresignGetObject(_ context.Context, in *s3.GetObjectInput, opts ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var o s3.PresignOptions
	for _, fn := range opts {
		fn(&o)
	}
	f.presign, f.expires = in, o.Expires
	return &v4.PresignedHTTPRequest{URL: "https://bucket.s3/" + aws.ToString(in.Key) + "?sig"}, nil
}

func TestPut(t *testing.T) {
	f := &fakeS3{}
	etag, err := Put(context.Background(), f, "docs", "client/1/documents/2/a.pdf", "", DocumentMetadata(1, 2, 3), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, `"etag-1"`, etag)
	assert.Equal(t, "docs", aws.ToString(f.put.Bucket))
	assert.Equal(t, ContentTypeDefault, aws.ToString(f.put.ContentType))
	assert.Equal(t, types.ServerSideEncryptionAwsKms, f.put.ServerSideEncryption)
	assert.Equal(t, "2", f.put.Metadata["client_document_id"])
	assert.Equal(t, []byte("%PDF"), f.body)

	f.err = errors.New("access denied")
	_, err = Put(context.Background(), f, "docs", "k", "text/plain", nil, nil)
	assert.Error(t, err)
}

func TestPresignGet(t *testing.T) {
	f := &fakeS3{}
	url, ttl, err := PresignGet(context.Background(), f, "docs", "client/1/documents/2/a.pdf", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "client/1/documents/2/a.pdf")
	assert.Equal(t, 5*time.Minute, ttl)
	assert.Equal(t, 5*time.Minute, f.expires)
	assert.Equal(t, "docs", aws.ToString(f.presign.Bucket))
}
