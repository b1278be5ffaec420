package s3io

import (
	"fmt"
	"mime"
	"path"
	"strconv"
	"strings"
)

// Common S3 key patterns and helper functions.
const (
	ContentTypeDefault = "application/octet-stream"
	documentsSegment   = "documents"
)

// BuildDocumentKey constructs the S3 key of a client document's file.
func BuildDocumentKey(clientID, clientDocumentID int64, filename string) string {
	return fmt.Sprintf("client/%d/%s/%d/%s", clientID, documentsSegment, clientDocumentID, CleanFilename(filename))
}

// ParseDocumentKey extracts the client and document ids from an S3 key.
func ParseDocumentKey(key string) (clientID, clientDocumentID int64, filename string, ok bool) {
	parts := strings.Split(key, "/")
	if len(parts) != 5 || parts[0] != "client" || parts[2] != documentsSegment || parts[4] == "" {
		return 0, 0, "", false
	}
	clientID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || clientID <= 0 {
		return 0, 0, "", false
	}
	clientDocumentID, err = strconv.ParseInt(parts[3], 10, 64)
	if err != nil || clientDocumentID <= 0 {
		return 0, 0, "", false
	}
	return clientID, clientDocumentID, parts[4], true
}

// CleanFilename keeps the base name and replaces characters that would split
// or escape the key.
func CleanFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == '/', r == '?', r == '#', r == '%':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "document.bin"
	}
	return name
}

// ContentTypeFor guesses a content type from the file extension.
func ContentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(filename))); ct != "" {
		return ct
	}
	return ContentTypeDefault
}

// DocumentMetadata builds the user metadata stored with a document object.
func DocumentMetadata(clientID, clientDocumentID, documentID int64) map[string]string {
	return map[string]string{
		"client_id":          strconv.FormatInt(clientID, 10),
		"client_document_id": strconv.FormatInt(clientDocumentID, 10),
		"document_id":        strconv.FormatInt(documentID, 10),
	}
}
