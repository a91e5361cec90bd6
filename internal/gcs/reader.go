// Package gcs reads small configuration objects from Google Cloud Storage or
// the local filesystem.
package gcs

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
)

const scheme = "gs://"

// ObjectReader fetches the bytes stored at a URI.
type ObjectReader interface {
	ReadObject(ctx context.Context, uri string) ([]byte, error)
}

// IsURI reports whether s names a GCS object.
func IsURI(s string) bool {
	return strings.HasPrefix(s, scheme)
}

// ParseURI splits gs://bucket/path/to/object into bucket and object path.
func ParseURI(uri string) (bucket, object string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	parts := strings.SplitN(strings.TrimPrefix(uri, scheme), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// Reader reads gs:// URIs with Application Default Credentials and falls back
// to the local filesystem for anything else.
type Reader struct{}

// NewReader returns a Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadObject returns the contents of uri.
func (r *Reader) ReadObject(ctx context.Context, uri string) ([]byte, error) {
	if !IsURI(uri) {
		data, err := os.ReadFile(uri)
		if err != nil {
			return nil, fmt.Errorf("ReadObject: reading file %q: %w", uri, err)
		}
		return data, nil
	}

	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("ReadObject: %w", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("ReadObject: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("ReadObject: reading object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("ReadObject: reading bytes: %w", err)
	}
	return data, nil
}
