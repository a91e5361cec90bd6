package gcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
)

// uploadTimeout bounds a single object upload.
const uploadTimeout = 2 * time.Minute

// ObjectWriter stores bytes at a URI.
type ObjectWriter interface {
	WriteObject(ctx context.Context, uri string, data []byte) error
}

// WriteObject stores data at uri, creating parent directories for local paths.
// gs:// uploads use Application Default Credentials.
func (r *Reader) WriteObject(ctx context.Context, uri string, data []byte) error {
	if !IsURI(uri) {
		if dir := filepath.Dir(uri); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("WriteObject: creating directory %q: %w", dir, err)
			}
		}
		if err := os.WriteFile(uri, data, 0o644); err != nil {
			return fmt.Errorf("WriteObject: writing file %q: %w", uri, err)
		}
		return nil
	}

	bucket, object, err := ParseURI(uri)
	if err != nil {
		return fmt.Errorf("WriteObject: %w", err)
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("WriteObject: creating storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("WriteObject: uploading %s/%s: %w", bucket, object, err)
	}
	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return fmt.Errorf("WriteObject: finalizing %s/%s: %w", bucket, object, err)
	}
	return nil
}

var (
	_ ObjectReader = (*Reader)(nil)
	_ ObjectWriter = (*Reader)(nil)
)
