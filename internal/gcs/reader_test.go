package gcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{uri: "gs://rates/config/currencies.json", wantBucket: "rates", wantObject: "config/currencies.json"},
		{uri: "gs://rates/a.json", wantBucket: "rates", wantObject: "a.json"},
		{uri: "gs://rates", wantErr: true},
		{uri: "gs://rates/", wantErr: true},
		{uri: "s3://rates/a.json", wantErr: true},
		{uri: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantObject, object)
		})
	}
}

func TestReader_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"USD":{}}`), 0o600))

	data, err := NewReader().ReadObject(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, `{"USD":{}}`, string(data))
}

func TestReader_MissingLocalFile(t *testing.T) {
	_, err := NewReader().ReadObject(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReader_WriteObjectLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "rates.json")
	r := NewReader()

	require.NoError(t, r.WriteObject(context.Background(), path, []byte(`{"USD":{"rate":1}}`)))

	data, err := r.ReadObject(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, `{"USD":{"rate":1}}`, string(data))
}

func TestReader_WriteObjectBadURI(t *testing.T) {
	err := NewReader().WriteObject(context.Background(), "gs://bucket-only", []byte("x"))
	assert.Error(t, err)
}
