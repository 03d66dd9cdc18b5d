package helpers

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// PutJSON writes v as a JSON object at bucket/objectPath and returns its
// gs:// address. Existing objects at the same path are replaced.
func PutJSON(ctx context.Context, client *storage.Client, bucket, objectPath string, v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", objectPath, err)
	}
	wc := client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	wc.ContentType = "application/json"
	wc.CacheControl = "no-store"
	wc.ChunkSize = 0
	if _, err := wc.Write(b); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", bucket, objectPath), nil
}
