package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"whitelist-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Archiver uploads whitelist snapshots to object storage.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string

	bucketReady bool
}

// Snapshot is an archived whitelist.
type Snapshot struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// NewArchiver creates an archiver writing to bucket under prefix.
func NewArchiver(client storage.Client, bucket, prefix string) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Key returns the object key for a run.
func (a *Archiver) Key(runID string) string {
	if a.prefix == "" {
		return runID + ".json"
	}
	return path.Join(a.prefix, runID+".json")
}

// Upload stores data as the snapshot of runID and returns its key. The
// bucket is created on first use.
func (a *Archiver) Upload(ctx context.Context, runID string, data []byte) (string, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}

	key := a.Key(runID)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  "application/json",
		UserMetadata: map[string]string{"run-id": runID},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return key, nil
}

// List returns archived snapshots, newest first.
func (a *Archiver) List(ctx context.Context) ([]Snapshot, error) {
	prefix := a.prefix
	if prefix != "" {
		prefix += "/"
	}

	var out []Snapshot
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		out = append(out, Snapshot{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out, nil
}

func (a *Archiver) ensureBucket(ctx context.Context) error {
	if a.bucketReady {
		return nil
	}
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
		}
	}
	a.bucketReady = true
	return nil
}
