// Package storage provides the object storage client used to archive
// whitelist snapshots.
//
// It wraps the MinIO Go client behind a small Client interface so the
// archiver can be tested with the mocks in core/storage/mocks. Both AWS S3
// and self-hosted MinIO endpoints work.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
