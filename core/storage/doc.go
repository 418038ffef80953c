// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface used to read
// option catalog exports. Both AWS S3 and self-hosted MinIO are supported.
//
// The Client interface can be mocked for unit tests (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	reader, err := client.GetObject(ctx, cfg.Storage.Bucket, cfg.Storage.CatalogObject, minio.GetObjectOptions{})
package storage
