package services

import (
	"context"

	"loanbridge/internal/adapters/storage"
)

// ObjectStorage defines what the services need from the document store
// adapter. Implemented by storage.Client; faked in tests.
type ObjectStorage interface {
	Upload(ctx context.Context, content []byte, originalName string) (*storage.UploadResult, error)
	Download(ctx context.Context, url, destName string) (string, error)
	Delete(ctx context.Context, storedName string) error
	DeleteByURL(ctx context.Context, url string) error
	Exists(ctx context.Context, storedName string) (bool, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
}
