package service

import (
	"context"

	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
)

// UploadedAsset is a file already read and sniffed by the HTTP layer.
type UploadedAsset struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (a UploadedAsset) Size() int64 { return int64(len(a.Data)) }

type StoreOptions struct {
	Folder         string
	PublicID       string
	ResourceType   transform.ResourceType
	Transformation string
	Format         string
}

type StoredAsset struct {
	PublicID     string
	SecureURL    string
	Format       string
	ResourceType transform.ResourceType
	Bytes        int64
	Duration     float64
}

// MediaClient is the only way the application talks to the media host.
// Errors are apperror values: upstream timeouts, unavailability and
// rejections are kept apart so callers can report them.
type MediaClient interface {
	Store(ctx context.Context, asset UploadedAsset, opts StoreOptions) (*StoredAsset, error)
	// DeriveURL signs nothing and stores nothing; the host renders the
	// derivative lazily on first fetch.
	DeriveURL(ctx context.Context, req transform.Request) (string, error)
	// StoreDerived persists the rendered derivative under opts.
	StoreDerived(ctx context.Context, req transform.Request, opts StoreOptions) (*StoredAsset, error)
	// Delete is idempotent: deleting an unknown asset succeeds.
	Delete(ctx context.Context, publicID string, resourceType transform.ResourceType) error
}
