package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
)

type MediaClient struct {
	mock.Mock
}

var _ service.MediaClient = (*MediaClient)(nil)

func (m *MediaClient) Store(ctx context.Context, asset service.UploadedAsset, opts service.StoreOptions) (*service.StoredAsset, error) {
	args := m.Called(ctx, asset, opts)
	if v := args.Get(0); v != nil {
		return v.(*service.StoredAsset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MediaClient) DeriveURL(ctx context.Context, req transform.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MediaClient) StoreDerived(ctx context.Context, req transform.Request, opts service.StoreOptions) (*service.StoredAsset, error) {
	args := m.Called(ctx, req, opts)
	if v := args.Get(0); v != nil {
		return v.(*service.StoredAsset), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MediaClient) Delete(ctx context.Context, publicID string, resourceType transform.ResourceType) error {
	args := m.Called(ctx, publicID, resourceType)
	return args.Error(0)
}
