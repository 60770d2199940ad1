package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
)

type VideoRepository struct {
	mock.Mock
}

var _ video.Repository = (*VideoRepository)(nil)

func (m *VideoRepository) Save(ctx context.Context, v *video.Video) error {
	return m.Called(ctx, v).Error(0)
}

func (m *VideoRepository) ListVisibleTo(ctx context.Context, viewerID string, limit, offset int) ([]*video.Video, error) {
	args := m.Called(ctx, viewerID, limit, offset)
	if v := args.Get(0); v != nil {
		return v.([]*video.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VideoRepository) UpdateVisibility(ctx context.Context, id uuid.UUID, ownerID string, visibility video.Visibility) (*video.Video, error) {
	args := m.Called(ctx, id, ownerID, visibility)
	if v := args.Get(0); v != nil {
		return v.(*video.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VideoRepository) Delete(ctx context.Context, id uuid.UUID, ownerID string) (*video.Video, error) {
	args := m.Called(ctx, id, ownerID)
	if v := args.Get(0); v != nil {
		return v.(*video.Video), args.Error(1)
	}
	return nil, args.Error(1)
}
