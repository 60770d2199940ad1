package service

import (
	"context"

	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
)

type VideoEventPublisher interface {
	PublishVideoEvent(ctx context.Context, e video.Event) error
}
