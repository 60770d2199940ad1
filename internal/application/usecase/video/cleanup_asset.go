package video

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

// CleanupAssetUseCase runs in the worker and destroys the stored asset of a
// deleted video record.
type CleanupAssetUseCase struct {
	client service.MediaClient
	logger logger.Logger
}

func NewCleanupAssetUseCase(c service.MediaClient, log logger.Logger) *CleanupAssetUseCase {
	return &CleanupAssetUseCase{client: c, logger: log}
}

func (uc *CleanupAssetUseCase) Execute(ctx context.Context, e video.Event) error {
	l := uc.logger.With(zap.String("video_id", e.VideoID.String()), zap.String("event_type", string(e.EventType)))

	if e.EventType != video.EventTypeDeleted {
		return nil
	}
	if e.PublicID == "" {
		l.Warn("Deletion event without public id, skipping")
		return nil
	}

	if err := uc.client.Delete(ctx, e.PublicID, transform.ResourceVideo); err != nil {
		l.Error("Failed to destroy video asset", err, zap.String("public_id", e.PublicID))
		return err
	}
	l.Info("Video asset destroyed", zap.String("public_id", e.PublicID))
	return nil
}
