package video

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

type DeleteVideoUseCase struct {
	videoRepo video.Repository
	publisher service.VideoEventPublisher
	logger    logger.Logger
}

func NewDeleteVideoUseCase(r video.Repository, p service.VideoEventPublisher, log logger.Logger) *DeleteVideoUseCase {
	return &DeleteVideoUseCase{videoRepo: r, publisher: p, logger: log}
}

type DeleteVideoInput struct {
	UserID  string
	VideoID uuid.UUID
}

// Execute removes the record only; the stored asset is destroyed by the
// worker when it sees the deletion event.
func (uc *DeleteVideoUseCase) Execute(ctx context.Context, in DeleteVideoInput) error {
	ctx, span := tracer.Start(ctx, "DeleteVideo")
	defer span.End()

	if in.UserID == "" {
		return apperror.NewUnauthorized("missing caller", nil)
	}

	v, err := uc.videoRepo.Delete(ctx, in.VideoID, in.UserID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	uc.logger.Info("Video deleted", zap.String("video_id", v.ID.String()), zap.String("public_id", v.PublicID))
	publishAsync(uc.publisher, uc.logger, video.NewEvent(video.EventTypeDeleted, v))
	return nil
}
