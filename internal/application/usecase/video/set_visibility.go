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

type SetVisibilityUseCase struct {
	videoRepo video.Repository
	publisher service.VideoEventPublisher
	logger    logger.Logger
}

func NewSetVisibilityUseCase(r video.Repository, p service.VideoEventPublisher, log logger.Logger) *SetVisibilityUseCase {
	return &SetVisibilityUseCase{videoRepo: r, publisher: p, logger: log}
}

type SetVisibilityInput struct {
	UserID     string
	VideoID    uuid.UUID
	Visibility string
}

// Execute is idempotent: setting the current value again succeeds.
func (uc *SetVisibilityUseCase) Execute(ctx context.Context, in SetVisibilityInput) (*video.Video, error) {
	ctx, span := tracer.Start(ctx, "SetVisibility")
	defer span.End()

	if in.UserID == "" {
		return nil, apperror.NewUnauthorized("missing caller", nil)
	}
	vis, err := video.ParseVisibility(in.Visibility)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	v, err := uc.videoRepo.UpdateVisibility(ctx, in.VideoID, in.UserID, vis)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Info("Video visibility set",
		zap.String("video_id", v.ID.String()),
		zap.String("visibility", string(v.Visibility)),
	)
	publishAsync(uc.publisher, uc.logger, video.NewEvent(video.EventTypeVisibilityChanged, v))
	return v, nil
}
