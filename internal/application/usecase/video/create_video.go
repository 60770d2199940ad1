package video

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

// CreateVideoUseCase records a video the client already uploaded directly.
type CreateVideoUseCase struct {
	videoRepo video.Repository
	publisher service.VideoEventPublisher
	logger    logger.Logger
}

func NewCreateVideoUseCase(r video.Repository, p service.VideoEventPublisher, log logger.Logger) *CreateVideoUseCase {
	return &CreateVideoUseCase{videoRepo: r, publisher: p, logger: log}
}

type CreateVideoInput struct {
	UserID         string
	Title          string
	Description    string
	PublicID       string
	OriginalSize   int64
	CompressedSize int64
	Duration       float64
}

func (uc *CreateVideoUseCase) Execute(ctx context.Context, in CreateVideoInput) (*video.Video, error) {
	ctx, span := tracer.Start(ctx, "CreateVideo")
	defer span.End()

	if in.UserID == "" {
		return nil, apperror.NewUnauthorized("missing caller", nil)
	}
	if in.OriginalSize < 0 || in.CompressedSize < 0 || in.Duration < 0 {
		return nil, apperror.NewInvalidInput("sizes and duration must not be negative", nil)
	}

	v, err := video.New(in.UserID, in.Title, optional(in.Description), in.PublicID, in.OriginalSize, in.CompressedSize, in.Duration)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	if err := uc.videoRepo.Save(ctx, v); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to save video", err)
	}

	uc.logger.Info("Video recorded", zap.String("video_id", v.ID.String()), zap.String("user_id", v.UserID))
	publishAsync(uc.publisher, uc.logger, video.NewEvent(video.EventTypeCreated, v))
	return v, nil
}
