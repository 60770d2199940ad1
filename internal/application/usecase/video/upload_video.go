package video

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

const (
	videoFolder         = "video-uploads"
	videoTransformation = "q_auto"
	videoFormat         = "mp4"
)

var tracer = otel.Tracer("video_usecase")

type UploadVideoUseCase struct {
	videoRepo     video.Repository
	client        service.MediaClient
	publisher     service.VideoEventPublisher
	maxVideoBytes int64
	logger        logger.Logger
}

func NewUploadVideoUseCase(
	r video.Repository,
	c service.MediaClient,
	p service.VideoEventPublisher,
	maxVideoBytes int64,
	log logger.Logger,
) *UploadVideoUseCase {
	return &UploadVideoUseCase{videoRepo: r, client: c, publisher: p, maxVideoBytes: maxVideoBytes, logger: log}
}

type UploadVideoInput struct {
	UserID       string
	Title        string
	Description  string
	OriginalSize int64
	File         service.UploadedAsset
}

func (uc *UploadVideoUseCase) Execute(ctx context.Context, in UploadVideoInput) (*video.Video, error) {
	ctx, span := tracer.Start(ctx, "UploadVideo")
	defer span.End()

	if in.UserID == "" {
		return nil, apperror.NewUnauthorized("missing caller", nil)
	}
	size := in.File.Size()
	if size == 0 {
		return nil, apperror.NewInvalidInput("No file uploaded", nil)
	}
	if uc.maxVideoBytes > 0 && size > uc.maxVideoBytes {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("File too large, the limit is %d MB", uc.maxVideoBytes>>20), nil)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperror.NewInvalidInput(video.ErrTitleRequired.Error(), video.ErrTitleRequired)
	}

	stored, err := uc.client.Store(ctx, in.File, service.StoreOptions{
		Folder:         videoFolder,
		ResourceType:   transform.ResourceVideo,
		Transformation: videoTransformation,
		Format:         videoFormat,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	originalSize := in.OriginalSize
	if originalSize <= 0 {
		originalSize = size
	}

	v, err := video.New(in.UserID, in.Title, optional(in.Description), stored.PublicID, originalSize, stored.Bytes, stored.Duration)
	if err != nil {
		uc.compensate(stored.PublicID)
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}

	if err := uc.videoRepo.Save(ctx, v); err != nil {
		span.RecordError(err)
		uc.compensate(stored.PublicID)
		return nil, apperror.NewInternal("failed to save video", err)
	}

	span.SetAttributes(attribute.String("video_id", v.ID.String()))
	uc.logger.Info("Video uploaded",
		zap.String("video_id", v.ID.String()),
		zap.String("user_id", v.UserID),
		zap.String("public_id", v.PublicID),
		zap.Int("compression_percent", v.CompressionPercent()),
	)
	publishAsync(uc.publisher, uc.logger, video.NewEvent(video.EventTypeCreated, v))
	return v, nil
}

// compensate removes an asset whose record could not be written.
func (uc *UploadVideoUseCase) compensate(publicID string) {
	go func() {
		if err := uc.client.Delete(context.Background(), publicID, transform.ResourceVideo); err != nil {
			uc.logger.Error("Failed to delete orphaned video asset", err, zap.String("public_id", publicID))
		}
	}()
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func publishAsync(p service.VideoEventPublisher, log logger.Logger, e video.Event) {
	if p == nil {
		return
	}
	go func() {
		if err := p.PublishVideoEvent(context.Background(), e); err != nil {
			log.Error("Failed to publish video event", err,
				zap.String("event_type", string(e.EventType)),
				zap.String("video_id", e.VideoID.String()),
			)
		}
	}()
}
