package video

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPage         = 10000
)

type ListVideosUseCase struct {
	videoRepo video.Repository
	client    service.MediaClient
	logger    logger.Logger
}

func NewListVideosUseCase(r video.Repository, c service.MediaClient, log logger.Logger) *ListVideosUseCase {
	return &ListVideosUseCase{videoRepo: r, client: c, logger: log}
}

type ListVideosInput struct {
	// ViewerID is empty for anonymous callers.
	ViewerID string
	Page     int
	Limit    int
}

// VideoView is a record plus the delivery URLs a video card needs.
type VideoView struct {
	*video.Video
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	PreviewURL   string `json:"previewUrl,omitempty"`
	VideoURL     string `json:"videoUrl,omitempty"`
}

func (uc *ListVideosUseCase) Execute(ctx context.Context, in ListVideosInput) ([]VideoView, error) {
	ctx, span := tracer.Start(ctx, "ListVideos")
	defer span.End()

	if in.Limit <= 0 {
		in.Limit = defaultPageSize
	}
	if in.Limit > maxPageSize {
		in.Limit = maxPageSize
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Page > maxPage {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("page must be between 1 and %d", maxPage), nil)
	}
	offset := (in.Page - 1) * in.Limit

	videos, err := uc.videoRepo.ListVisibleTo(ctx, in.ViewerID, in.Limit, offset)
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to list videos", err)
	}

	views := make([]VideoView, 0, len(videos))
	for _, v := range videos {
		views = append(views, uc.decorate(ctx, v))
	}
	return views, nil
}

func (uc *ListVideosUseCase) decorate(ctx context.Context, v *video.Video) VideoView {
	view := VideoView{Video: v}
	renditions := []struct {
		dst  *string
		desc transform.Descriptor
	}{
		{&view.ThumbnailURL, transform.BuildThumbnail()},
		{&view.PreviewURL, transform.BuildPreview()},
		{&view.VideoURL, transform.FormatEdit{TargetFormat: videoFormat, Resource: transform.ResourceVideo}},
	}
	for _, r := range renditions {
		u, err := uc.client.DeriveURL(ctx, transform.Request{
			AssetID:      v.PublicID,
			ResourceType: transform.ResourceVideo,
			Descriptor:   r.desc,
		})
		if err != nil {
			uc.logger.Warn("Failed to derive video card URL",
				zap.String("video_id", v.ID.String()),
				zap.String("kind", string(r.desc.Kind())),
				zap.Error(err),
			)
			continue
		}
		*r.dst = u
	}
	return view
}
