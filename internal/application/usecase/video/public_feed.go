package video

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

const feedSize = 20

type PublicFeedUseCase struct {
	videoRepo video.Repository
	client    service.MediaClient
	baseURL   string
	logger    logger.Logger
}

func NewPublicFeedUseCase(r video.Repository, c service.MediaClient, baseURL string, log logger.Logger) *PublicFeedUseCase {
	return &PublicFeedUseCase{videoRepo: r, client: c, baseURL: strings.TrimRight(baseURL, "/"), logger: log}
}

func (uc *PublicFeedUseCase) Execute(ctx context.Context) (*feeds.Feed, error) {
	videos, err := uc.videoRepo.ListVisibleTo(ctx, "", feedSize, 0)
	if err != nil {
		uc.logger.Error("Failed to list public videos for RSS", err)
		return nil, apperror.NewInternal("failed to list public videos", err)
	}

	feed := &feeds.Feed{
		Title:       "Cloudinary Studio - Public videos",
		Link:        &feeds.Link{Href: uc.baseURL + "/api/videos"},
		Description: "Latest videos shared publicly.",
		Created:     time.Now(),
	}

	for _, v := range videos {
		item := &feeds.Item{
			Id:      v.ID.String(),
			Title:   v.Title,
			Link:    &feeds.Link{Href: fmt.Sprintf("%s/api/videos?highlight=%s", uc.baseURL, v.ID)},
			Created: v.CreatedAt,
			Updated: v.UpdatedAt,
		}
		var desc string
		if v.Description != nil {
			desc = html.EscapeString(*v.Description)
		}
		thumb, err := uc.client.DeriveURL(ctx, transform.Request{
			AssetID:      v.PublicID,
			ResourceType: transform.ResourceVideo,
			Descriptor:   transform.BuildThumbnail(),
		})
		if err == nil {
			desc = fmt.Sprintf(`<img src="%s" alt=""/> %s`, html.EscapeString(thumb), desc)
		}
		item.Description = strings.TrimSpace(desc)
		feed.Items = append(feed.Items, item)
	}

	uc.logger.Info("RSS feed generated", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
