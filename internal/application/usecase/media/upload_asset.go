package media

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

const uploadFolder = "next-cloudinary-uploads"

type UploadAssetUseCase struct {
	client service.MediaClient
	policy Policy
	logger logger.Logger
}

func NewUploadAssetUseCase(c service.MediaClient, p Policy, log logger.Logger) *UploadAssetUseCase {
	return &UploadAssetUseCase{client: c, policy: p, logger: log}
}

type UploadAssetInput struct {
	UserID string
	File   service.UploadedAsset
}

type UploadAssetOutput struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}

func (uc *UploadAssetUseCase) Execute(ctx context.Context, in UploadAssetInput) (*UploadAssetOutput, error) {
	ctx, span := tracer.Start(ctx, "UploadAsset")
	defer span.End()

	if err := uc.policy.checkSize(in.File.Size(), transform.ResourceImage); err != nil {
		return nil, err
	}

	stored, err := uc.client.Store(ctx, in.File, service.StoreOptions{
		Folder:       uploadFolder,
		ResourceType: transform.ResourceImage,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := uc.policy.checkURL(stored.SecureURL); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Info("Image uploaded", zap.String("user_id", in.UserID), zap.String("public_id", stored.PublicID))
	return &UploadAssetOutput{PublicID: stored.PublicID, URL: stored.SecureURL}, nil
}
