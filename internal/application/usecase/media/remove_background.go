package media

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

const (
	bgRemovalFolder          = "bg-removal"
	bgRemovalOriginalsFolder = "bg-removal/originals"
)

type RemoveBackgroundUseCase struct {
	client service.MediaClient
	policy Policy
	logger logger.Logger
}

func NewRemoveBackgroundUseCase(c service.MediaClient, p Policy, log logger.Logger) *RemoveBackgroundUseCase {
	return &RemoveBackgroundUseCase{client: c, policy: p, logger: log}
}

type RemoveBackgroundInput struct {
	UserID     string
	File       service.UploadedAsset
	Background transform.BackgroundParams
}

type RemoveBackgroundOutput struct {
	SecureURL string `json:"secure_url"`
}

func (uc *RemoveBackgroundUseCase) Execute(ctx context.Context, in RemoveBackgroundInput) (*RemoveBackgroundOutput, error) {
	ctx, span := tracer.Start(ctx, "RemoveBackground")
	defer span.End()

	if err := uc.policy.checkSize(in.File.Size(), transform.ResourceImage); err != nil {
		return nil, err
	}
	edit, err := transform.BuildBackground(in.Background)
	if err != nil {
		return nil, invalidDescriptor(err)
	}

	original, err := uc.client.Store(ctx, in.File, service.StoreOptions{
		Folder:       bgRemovalOriginalsFolder,
		ResourceType: transform.ResourceImage,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	// The intermediate upload is only a source for the derivative.
	defer uc.discard(original.PublicID)

	derived, err := uc.client.StoreDerived(ctx, transform.Request{
		AssetID:      original.PublicID,
		ResourceType: transform.ResourceImage,
		Descriptor:   edit,
	}, service.StoreOptions{Folder: bgRemovalFolder})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := uc.policy.checkURL(derived.SecureURL); err != nil {
		return nil, err
	}

	uc.logger.Info("Background replaced",
		zap.String("user_id", in.UserID),
		zap.String("public_id", derived.PublicID),
		zap.String("mode", string(edit.Mode)),
	)
	return &RemoveBackgroundOutput{SecureURL: derived.SecureURL}, nil
}

func (uc *RemoveBackgroundUseCase) discard(publicID string) {
	go func() {
		if err := uc.client.Delete(context.Background(), publicID, transform.ResourceImage); err != nil {
			uc.logger.Warn("Failed to delete intermediate upload", zap.String("public_id", publicID), zap.Error(err))
		}
	}()
}
