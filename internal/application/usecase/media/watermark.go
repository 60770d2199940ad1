package media

import (
	"context"

	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

const (
	watermarkSourceFolder = "uploads"
	watermarkedPrefix     = "watermarked/"
)

type WatermarkUseCase struct {
	client service.MediaClient
	policy Policy
	logger logger.Logger
}

func NewWatermarkUseCase(c service.MediaClient, p Policy, log logger.Logger) *WatermarkUseCase {
	return &WatermarkUseCase{client: c, policy: p, logger: log}
}

type WatermarkInput struct {
	UserID    string
	File      service.UploadedAsset
	Watermark transform.WatermarkParams
}

type AssetRef struct {
	PublicID string `json:"publicId"`
	URL      string `json:"url"`
}

type WatermarkOutput struct {
	Original    AssetRef `json:"original"`
	Watermarked AssetRef `json:"watermarked"`
}

func (uc *WatermarkUseCase) Execute(ctx context.Context, in WatermarkInput) (*WatermarkOutput, error) {
	ctx, span := tracer.Start(ctx, "Watermark")
	defer span.End()

	if err := uc.policy.checkSize(in.File.Size(), transform.ResourceImage); err != nil {
		return nil, err
	}
	// Build before storing so a bad request costs no upload.
	edit, err := transform.BuildWatermark(in.Watermark)
	if err != nil {
		return nil, invalidDescriptor(err)
	}

	original, err := uc.client.Store(ctx, in.File, service.StoreOptions{
		Folder:       watermarkSourceFolder,
		ResourceType: transform.ResourceImage,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	marked, err := uc.client.StoreDerived(ctx, transform.Request{
		AssetID:      original.PublicID,
		ResourceType: transform.ResourceImage,
		Descriptor:   edit,
	}, service.StoreOptions{PublicID: watermarkedPrefix + original.PublicID})
	if err != nil {
		span.RecordError(err)
		uc.discard(original.PublicID)
		return nil, err
	}

	for _, u := range []string{original.SecureURL, marked.SecureURL} {
		if err := uc.policy.checkURL(u); err != nil {
			return nil, err
		}
	}

	uc.logger.Info("Watermark applied",
		zap.String("user_id", in.UserID),
		zap.String("public_id", marked.PublicID),
		zap.String("anchor", string(edit.Anchor)),
	)
	return &WatermarkOutput{
		Original:    AssetRef{PublicID: original.PublicID, URL: original.SecureURL},
		Watermarked: AssetRef{PublicID: marked.PublicID, URL: marked.SecureURL},
	}, nil
}

// discard removes an original whose watermarked copy never materialised.
func (uc *WatermarkUseCase) discard(publicID string) {
	go func() {
		if err := uc.client.Delete(context.Background(), publicID, transform.ResourceImage); err != nil {
			uc.logger.Warn("Failed to delete orphaned original", zap.String("public_id", publicID), zap.Error(err))
		}
	}()
}
