package media

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

// deriver backs the use cases that only compute a delivery URL for an
// asset that is already stored.
type deriver struct {
	client service.MediaClient
	policy Policy
	logger logger.Logger
}

func (d deriver) derive(ctx context.Context, publicID string, rt transform.ResourceType, desc transform.Descriptor) (string, error) {
	ctx, span := tracer.Start(ctx, "Derive."+string(desc.Kind()))
	defer span.End()

	req := transform.Request{AssetID: publicID, ResourceType: rt, Descriptor: desc}
	if err := req.Validate(); err != nil {
		return "", apperror.NewInvalidInput(err.Error(), err)
	}

	u, err := d.client.DeriveURL(ctx, req)
	if err != nil {
		span.RecordError(err)
		return "", err
	}
	if err := d.policy.checkURL(u); err != nil {
		span.RecordError(err)
		return "", err
	}

	d.logger.Info("Derived URL",
		zap.String("kind", string(desc.Kind())),
		zap.String("public_id", publicID),
	)
	return u, nil
}

// Format conversion

type ConvertFormatUseCase struct{ deriver }

func NewConvertFormatUseCase(c service.MediaClient, p Policy, log logger.Logger) *ConvertFormatUseCase {
	return &ConvertFormatUseCase{deriver{client: c, policy: p, logger: log}}
}

type ConvertFormatInput struct {
	PublicID     string
	ResourceType string
	TargetFormat string
}

type ConvertFormatOutput struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

func (uc *ConvertFormatUseCase) Execute(ctx context.Context, in ConvertFormatInput) (*ConvertFormatOutput, error) {
	if in.PublicID == "" || in.TargetFormat == "" {
		return nil, apperror.NewInvalidInput("Missing parameters", nil)
	}
	rt, err := transform.ParseResourceType(in.ResourceType)
	if err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	edit, err := transform.BuildFormat(transform.FormatParams{TargetFormat: in.TargetFormat, ResourceType: rt})
	if err != nil {
		return nil, invalidDescriptor(err)
	}
	u, err := uc.derive(ctx, in.PublicID, rt, edit)
	if err != nil {
		return nil, err
	}
	return &ConvertFormatOutput{Success: true, URL: u}, nil
}

// Filters

type ApplyFilterUseCase struct {
	deriver
	now func() time.Time
}

func NewApplyFilterUseCase(c service.MediaClient, p Policy, log logger.Logger) *ApplyFilterUseCase {
	return &ApplyFilterUseCase{deriver: deriver{client: c, policy: p, logger: log}, now: time.Now}
}

type ApplyFilterInput struct {
	PublicID string
	Effect   string
}

type ApplyFilterOutput struct {
	URL string `json:"url"`
}

// Execute appends a cache-buster so a browser re-fetches after switching
// back and forth between effects.
func (uc *ApplyFilterUseCase) Execute(ctx context.Context, in ApplyFilterInput) (*ApplyFilterOutput, error) {
	if in.PublicID == "" || in.Effect == "" {
		return nil, apperror.NewInvalidInput("Missing parameters", nil)
	}
	edit, err := transform.BuildFilter(in.Effect)
	if err != nil {
		return nil, invalidDescriptor(err)
	}
	raw, err := uc.derive(ctx, in.PublicID, transform.ResourceImage, edit)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, apperror.NewInternal("failed to parse derived URL", err)
	}
	q := u.Query()
	q.Set("cb", strconv.FormatInt(uc.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	return &ApplyFilterOutput{URL: u.String()}, nil
}

// Video trim

type TrimVideoUseCase struct{ deriver }

func NewTrimVideoUseCase(c service.MediaClient, p Policy, log logger.Logger) *TrimVideoUseCase {
	return &TrimVideoUseCase{deriver{client: c, policy: p, logger: log}}
}

type TrimVideoInput struct {
	PublicID string
	Trim     transform.TrimParams
}

type TrimVideoOutput struct {
	URL string `json:"url"`
}

func (uc *TrimVideoUseCase) Execute(ctx context.Context, in TrimVideoInput) (*TrimVideoOutput, error) {
	if in.PublicID == "" {
		return nil, apperror.NewInvalidInput("Missing parameters", nil)
	}
	edit, err := transform.BuildTrim(in.Trim)
	if err != nil {
		return nil, invalidDescriptor(err)
	}
	u, err := uc.derive(ctx, in.PublicID, transform.ResourceVideo, edit)
	if err != nil {
		return nil, err
	}
	return &TrimVideoOutput{URL: u}, nil
}

// Social presets

type SocialCropUseCase struct{ deriver }

func NewSocialCropUseCase(c service.MediaClient, p Policy, log logger.Logger) *SocialCropUseCase {
	return &SocialCropUseCase{deriver{client: c, policy: p, logger: log}}
}

type SocialCropInput struct {
	PublicID string
	Preset   string
}

type SocialCropOutput struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (uc *SocialCropUseCase) Execute(ctx context.Context, in SocialCropInput) (*SocialCropOutput, error) {
	if in.PublicID == "" || in.Preset == "" {
		return nil, apperror.NewInvalidInput("Missing parameters", nil)
	}
	edit, err := transform.BuildSocialCrop(in.Preset)
	if err != nil {
		return nil, invalidDescriptor(err)
	}
	u, err := uc.derive(ctx, in.PublicID, transform.ResourceImage, edit)
	if err != nil {
		return nil, err
	}
	return &SocialCropOutput{URL: u, Width: edit.Width, Height: edit.Height}, nil
}
