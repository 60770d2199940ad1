package media_storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/asset"
	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/config"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

const destroyNotFound = "not found"

type cloudinaryAdapter struct {
	cld     *cloudinary.Cloudinary
	timeout time.Duration
	logger  logger.Logger
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.MediaClient, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name is not configured")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	timeout := cfg.Cloudinary.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	log.Info("Cloudinary client ready", zap.String("cloud_name", cfg.Cloudinary.CloudName), zap.Duration("timeout", timeout))
	return &cloudinaryAdapter{cld: cld, timeout: timeout, logger: log}, nil
}

func (a *cloudinaryAdapter) Store(ctx context.Context, file service.UploadedAsset, opts service.StoreOptions) (*service.StoredAsset, error) {
	return a.upload(ctx, bytes.NewReader(file.Data), opts)
}

func (a *cloudinaryAdapter) DeriveURL(_ context.Context, req transform.Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", apperror.NewInvalidInput(err.Error(), err)
	}
	return a.buildURL(req.AssetID, req.ResourceType, req.Descriptor.Transformation())
}

// StoreDerived re-uploads the stored original through an incoming
// transformation so the derivative becomes an asset of its own.
func (a *cloudinaryAdapter) StoreDerived(ctx context.Context, req transform.Request, opts service.StoreOptions) (*service.StoredAsset, error) {
	if err := req.Validate(); err != nil {
		return nil, apperror.NewInvalidInput(err.Error(), err)
	}
	source, err := a.buildURL(req.AssetID, req.ResourceType, "")
	if err != nil {
		return nil, err
	}
	opts.ResourceType = req.ResourceType
	opts.Transformation = req.Descriptor.Transformation()
	if f := req.Descriptor.Format(); f != "" {
		opts.Format = f
	}
	return a.upload(ctx, source, opts)
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, publicID string, resourceType transform.ResourceType) error {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	result, err := a.cld.Upload.Destroy(callCtx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: string(resourceType),
	})
	if err != nil {
		return classify(callCtx, "delete", err)
	}
	if result.Error.Message != "" {
		return apperror.NewUpstreamRejected("delete: "+result.Error.Message, nil)
	}
	if result.Result == destroyNotFound {
		a.logger.Warn("Asset already gone", zap.String("public_id", publicID))
	}
	return nil
}

func (a *cloudinaryAdapter) upload(ctx context.Context, file interface{}, opts service.StoreOptions) (*service.StoredAsset, error) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	rt := opts.ResourceType
	if rt == "" {
		rt = transform.ResourceImage
	}

	params := uploader.UploadParams{
		PublicID:       opts.PublicID,
		Folder:         opts.Folder,
		ResourceType:   string(rt),
		Transformation: opts.Transformation,
		Format:         opts.Format,
	}
	result, err := a.cld.Upload.Upload(callCtx, file, params)
	if err != nil {
		return nil, classify(callCtx, "upload", err)
	}
	if result.Error.Message != "" {
		return nil, apperror.NewUpstreamRejected("upload: "+result.Error.Message, nil)
	}
	if !strings.HasPrefix(result.SecureURL, "https://") {
		return nil, apperror.NewUpstreamRejected("upload returned no secure url", nil)
	}

	return &service.StoredAsset{
		PublicID:     result.PublicID,
		SecureURL:    result.SecureURL,
		Format:       result.Format,
		ResourceType: rt,
		Bytes:        int64(result.Bytes),
		Duration:     durationOf(result.Response),
	}, nil
}

func (a *cloudinaryAdapter) buildURL(publicID string, rt transform.ResourceType, transformation string) (string, error) {
	var (
		media *asset.Asset
		err   error
	)
	if rt == transform.ResourceVideo {
		media, err = a.cld.Video(publicID)
	} else {
		media, err = a.cld.Image(publicID)
	}
	if err != nil {
		return "", apperror.NewInternal("failed to create cloudinary asset", err)
	}
	media.Transformation = transformation

	u, err := media.String()
	if err != nil {
		return "", apperror.NewInternal("failed to build delivery URL", err)
	}
	return u, nil
}

// durationOf pulls the video length out of the raw upload response, which
// the typed result does not expose.
func durationOf(raw interface{}) float64 {
	if raw == nil {
		return 0
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return 0
	}
	var body struct {
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return 0
	}
	return body.Duration
}

func classify(callCtx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return apperror.NewUpstreamTimeout(op+" timed out", err)
	case errors.Is(err, context.Canceled) || errors.Is(callCtx.Err(), context.Canceled):
		return apperror.NewUpstreamUnavailable(op+" cancelled by caller", err)
	default:
		return apperror.NewUpstreamUnavailable(op+" failed", err)
	}
}
