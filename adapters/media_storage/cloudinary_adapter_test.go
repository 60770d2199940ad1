package media_storage

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cloudinary-studio/internal/config"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

func newTestAdapter(t *testing.T) *cloudinaryAdapter {
	t.Helper()
	var cfg config.Config
	cfg.Cloudinary.CloudName = "demo"
	cfg.Cloudinary.ApiKey = "key"
	cfg.Cloudinary.ApiSecret = "secret"

	client, err := NewCloudinaryAdapter(cfg, logger.NewNop())
	require.NoError(t, err)
	return client.(*cloudinaryAdapter)
}

func TestNewCloudinaryAdapter_RequiresCloudName(t *testing.T) {
	_, err := NewCloudinaryAdapter(config.Config{}, logger.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cloud_name is not configured")
}

func TestDeriveURL(t *testing.T) {
	a := newTestAdapter(t)
	assert.Equal(t, 60*time.Second, a.timeout)

	t.Run("image format conversion", func(t *testing.T) {
		edit, err := transform.BuildFormat(transform.FormatParams{TargetFormat: "heic"})
		require.NoError(t, err)

		u, err := a.DeriveURL(context.Background(), transform.Request{
			AssetID: "uploads/cat", ResourceType: transform.ResourceImage, Descriptor: edit,
		})
		require.NoError(t, err)
		assert.Contains(t, u, "https://res.cloudinary.com/demo/image/upload/")
		assert.Contains(t, u, "f_heic")
		assert.Contains(t, u, "uploads/cat")
	})

	t.Run("video trim", func(t *testing.T) {
		edit, err := transform.BuildTrim(transform.TrimParams{Start: 2, End: 6, Aspect: "16:9"})
		require.NoError(t, err)

		u, err := a.DeriveURL(context.Background(), transform.Request{
			AssetID: "video-uploads/clip", ResourceType: transform.ResourceVideo, Descriptor: edit,
		})
		require.NoError(t, err)
		assert.Contains(t, u, "/demo/video/upload/")
		assert.Contains(t, u, "so_2,eo_6")
	})

	t.Run("invalid request never reaches upstream", func(t *testing.T) {
		edit, err := transform.BuildFilter("sepia")
		require.NoError(t, err)

		_, err = a.DeriveURL(context.Background(), transform.Request{
			AssetID: "../etc", ResourceType: transform.ResourceImage, Descriptor: edit,
		})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	})
}

func TestClassify(t *testing.T) {
	expired, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-expired.Done()

	err := classify(expired, "upload", errors.New("Post \"https://api.cloudinary.com\": context deadline exceeded"))
	assert.ErrorIs(t, err, apperror.ErrUpstreamTimeout)
	assert.Equal(t, "Media service timed out, try again with a smaller file", apperror.PublicMessage(err))

	err = classify(context.Background(), "upload", &net.OpError{Op: "dial", Err: errors.New("connection refused")})
	assert.ErrorIs(t, err, apperror.ErrUpstreamUnavailable)

	err = classify(context.Background(), "upload", context.DeadlineExceeded)
	assert.ErrorIs(t, err, apperror.ErrUpstreamTimeout)
}

func TestDurationOf(t *testing.T) {
	assert.Equal(t, 12.5, durationOf(map[string]interface{}{"duration": 12.5, "bytes": 10}))
	assert.Zero(t, durationOf(nil))
	assert.Zero(t, durationOf(map[string]interface{}{"format": "jpg"}))
}
