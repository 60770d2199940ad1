package media

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/internal/mocks"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

var testPolicy = Policy{
	DeliveryHost:  "res.cloudinary.com",
	MaxImageBytes: 1 << 20,
	MaxVideoBytes: 4 << 20,
}

func pngFile(size int) service.UploadedAsset {
	return service.UploadedAsset{Filename: "a.png", ContentType: "image/png", Data: bytes.Repeat([]byte{1}, size)}
}

func stored(publicID string) *service.StoredAsset {
	return &service.StoredAsset{
		PublicID:  publicID,
		SecureURL: "https://res.cloudinary.com/demo/image/upload/" + publicID + ".png",
		Format:    "png",
	}
}

func TestUploadAsset(t *testing.T) {
	t.Run("too large never reaches upstream", func(t *testing.T) {
		client := new(mocks.MediaClient)
		uc := NewUploadAssetUseCase(client, testPolicy, logger.NewNop())

		_, err := uc.Execute(context.Background(), UploadAssetInput{UserID: "u1", File: pngFile(2 << 20)})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		client.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stores into the upload folder", func(t *testing.T) {
		client := new(mocks.MediaClient)
		client.On("Store", mock.Anything, mock.Anything, service.StoreOptions{
			Folder:       uploadFolder,
			ResourceType: transform.ResourceImage,
		}).Return(stored("next-cloudinary-uploads/x1"), nil).Once()

		uc := NewUploadAssetUseCase(client, testPolicy, logger.NewNop())
		out, err := uc.Execute(context.Background(), UploadAssetInput{UserID: "u1", File: pngFile(10)})
		require.NoError(t, err)
		assert.Equal(t, "next-cloudinary-uploads/x1", out.PublicID)
		client.AssertExpectations(t)
	})

	t.Run("non-https URL is refused", func(t *testing.T) {
		client := new(mocks.MediaClient)
		client.On("Store", mock.Anything, mock.Anything, mock.Anything).
			Return(&service.StoredAsset{PublicID: "p", SecureURL: "http://res.cloudinary.com/demo/p"}, nil)

		uc := NewUploadAssetUseCase(client, testPolicy, logger.NewNop())
		_, err := uc.Execute(context.Background(), UploadAssetInput{File: pngFile(10)})
		assert.ErrorIs(t, err, apperror.ErrInternal)
	})

	t.Run("upstream timeout passes through", func(t *testing.T) {
		client := new(mocks.MediaClient)
		client.On("Store", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperror.NewUpstreamTimeout("upload timed out", context.DeadlineExceeded))

		uc := NewUploadAssetUseCase(client, testPolicy, logger.NewNop())
		_, err := uc.Execute(context.Background(), UploadAssetInput{File: pngFile(10)})
		assert.ErrorIs(t, err, apperror.ErrUpstreamTimeout)
	})
}

func TestRemoveBackground_Transparent(t *testing.T) {
	client := new(mocks.MediaClient)
	client.On("Store", mock.Anything, mock.Anything, mock.MatchedBy(func(o service.StoreOptions) bool {
		return o.Folder == bgRemovalOriginalsFolder
	})).Return(stored("bg-removal/originals/o1"), nil).Once()
	client.On("StoreDerived", mock.Anything, mock.MatchedBy(func(r transform.Request) bool {
		edit, ok := r.Descriptor.(transform.BackgroundEdit)
		return ok && r.AssetID == "bg-removal/originals/o1" &&
			edit.Mode == transform.BackgroundTransparent && edit.Color == "" && edit.Format() == "png"
	}), service.StoreOptions{Folder: bgRemovalFolder}).Return(stored("bg-removal/d1"), nil).Once()
	client.On("Delete", mock.Anything, "bg-removal/originals/o1", transform.ResourceImage).Return(nil).Maybe()

	uc := NewRemoveBackgroundUseCase(client, testPolicy, logger.NewNop())
	out, err := uc.Execute(context.Background(), RemoveBackgroundInput{
		File:       pngFile(10),
		Background: transform.BackgroundParams{Transparent: true, Color: "#00ff00"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/bg-removal/d1.png", out.SecureURL)
	client.AssertCalled(t, "StoreDerived", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveBackground_BadColor(t *testing.T) {
	client := new(mocks.MediaClient)
	uc := NewRemoveBackgroundUseCase(client, testPolicy, logger.NewNop())

	_, err := uc.Execute(context.Background(), RemoveBackgroundInput{
		File:       pngFile(10),
		Background: transform.BackgroundParams{Color: "not-a-color"},
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	client.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
}

func TestWatermark(t *testing.T) {
	client := new(mocks.MediaClient)
	client.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(stored("uploads/w1"), nil).Once()
	client.On("StoreDerived", mock.Anything, mock.MatchedBy(func(r transform.Request) bool {
		edit, ok := r.Descriptor.(transform.WatermarkEdit)
		return ok && edit.Anchor == transform.AnchorBottomRight && edit.Text == "Hi, there"
	}), service.StoreOptions{PublicID: "watermarked/uploads/w1"}).Return(stored("watermarked/uploads/w1"), nil).Once()

	uc := NewWatermarkUseCase(client, testPolicy, logger.NewNop())
	out, err := uc.Execute(context.Background(), WatermarkInput{
		File:      pngFile(10),
		Watermark: transform.WatermarkParams{Text: "Hi, there", Position: "nowhere"},
	})
	require.NoError(t, err)
	assert.Equal(t, "uploads/w1", out.Original.PublicID)
	assert.Equal(t, "watermarked/uploads/w1", out.Watermarked.PublicID)
	client.AssertExpectations(t)
}

func TestWatermark_DerivedFailureDiscardsOriginal(t *testing.T) {
	client := new(mocks.MediaClient)
	deleted := make(chan string, 1)
	client.On("Store", mock.Anything, mock.Anything, mock.Anything).Return(stored("uploads/w2"), nil).Once()
	client.On("StoreDerived", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.NewUpstreamRejected("upload: bad overlay", nil)).Once()
	client.On("Delete", mock.Anything, "uploads/w2", transform.ResourceImage).Return(nil).Once().
		Run(func(args mock.Arguments) { deleted <- args.String(1) })

	uc := NewWatermarkUseCase(client, testPolicy, logger.NewNop())
	_, err := uc.Execute(context.Background(), WatermarkInput{
		File:      pngFile(10),
		Watermark: transform.WatermarkParams{Text: "hello"},
	})
	assert.ErrorIs(t, err, apperror.ErrUpstreamRejected)

	select {
	case id := <-deleted:
		assert.Equal(t, "uploads/w2", id)
	case <-time.After(2 * time.Second):
		t.Fatal("original was not discarded")
	}
}

func TestWatermark_MissingTextSkipsUpload(t *testing.T) {
	client := new(mocks.MediaClient)
	uc := NewWatermarkUseCase(client, testPolicy, logger.NewNop())

	_, err := uc.Execute(context.Background(), WatermarkInput{File: pngFile(10)})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
	client.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
}

func TestConvertFormat_Heic(t *testing.T) {
	client := new(mocks.MediaClient)
	client.On("DeriveURL", mock.Anything, mock.MatchedBy(func(r transform.Request) bool {
		return r.Descriptor.Format() == "heic" && r.ResourceType == transform.ResourceImage
	})).Return("https://res.cloudinary.com/demo/image/upload/f_heic/uploads/cat", nil).Once()

	uc := NewConvertFormatUseCase(client, testPolicy, logger.NewNop())
	out, err := uc.Execute(context.Background(), ConvertFormatInput{PublicID: "uploads/cat", TargetFormat: "heic"})
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Contains(t, out.URL, "f_heic")
}

func TestConvertFormat_Rejections(t *testing.T) {
	client := new(mocks.MediaClient)
	uc := NewConvertFormatUseCase(client, testPolicy, logger.NewNop())

	_, err := uc.Execute(context.Background(), ConvertFormatInput{TargetFormat: "png"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), ConvertFormatInput{PublicID: "a", TargetFormat: "tiff"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = uc.Execute(context.Background(), ConvertFormatInput{PublicID: "a", TargetFormat: "png", ResourceType: "raw"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	client.AssertNotCalled(t, "DeriveURL", mock.Anything, mock.Anything)
}

func TestApplyFilter_CacheBuster(t *testing.T) {
	client := new(mocks.MediaClient)
	client.On("DeriveURL", mock.Anything, mock.Anything).
		Return("https://res.cloudinary.com/demo/image/upload/e_blur:200/uploads/cat?_a=BAMAABD0", nil)

	uc := NewApplyFilterUseCase(client, testPolicy, logger.NewNop())
	uc.now = func() time.Time { return time.UnixMilli(1700000000000) }

	out, err := uc.Execute(context.Background(), ApplyFilterInput{PublicID: "uploads/cat", Effect: "blur:200"})
	require.NoError(t, err)
	assert.Contains(t, out.URL, "cb=1700000000000")
	assert.Contains(t, out.URL, "_a=BAMAABD0")
}

func TestTrimVideo(t *testing.T) {
	t.Run("start after end", func(t *testing.T) {
		client := new(mocks.MediaClient)
		uc := NewTrimVideoUseCase(client, testPolicy, logger.NewNop())

		_, err := uc.Execute(context.Background(), TrimVideoInput{PublicID: "v", Trim: transform.TrimParams{Start: 9, End: 3}})
		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		client.AssertNotCalled(t, "DeriveURL", mock.Anything, mock.Anything)
	})

	t.Run("video resource", func(t *testing.T) {
		client := new(mocks.MediaClient)
		client.On("DeriveURL", mock.Anything, mock.MatchedBy(func(r transform.Request) bool {
			return r.ResourceType == transform.ResourceVideo
		})).Return("https://res.cloudinary.com/demo/video/upload/c_fill,g_auto,w_720,h_720,so_0,eo_4/v", nil)

		uc := NewTrimVideoUseCase(client, testPolicy, logger.NewNop())
		out, err := uc.Execute(context.Background(), TrimVideoInput{PublicID: "v", Trim: transform.TrimParams{End: 4}})
		require.NoError(t, err)
		assert.Contains(t, out.URL, "/video/upload/")
	})
}

func TestSocialCrop(t *testing.T) {
	client := new(mocks.MediaClient)
	client.On("DeriveURL", mock.Anything, mock.Anything).
		Return("https://res.cloudinary.com/demo/image/upload/c_fill,g_auto,w_1080,h_1350/p", nil)

	uc := NewSocialCropUseCase(client, testPolicy, logger.NewNop())
	out, err := uc.Execute(context.Background(), SocialCropInput{PublicID: "p", Preset: "instagram-portrait"})
	require.NoError(t, err)
	assert.Equal(t, 1080, out.Width)
	assert.Equal(t, 1350, out.Height)

	_, err = uc.Execute(context.Background(), SocialCropInput{PublicID: "p", Preset: "myspace"})
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)
}

func TestDerive_ForeignHostRefused(t *testing.T) {
	client := new(mocks.MediaClient)
	client.On("DeriveURL", mock.Anything, mock.Anything).Return("https://evil.example.com/p", nil)

	uc := NewSocialCropUseCase(client, testPolicy, logger.NewNop())
	_, err := uc.Execute(context.Background(), SocialCropInput{PublicID: "p", Preset: "twitter-post"})
	assert.ErrorIs(t, err, apperror.ErrInternal)
}
