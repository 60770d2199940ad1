package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlayText_RoundTrip(t *testing.T) {
	inputs := []string{
		"© 2024 Studio",
		"a,b/c d",
		"100% real",
		"Xin chào, thế giới",
		"emoji 🎬 time",
		"",
	}
	for _, in := range inputs {
		enc := EncodeOverlayText(in)
		assert.NotContains(t, enc, ",", "encoded %q", in)
		assert.NotContains(t, enc, "/", "encoded %q", in)

		dec, err := DecodeOverlayText(enc)
		require.NoError(t, err)
		assert.Equal(t, in, dec)
	}
}

func TestParseAnchor(t *testing.T) {
	tests := map[string]string{
		"top-left":     "north_west",
		"top-right":    "north_east",
		"bottom-left":  "south_west",
		"bottom-right": "south_east",
		"center":       "center",
		"Top-Left":     "north_west",
		"middle":       "south_east",
		"":             "south_east",
	}
	for in, gravity := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, gravity, ParseAnchor(in).Gravity())
		})
	}
}

func TestBuildBackground(t *testing.T) {
	t.Run("transparent wins over color and image", func(t *testing.T) {
		edit, err := BuildBackground(BackgroundParams{Transparent: true, Color: "#ff0000", Image: "bg/beach"})
		require.NoError(t, err)
		assert.Equal(t, BackgroundTransparent, edit.Mode)
		assert.Empty(t, edit.Color)
		assert.Equal(t, "png", edit.Format())
		assert.Equal(t, "e_background_removal/f_png", edit.Transformation())
	})

	t.Run("image wins over color", func(t *testing.T) {
		edit, err := BuildBackground(BackgroundParams{Color: "#ff0000", Image: "bg/beach"})
		require.NoError(t, err)
		assert.Equal(t, BackgroundOverlay, edit.Mode)
		assert.Empty(t, edit.Color)
		assert.Equal(t, "e_background_removal/u_bg:beach,c_fill,fl_relative,w_1.0,h_1.0/f_png", edit.Transformation())
	})

	t.Run("remote image is fetched", func(t *testing.T) {
		edit, err := BuildBackground(BackgroundParams{Image: "https://example.com/sky.jpg"})
		require.NoError(t, err)
		assert.Contains(t, edit.Transformation(), "u_fetch:aHR0cHM6Ly9leGFtcGxlLmNvbS9za3kuanBn")
	})

	t.Run("solid color is normalised", func(t *testing.T) {
		edit, err := BuildBackground(BackgroundParams{Color: "#FFF"})
		require.NoError(t, err)
		assert.Equal(t, BackgroundSolidColor, edit.Mode)
		assert.Equal(t, "e_background_removal/b_rgb:ffffff/f_png", edit.Transformation())
	})

	t.Run("bad color rejected", func(t *testing.T) {
		_, err := BuildBackground(BackgroundParams{Color: "red"})
		assert.ErrorIs(t, err, ErrInvalidDescriptor)
	})

	t.Run("nothing set removes background", func(t *testing.T) {
		edit, err := BuildBackground(BackgroundParams{})
		require.NoError(t, err)
		assert.Equal(t, BackgroundTransparent, edit.Mode)
	})
}

func TestBuildWatermark(t *testing.T) {
	t.Run("text defaults", func(t *testing.T) {
		edit, err := BuildWatermark(WatermarkParams{Text: "Hello, World"})
		require.NoError(t, err)
		assert.Equal(t, 40, edit.FontSize)
		assert.Equal(t, AnchorBottomRight, edit.Anchor)
		assert.Equal(t, "l_text:Arial_40_bold:Hello%2C%20World,co_rgb:ffffff,g_south_east,x_20,y_20", edit.Transformation())
	})

	t.Run("unknown position falls back to bottom-right", func(t *testing.T) {
		edit, err := BuildWatermark(WatermarkParams{Text: "x", Position: "somewhere"})
		require.NoError(t, err)
		assert.Equal(t, AnchorBottomRight, edit.Anchor)
	})

	t.Run("center has no offsets", func(t *testing.T) {
		edit, err := BuildWatermark(WatermarkParams{Text: "x", Position: "center", Color: "000000", FontSize: 12})
		require.NoError(t, err)
		assert.Equal(t, "l_text:Arial_12_bold:x,co_rgb:000000,g_center", edit.Transformation())
	})

	t.Run("logo", func(t *testing.T) {
		edit, err := BuildWatermark(WatermarkParams{Type: "logo", LogoID: "brand/logo", Position: "top-left"})
		require.NoError(t, err)
		assert.Equal(t, "l_brand:logo,w_150,g_north_west,x_20,y_20", edit.Transformation())
	})

	t.Run("missing text", func(t *testing.T) {
		_, err := BuildWatermark(WatermarkParams{Text: "   "})
		assert.ErrorIs(t, err, ErrInvalidDescriptor)
	})

	t.Run("font size out of range", func(t *testing.T) {
		_, err := BuildWatermark(WatermarkParams{Text: "x", FontSize: 500})
		assert.ErrorIs(t, err, ErrInvalidDescriptor)
	})
}

func TestBuildFormat(t *testing.T) {
	edit, err := BuildFormat(FormatParams{TargetFormat: "HEIC"})
	require.NoError(t, err)
	assert.Equal(t, "heic", edit.Format())
	assert.Equal(t, "f_heic", edit.Transformation())

	edit, err = BuildFormat(FormatParams{TargetFormat: "jpeg"})
	require.NoError(t, err)
	assert.Equal(t, "jpg", edit.Format())

	edit, err = BuildFormat(FormatParams{TargetFormat: "webm", ResourceType: ResourceVideo})
	require.NoError(t, err)
	assert.Equal(t, "f_webm", edit.Transformation())

	_, err = BuildFormat(FormatParams{TargetFormat: "bmp"})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)

	_, err = BuildFormat(FormatParams{TargetFormat: "mp4"})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)

	_, err = BuildFormat(FormatParams{})
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}

func TestBuildFilter(t *testing.T) {
	edit, err := BuildFilter("blur:200")
	require.NoError(t, err)
	assert.Equal(t, "e_blur:200", edit.Transformation())

	edit, err = BuildFilter("grayscale")
	require.NoError(t, err)
	assert.Equal(t, "e_grayscale", edit.Transformation())

	edit, err = BuildFilter("e_sepia")
	require.NoError(t, err)
	assert.Equal(t, "e_sepia", edit.Transformation())

	for _, bad := range []string{"", "explode", "blur:1/2", "blur:200,l_evil"} {
		_, err := BuildFilter(bad)
		assert.ErrorIs(t, err, ErrInvalidDescriptor, bad)
	}
}

func TestBuildTrim(t *testing.T) {
	t.Run("aspect preset", func(t *testing.T) {
		edit, err := BuildTrim(TrimParams{Start: 1.5, End: 10, Aspect: "9:16"})
		require.NoError(t, err)
		assert.Equal(t, "c_fill,g_auto,w_720,h_1280,so_1.5,eo_10", edit.Transformation())
	})

	t.Run("explicit size wins", func(t *testing.T) {
		edit, err := BuildTrim(TrimParams{Start: 0, End: 3, Width: 640, Height: 360, Aspect: "square"})
		require.NoError(t, err)
		assert.Equal(t, 640, edit.Width)
		assert.Equal(t, 360, edit.Height)
	})

	t.Run("start must precede end", func(t *testing.T) {
		_, err := BuildTrim(TrimParams{Start: 5, End: 5})
		assert.ErrorIs(t, err, ErrInvalidDescriptor)

		_, err = BuildTrim(TrimParams{Start: 8, End: 2})
		assert.ErrorIs(t, err, ErrInvalidDescriptor)

		_, err = BuildTrim(TrimParams{Start: -1, End: 2})
		assert.ErrorIs(t, err, ErrInvalidDescriptor)
	})

	t.Run("unknown aspect", func(t *testing.T) {
		_, err := BuildTrim(TrimParams{Start: 0, End: 2, Aspect: "3:2"})
		assert.ErrorIs(t, err, ErrInvalidDescriptor)
	})
}

func TestBuildSocialCrop(t *testing.T) {
	edit, err := BuildSocialCrop("twitter-header")
	require.NoError(t, err)
	assert.Equal(t, "c_fill,g_auto,w_1500,h_500", edit.Transformation())
	assert.False(t, edit.HasTrim())

	_, err = BuildSocialCrop("tiktok")
	require.ErrorIs(t, err, ErrInvalidDescriptor)
	assert.Contains(t, err.Error(), "instagram-square")
}

func TestCardRenditions(t *testing.T) {
	assert.Equal(t, "c_fill,g_auto,w_320,h_180,q_auto,f_jpg", BuildThumbnail().Transformation())
	assert.Equal(t, "c_fill,w_320,h_180/e_preview:duration_15:max_seg_9:min_seg_dur_1", BuildPreview().Transformation())
	assert.NoError(t, BuildThumbnail().Validate())
	assert.NoError(t, BuildPreview().Validate())
}

func TestRequestValidate(t *testing.T) {
	edit, err := BuildFilter("sepia")
	require.NoError(t, err)

	ok := Request{AssetID: "uploads/cat_1", ResourceType: ResourceImage, Descriptor: edit}
	assert.NoError(t, ok.Validate())

	for _, id := range []string{"", "../secret", "/abs", "has space", "q?x=1"} {
		r := Request{AssetID: id, ResourceType: ResourceImage, Descriptor: edit}
		assert.Error(t, r.Validate(), id)
	}

	assert.Error(t, Request{AssetID: "a", ResourceType: ResourceImage}.Validate())
}
