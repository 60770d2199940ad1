package transform

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

type Kind string

const (
	KindBackground Kind = "background"
	KindWatermark  Kind = "watermark"
	KindFormat     Kind = "format"
	KindFilter     Kind = "filter"
	KindCropTrim   Kind = "crop_trim"
	KindThumbnail  Kind = "thumbnail"
	KindPreview    Kind = "preview"
)

type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
)

func ParseResourceType(s string) (ResourceType, error) {
	switch ResourceType(strings.ToLower(strings.TrimSpace(s))) {
	case "", ResourceImage:
		return ResourceImage, nil
	case ResourceVideo:
		return ResourceVideo, nil
	}
	return "", fmt.Errorf("unsupported resource_type %q", s)
}

// Descriptor is one requested transformation. Exactly one variant is carried
// per request; the concrete types below are the only implementations.
type Descriptor interface {
	Kind() Kind
	Validate() error
	// Transformation renders the descriptor in the upstream URL syntax,
	// components separated by "/".
	Transformation() string
	// Format is the delivery format the descriptor forces, or "".
	Format() string
}

// Request pairs a descriptor with the stored asset it applies to.
type Request struct {
	AssetID      string
	ResourceType ResourceType
	Descriptor   Descriptor
}

var assetIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-./:]{1,255}$`)

var errInvalidAssetID = errors.New("public_id contains unsupported characters")

func validateAssetID(id string) error {
	if id == "" {
		return errors.New("public_id is required")
	}
	if !assetIDPattern.MatchString(id) || strings.Contains(id, "..") || strings.HasPrefix(id, "/") {
		return errInvalidAssetID
	}
	return nil
}

func (r Request) Validate() error {
	if err := validateAssetID(r.AssetID); err != nil {
		return err
	}
	if r.ResourceType != ResourceImage && r.ResourceType != ResourceVideo {
		return fmt.Errorf("unsupported resource type %q", r.ResourceType)
	}
	if r.Descriptor == nil {
		return errors.New("descriptor is required")
	}
	return r.Descriptor.Validate()
}

// layerID turns a public id into the form used inside overlay parameters,
// where folder separators are written as ':'.
func layerID(publicID string) string {
	return strings.ReplaceAll(publicID, "/", ":")
}

// Background

type BackgroundMode string

const (
	BackgroundTransparent BackgroundMode = "transparent"
	BackgroundSolidColor  BackgroundMode = "solid-color"
	BackgroundOverlay     BackgroundMode = "overlay-image"
)

type BackgroundEdit struct {
	Mode BackgroundMode
	// Color is six or eight lowercase hex digits, set only for solid-color.
	Color string
	// Image is a public id or an absolute http(s) URL, set only for overlay-image.
	Image        string
	TargetFormat string
}

func (BackgroundEdit) Kind() Kind { return KindBackground }

func (b BackgroundEdit) Format() string { return b.TargetFormat }

func (b BackgroundEdit) Validate() error {
	if b.TargetFormat != "png" {
		return errors.New("background edits are delivered as png")
	}
	switch b.Mode {
	case BackgroundTransparent:
		if b.Color != "" || b.Image != "" {
			return errors.New("transparent background cannot carry a color or image")
		}
	case BackgroundSolidColor:
		if b.Image != "" {
			return errors.New("solid background cannot carry an image")
		}
		if !canonicalHex.MatchString(b.Color) {
			return fmt.Errorf("invalid background color %q", b.Color)
		}
	case BackgroundOverlay:
		if b.Color != "" {
			return errors.New("image background cannot carry a color")
		}
		if !isRemoteURL(b.Image) {
			if err := validateAssetID(b.Image); err != nil {
				return fmt.Errorf("invalid background image: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown background mode %q", b.Mode)
	}
	return nil
}

func (b BackgroundEdit) Transformation() string {
	parts := []string{"e_background_removal"}
	switch b.Mode {
	case BackgroundSolidColor:
		parts = append(parts, "b_rgb:"+b.Color)
	case BackgroundOverlay:
		parts = append(parts, "u_"+underlaySource(b.Image)+",c_fill,fl_relative,w_1.0,h_1.0")
	}
	parts = append(parts, "f_"+b.TargetFormat)
	return strings.Join(parts, "/")
}

func isRemoteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func underlaySource(image string) string {
	if isRemoteURL(image) {
		return "fetch:" + base64.URLEncoding.EncodeToString([]byte(image))
	}
	return layerID(image)
}

// Watermark

type WatermarkEdit struct {
	Text     string
	LogoID   string
	Color    string
	FontSize int
	Font     string
	Anchor   Anchor
}

const (
	defaultWatermarkFont = "Arial"
	watermarkMargin      = 20
	logoWidth            = 150
)

func (WatermarkEdit) Kind() Kind { return KindWatermark }

func (WatermarkEdit) Format() string { return "" }

func (w WatermarkEdit) Validate() error {
	if (w.Text == "") == (w.LogoID == "") {
		return errors.New("watermark needs exactly one of text or logo")
	}
	if _, ok := anchorGravity[w.Anchor]; !ok {
		return fmt.Errorf("unknown anchor %q", w.Anchor)
	}
	if w.LogoID != "" {
		return validateAssetID(w.LogoID)
	}
	if !canonicalHex.MatchString(w.Color) {
		return fmt.Errorf("invalid watermark color %q", w.Color)
	}
	if w.FontSize < minFontSize || w.FontSize > maxFontSize {
		return fmt.Errorf("font size must be between %d and %d", minFontSize, maxFontSize)
	}
	return nil
}

func (w WatermarkEdit) Transformation() string {
	var parts []string
	if w.LogoID != "" {
		parts = []string{"l_" + layerID(w.LogoID), "w_" + strconv.Itoa(logoWidth)}
	} else {
		font := w.Font
		if font == "" {
			font = defaultWatermarkFont
		}
		parts = []string{
			fmt.Sprintf("l_text:%s_%d_bold:%s", font, w.FontSize, EncodeOverlayText(w.Text)),
			"co_rgb:" + w.Color,
		}
	}
	parts = append(parts, "g_"+w.Anchor.Gravity())
	if w.Anchor != AnchorCenter {
		parts = append(parts, "x_"+strconv.Itoa(watermarkMargin), "y_"+strconv.Itoa(watermarkMargin))
	}
	return strings.Join(parts, ",")
}

// Format conversion

type FormatEdit struct {
	TargetFormat string
	Resource     ResourceType
}

var targetFormats = map[ResourceType]map[string]bool{
	ResourceImage: {"jpg": true, "png": true, "webp": true, "avif": true, "heic": true},
	ResourceVideo: {"mp4": true, "webm": true, "mov": true, "gif": true},
}

func (FormatEdit) Kind() Kind { return KindFormat }

func (f FormatEdit) Format() string { return f.TargetFormat }

func (f FormatEdit) Validate() error {
	allowed, ok := targetFormats[f.Resource]
	if !ok {
		return fmt.Errorf("unsupported resource type %q", f.Resource)
	}
	if !allowed[f.TargetFormat] {
		return fmt.Errorf("unsupported target format %q for %s", f.TargetFormat, f.Resource)
	}
	return nil
}

func (f FormatEdit) Transformation() string {
	return "f_" + f.TargetFormat
}

// Filters

type FilterEdit struct {
	EffectName      string
	EffectParameter string
}

var allowedEffects = map[string]bool{
	"grayscale":  true,
	"blur":       true,
	"sepia":      true,
	"cartoonify": true,
	"sharpen":    true,
	"brightness": true,
	"contrast":   true,
	"saturation": true,
	"vignette":   true,
	"pixelate":   true,
	"negate":     true,
	"oil_paint":  true,
	"improve":    true,
	"auto_color": true,
	"vibrance":   true,
}

var effectParamPattern = regexp.MustCompile(`^-?[a-z0-9_]{1,16}$`)

func (FilterEdit) Kind() Kind { return KindFilter }

func (FilterEdit) Format() string { return "" }

func (f FilterEdit) Validate() error {
	if !allowedEffects[f.EffectName] {
		return fmt.Errorf("unsupported effect %q", f.EffectName)
	}
	if f.EffectParameter != "" && !effectParamPattern.MatchString(f.EffectParameter) {
		return fmt.Errorf("invalid effect parameter %q", f.EffectParameter)
	}
	return nil
}

func (f FilterEdit) Transformation() string {
	if f.EffectParameter == "" {
		return "e_" + f.EffectName
	}
	return "e_" + f.EffectName + ":" + f.EffectParameter
}

// Crop and trim

type CropMode string

const (
	CropModeCrop CropMode = "crop"
	CropModeFill CropMode = "fill"
)

const maxDimension = 4096

type CropTrimEdit struct {
	StartOffsetSeconds float64
	EndOffsetSeconds   float64
	Width              int
	Height             int
	Mode               CropMode
}

func (CropTrimEdit) Kind() Kind { return KindCropTrim }

func (CropTrimEdit) Format() string { return "" }

// HasTrim reports whether the edit cuts the timeline.
func (c CropTrimEdit) HasTrim() bool {
	return c.StartOffsetSeconds != 0 || c.EndOffsetSeconds != 0
}

func (c CropTrimEdit) Validate() error {
	if c.Mode != CropModeCrop && c.Mode != CropModeFill {
		return fmt.Errorf("unknown crop mode %q", c.Mode)
	}
	if c.Width < 1 || c.Width > maxDimension || c.Height < 1 || c.Height > maxDimension {
		return fmt.Errorf("width and height must be between 1 and %d", maxDimension)
	}
	if c.HasTrim() {
		if c.StartOffsetSeconds < 0 {
			return errors.New("start offset must not be negative")
		}
		if c.StartOffsetSeconds >= c.EndOffsetSeconds {
			return errors.New("start offset must be before end offset")
		}
	}
	return nil
}

func (c CropTrimEdit) Transformation() string {
	parts := []string{
		"c_" + string(c.Mode),
		"g_auto",
		"w_" + strconv.Itoa(c.Width),
		"h_" + strconv.Itoa(c.Height),
	}
	if c.HasTrim() {
		parts = append(parts,
			"so_"+formatSeconds(c.StartOffsetSeconds),
			"eo_"+formatSeconds(c.EndOffsetSeconds),
		)
	}
	return strings.Join(parts, ",")
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', -1, 64)
}

// Video card renditions

type ThumbnailEdit struct {
	Width  int
	Height int
}

func (ThumbnailEdit) Kind() Kind { return KindThumbnail }

func (ThumbnailEdit) Format() string { return "jpg" }

func (t ThumbnailEdit) Validate() error {
	if t.Width < 1 || t.Width > maxDimension || t.Height < 1 || t.Height > maxDimension {
		return fmt.Errorf("width and height must be between 1 and %d", maxDimension)
	}
	return nil
}

func (t ThumbnailEdit) Transformation() string {
	return fmt.Sprintf("c_fill,g_auto,w_%d,h_%d,q_auto,f_jpg", t.Width, t.Height)
}

type PreviewEdit struct {
	Width           int
	Height          int
	DurationSeconds int
}

func (PreviewEdit) Kind() Kind { return KindPreview }

func (PreviewEdit) Format() string { return "" }

func (p PreviewEdit) Validate() error {
	if p.Width < 1 || p.Width > maxDimension || p.Height < 1 || p.Height > maxDimension {
		return fmt.Errorf("width and height must be between 1 and %d", maxDimension)
	}
	if p.DurationSeconds < 1 || p.DurationSeconds > 60 {
		return errors.New("preview duration must be between 1 and 60 seconds")
	}
	return nil
}

func (p PreviewEdit) Transformation() string {
	return fmt.Sprintf("c_fill,w_%d,h_%d/e_preview:duration_%d:max_seg_9:min_seg_dur_1", p.Width, p.Height, p.DurationSeconds)
}
