package transform

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	defaultFontSize = 40
	minFontSize     = 8
	maxFontSize     = 200

	defaultWatermarkColor = "ffffff"

	thumbnailWidth  = 320
	thumbnailHeight = 180
	previewSeconds  = 15
)

var validate = validator.New(validator.WithRequiredStructEnabled())

var canonicalHex = regexp.MustCompile(`^[0-9a-f]{6}([0-9a-f]{2})?$`)

// ErrInvalidDescriptor wraps every rejection coming out of the builders.
var ErrInvalidDescriptor = errors.New("invalid transformation")

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidDescriptor, err)
}

func validationMessage(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalid(err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required", "required_without":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "min", "max", "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", fe.Field(), fe.Tag(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return invalid(errors.New(strings.Join(msgs, "; ")))
}

// NormalizeHexColor accepts "#rgb", "#rrggbb", "#rrggbbaa" (the leading '#'
// is optional) and returns the lowercase long form without '#'.
func NormalizeHexColor(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if err := validate.Var(s, "hexcolor"); err != nil {
		return "", fmt.Errorf("invalid color %q", strings.TrimPrefix(s, "#"))
	}
	hex := strings.ToLower(s[1:])
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}
	return hex, nil
}

type BackgroundParams struct {
	Transparent bool
	Color       string
	Image       string `validate:"omitempty,max=2048"`
}

// BuildBackground resolves precedence transparent > image > color. With
// nothing set the background is simply removed.
func BuildBackground(p BackgroundParams) (BackgroundEdit, error) {
	if err := validate.Struct(p); err != nil {
		return BackgroundEdit{}, validationMessage(err)
	}
	edit := BackgroundEdit{TargetFormat: "png"}
	switch {
	case p.Transparent:
		edit.Mode = BackgroundTransparent
	case strings.TrimSpace(p.Image) != "":
		edit.Mode = BackgroundOverlay
		edit.Image = strings.TrimSpace(p.Image)
	case strings.TrimSpace(p.Color) != "":
		hex, err := NormalizeHexColor(p.Color)
		if err != nil {
			return BackgroundEdit{}, invalid(err)
		}
		edit.Mode = BackgroundSolidColor
		edit.Color = hex
	default:
		edit.Mode = BackgroundTransparent
	}
	if err := edit.Validate(); err != nil {
		return BackgroundEdit{}, invalid(err)
	}
	return edit, nil
}

type WatermarkParams struct {
	Type     string `validate:"omitempty,oneof=text logo"`
	Text     string `validate:"max=200"`
	LogoID   string `validate:"omitempty,max=255"`
	Color    string
	FontSize int `validate:"omitempty,min=8,max=200"`
	Position string
}

func BuildWatermark(p WatermarkParams) (WatermarkEdit, error) {
	if err := validate.Struct(p); err != nil {
		return WatermarkEdit{}, validationMessage(err)
	}
	edit := WatermarkEdit{Anchor: ParseAnchor(p.Position)}

	useLogo := p.Type == "logo" || (p.Type == "" && p.Text == "" && p.LogoID != "")
	if useLogo {
		if p.LogoID == "" {
			return WatermarkEdit{}, invalid(errors.New("logo watermark requires logoId"))
		}
		edit.LogoID = p.LogoID
	} else {
		if strings.TrimSpace(p.Text) == "" {
			return WatermarkEdit{}, invalid(errors.New("watermark text is required"))
		}
		edit.Text = p.Text
		edit.FontSize = p.FontSize
		if edit.FontSize == 0 {
			edit.FontSize = defaultFontSize
		}
		edit.Color = defaultWatermarkColor
		if p.Color != "" {
			hex, err := NormalizeHexColor(p.Color)
			if err != nil {
				return WatermarkEdit{}, invalid(err)
			}
			edit.Color = hex
		}
	}
	if err := edit.Validate(); err != nil {
		return WatermarkEdit{}, invalid(err)
	}
	return edit, nil
}

type FormatParams struct {
	TargetFormat string `validate:"required"`
	ResourceType ResourceType
}

func BuildFormat(p FormatParams) (FormatEdit, error) {
	if err := validate.Struct(p); err != nil {
		return FormatEdit{}, validationMessage(err)
	}
	target := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(p.TargetFormat), "."))
	if target == "jpeg" {
		target = "jpg"
	}
	rt := p.ResourceType
	if rt == "" {
		rt = ResourceImage
	}
	edit := FormatEdit{TargetFormat: target, Resource: rt}
	if err := edit.Validate(); err != nil {
		return FormatEdit{}, invalid(err)
	}
	return edit, nil
}

// BuildFilter parses "name" or "name:param", e.g. "blur:200".
func BuildFilter(effect string) (FilterEdit, error) {
	effect = strings.ToLower(strings.TrimSpace(effect))
	if effect == "" {
		return FilterEdit{}, invalid(errors.New("effect is required"))
	}
	name, param, _ := strings.Cut(effect, ":")
	name = strings.TrimPrefix(name, "e_")
	edit := FilterEdit{EffectName: name, EffectParameter: param}
	if err := edit.Validate(); err != nil {
		return FilterEdit{}, invalid(err)
	}
	return edit, nil
}

type TrimParams struct {
	Start  float64
	End    float64
	Width  int    `validate:"omitempty,min=1,max=4096"`
	Height int    `validate:"omitempty,min=1,max=4096"`
	Aspect string `validate:"omitempty,oneof=square 16:9 4:5 9:16"`
}

// BuildTrim cuts [Start, End) out of a video and fills it to the target box.
// Explicit dimensions win over Aspect; with neither the box is square.
func BuildTrim(p TrimParams) (CropTrimEdit, error) {
	if err := validate.Struct(p); err != nil {
		return CropTrimEdit{}, validationMessage(err)
	}
	w, h := p.Width, p.Height
	if w == 0 || h == 0 {
		aspect := p.Aspect
		if aspect == "" {
			aspect = "square"
		}
		box := trimAspects[aspect]
		w, h = box.Width, box.Height
	}
	edit := CropTrimEdit{
		StartOffsetSeconds: p.Start,
		EndOffsetSeconds:   p.End,
		Width:              w,
		Height:             h,
		Mode:               CropModeFill,
	}
	if !edit.HasTrim() {
		return CropTrimEdit{}, invalid(errors.New("start offset must be before end offset"))
	}
	if err := edit.Validate(); err != nil {
		return CropTrimEdit{}, invalid(err)
	}
	return edit, nil
}

// BuildSocialCrop crops an image to a named platform preset.
func BuildSocialCrop(preset string) (CropTrimEdit, error) {
	box, ok := SocialPreset(preset)
	if !ok {
		return CropTrimEdit{}, invalid(fmt.Errorf("unknown preset %q, expected one of [%s]", preset, strings.Join(SocialPresetNames(), " ")))
	}
	edit := CropTrimEdit{Width: box.Width, Height: box.Height, Mode: CropModeFill}
	if err := edit.Validate(); err != nil {
		return CropTrimEdit{}, invalid(err)
	}
	return edit, nil
}

func BuildThumbnail() ThumbnailEdit {
	return ThumbnailEdit{Width: thumbnailWidth, Height: thumbnailHeight}
}

func BuildPreview() PreviewEdit {
	return PreviewEdit{Width: thumbnailWidth, Height: thumbnailHeight, DurationSeconds: previewSeconds}
}
