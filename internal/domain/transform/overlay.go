package transform

import (
	"net/url"
	"strings"
)

type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
	AnchorCenter      Anchor = "center"
)

var anchorGravity = map[Anchor]string{
	AnchorTopLeft:     "north_west",
	AnchorTopRight:    "north_east",
	AnchorBottomLeft:  "south_west",
	AnchorBottomRight: "south_east",
	AnchorCenter:      "center",
}

// ParseAnchor never fails: anything unrecognised lands bottom-right.
func ParseAnchor(s string) Anchor {
	a := Anchor(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := anchorGravity[a]; ok {
		return a
	}
	return AnchorBottomRight
}

func (a Anchor) Gravity() string {
	if g, ok := anchorGravity[a]; ok {
		return g
	}
	return anchorGravity[AnchorBottomRight]
}

// EncodeOverlayText escapes free text for a text layer. Commas and slashes
// delimit transformation parameters, so both must be percent-encoded.
func EncodeOverlayText(s string) string {
	return strings.ReplaceAll(url.PathEscape(s), ",", "%2C")
}

func DecodeOverlayText(s string) (string, error) {
	return url.PathUnescape(s)
}
