package transform

import (
	"sort"
	"strings"
)

type Box struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

var socialPresets = map[string]Box{
	"instagram-square":   {Width: 1080, Height: 1080},
	"instagram-portrait": {Width: 1080, Height: 1350},
	"twitter-post":       {Width: 1200, Height: 675},
	"twitter-header":     {Width: 1500, Height: 500},
	"facebook-cover":     {Width: 820, Height: 312},
}

var trimAspects = map[string]Box{
	"square": {Width: 720, Height: 720},
	"16:9":   {Width: 1280, Height: 720},
	"4:5":    {Width: 1080, Height: 1350},
	"9:16":   {Width: 720, Height: 1280},
}

func SocialPreset(name string) (Box, bool) {
	b, ok := socialPresets[strings.ToLower(strings.TrimSpace(name))]
	return b, ok
}

func SocialPresetNames() []string {
	names := make([]string, 0, len(socialPresets))
	for n := range socialPresets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
