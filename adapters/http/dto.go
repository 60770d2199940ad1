package http

// JSON bodies of the derive routes. Field names follow what the web client
// already sends.

type FormatConvertRequest struct {
	PublicID     string `json:"public_id"`
	ResourceType string `json:"resource_type"`
	TargetFormat string `json:"targetFormat"`
}

type ImageFilterRequest struct {
	PublicID string `json:"public_id"`
	Effect   string `json:"effect"`
}

type VideoTrimRequest struct {
	PublicID string  `json:"public_id"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Aspect   string  `json:"aspect"`
}

type SocialCropRequest struct {
	PublicID string `json:"public_id"`
	Preset   string `json:"preset"`
}

type CreateVideoRequest struct {
	Title          string  `json:"title" binding:"required"`
	Description    string  `json:"description"`
	PublicID       string  `json:"publicId" binding:"required"`
	OriginalSize   int64   `json:"originalSize"`
	CompressedSize int64   `json:"compressedSize"`
	Duration       float64 `json:"duration"`
}

type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility" binding:"required"`
}
