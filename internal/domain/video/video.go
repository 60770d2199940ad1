package video

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

var (
	ErrInvalidVisibility = errors.New("visibility must be 'private' or 'public'")
	ErrTitleRequired     = errors.New("title is required")
	ErrOwnerRequired     = errors.New("owner is required")
	ErrPublicIDRequired  = errors.New("public id is required")
)

func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case VisibilityPrivate:
		return VisibilityPrivate, nil
	case VisibilityPublic:
		return VisibilityPublic, nil
	}
	return "", ErrInvalidVisibility
}

type Video struct {
	ID             uuid.UUID  `json:"id"`
	UserID         string     `json:"userId"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	PublicID       string     `json:"publicId"`
	OriginalSize   int64      `json:"originalSize"`
	CompressedSize int64      `json:"compressedSize"`
	Duration       float64    `json:"duration"`
	Visibility     Visibility `json:"visibility"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// New stamps a fresh record owned by userID. Visibility always starts private.
func New(userID, title string, description *string, publicID string, originalSize, compressedSize int64, duration float64) (*Video, error) {
	now := time.Now().UTC()
	v := &Video{
		ID:             uuid.New(),
		UserID:         userID,
		Title:          strings.TrimSpace(title),
		Description:    description,
		PublicID:       publicID,
		OriginalSize:   originalSize,
		CompressedSize: compressedSize,
		Duration:       duration,
		Visibility:     VisibilityPrivate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *Video) Validate() error {
	if v.UserID == "" {
		return ErrOwnerRequired
	}
	if v.Title == "" {
		return ErrTitleRequired
	}
	if v.PublicID == "" {
		return ErrPublicIDRequired
	}
	switch v.Visibility {
	case VisibilityPrivate, VisibilityPublic:
	default:
		return ErrInvalidVisibility
	}
	return nil
}

func (v *Video) IsOwnedBy(userID string) bool {
	return userID != "" && v.UserID == userID
}

// CompressionPercent is how much smaller the stored copy is than the upload.
func (v *Video) CompressionPercent() int {
	if v.OriginalSize <= 0 {
		return 0
	}
	pct := (1 - float64(v.CompressedSize)/float64(v.OriginalSize)) * 100
	if pct < 0 {
		return 0
	}
	return int(pct + 0.5)
}

type Repository interface {
	Save(ctx context.Context, v *Video) error
	// ListVisibleTo returns viewerID's own videos plus every public one,
	// newest first. An empty viewerID means public only.
	ListVisibleTo(ctx context.Context, viewerID string, limit, offset int) ([]*Video, error)
	// UpdateVisibility and Delete match on id AND owner; zero rows is a
	// not-found-or-forbidden error.
	UpdateVisibility(ctx context.Context, id uuid.UUID, ownerID string, visibility Visibility) (*Video, error)
	Delete(ctx context.Context, id uuid.UUID, ownerID string) (*Video, error)
}
