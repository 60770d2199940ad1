package video

import (
	"github.com/google/uuid"
)

type EventType string

const (
	EventTypeCreated           EventType = "video.created"
	EventTypeVisibilityChanged EventType = "video.visibility_changed"
	EventTypeDeleted           EventType = "video.deleted"
)

type Event struct {
	EventType  EventType  `json:"event_type"`
	VideoID    uuid.UUID  `json:"video_id"`
	UserID     string     `json:"user_id"`
	PublicID   string     `json:"public_id"`
	Visibility Visibility `json:"visibility,omitempty"`
}

func NewEvent(t EventType, v *Video) Event {
	return Event{
		EventType:  t,
		VideoID:    v.ID,
		UserID:     v.UserID,
		PublicID:   v.PublicID,
		Visibility: v.Visibility,
	}
}
