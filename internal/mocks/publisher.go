package mocks

import (
	"context"

	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
)

// Publisher records events on a buffered channel so tests can wait for the
// asynchronous publish.
type Publisher struct {
	Events chan video.Event
	Err    error
}

func NewPublisher() *Publisher {
	return &Publisher{Events: make(chan video.Event, 16)}
}

func (p *Publisher) PublishVideoEvent(_ context.Context, e video.Event) error {
	p.Events <- e
	return p.Err
}
