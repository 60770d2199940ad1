package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

const TopicVideoEventsDeadLetter = "video.events.dlq"

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type VideoEventHandler interface {
	Execute(ctx context.Context, e video.Event) error
}

type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts:    5,
	InitialBackoff: 500 * time.Millisecond,
	MaxBackoff:     30 * time.Second,
}

func (p RetryPolicy) next(d time.Duration) time.Duration {
	d *= 2
	if d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// VideoEventConsumer commits offsets strictly in order: a message is
// committed only once it was handled, skipped as malformed, or parked on the
// dead-letter topic. Kafka commits are positional, so moving past a failed
// message without parking it would lose it.
type VideoEventConsumer struct {
	reader     MessageReader
	deadLetter MessageWriter
	handler    VideoEventHandler
	retry      RetryPolicy
	logger     logger.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func NewVideoEventConsumer(reader MessageReader, deadLetter MessageWriter, handler VideoEventHandler, retry RetryPolicy, log logger.Logger) *VideoEventConsumer {
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}
	return &VideoEventConsumer{
		reader:     reader,
		deadLetter: deadLetter,
		handler:    handler,
		retry:      retry,
		logger:     log,
		sleep:      sleepCtx,
	}
}

// NewDeadLetterWriter writes parked events to TopicVideoEventsDeadLetter.
func NewDeadLetterWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicVideoEventsDeadLetter,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}

// Run blocks until ctx is cancelled (nil) or the consumer cannot make
// progress without losing a message (error).
func (c *VideoEventConsumer) Run(ctx context.Context) error {
	backoff := c.retry.InitialBackoff
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("kafka reader closed: %w", err)
			}
			c.logger.Error("Failed to read message from Kafka", err, zap.Duration("backoff", backoff))
			if c.sleep(ctx, backoff) != nil {
				return nil
			}
			backoff = c.retry.next(backoff)
			continue
		}
		backoff = c.retry.InitialBackoff

		if err := c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *VideoEventConsumer) process(ctx context.Context, msg kafka.Message) error {
	l := c.logger.With(zap.String("key", string(msg.Key)), zap.Int("partition", msg.Partition), zap.Int64("offset", msg.Offset))

	e, err := DecodeVideoEvent(msg)
	if err != nil {
		l.Warn("Malformed event, skipping", zap.Error(err))
		c.commit(msg, l)
		return nil
	}

	attempts, err := c.handle(ctx, e, l)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if dlqErr := c.park(ctx, msg, err, attempts); dlqErr != nil {
			l.Error("Failed to park event, stopping before commit", dlqErr, zap.String("video_id", e.VideoID.String()))
			return dlqErr
		}
		l.Warn("Event parked on dead-letter topic", zap.Int("attempts", attempts), zap.Error(err))
	}

	c.commit(msg, l)
	return nil
}

func (c *VideoEventConsumer) handle(ctx context.Context, e video.Event, l logger.Logger) (int, error) {
	backoff := c.retry.InitialBackoff
	var err error
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if err = c.handler.Execute(ctx, e); err == nil {
			return attempt, nil
		}
		if attempt == c.retry.MaxAttempts {
			return attempt, err
		}
		l.Warn("Event handling failed, retrying", zap.Int("attempt", attempt), zap.Duration("backoff", backoff), zap.Error(err))
		if sleepErr := c.sleep(ctx, backoff); sleepErr != nil {
			return attempt, sleepErr
		}
		backoff = c.retry.next(backoff)
	}
	return c.retry.MaxAttempts, err
}

func (c *VideoEventConsumer) park(ctx context.Context, msg kafka.Message, cause error, attempts int) error {
	if c.deadLetter == nil {
		return fmt.Errorf("no dead-letter writer: %w", cause)
	}
	headers := append([]kafka.Header{}, msg.Headers...)
	headers = append(headers,
		kafka.Header{Key: "error", Value: []byte(cause.Error())},
		kafka.Header{Key: "attempts", Value: []byte(strconv.Itoa(attempts))},
		kafka.Header{Key: "source_offset", Value: []byte(strconv.FormatInt(msg.Offset, 10))},
	)
	return c.deadLetter.WriteMessages(ctx, kafka.Message{Key: msg.Key, Value: msg.Value, Headers: headers})
}

// commit failures are only logged: the message was handled and handling a
// deletion twice is harmless.
func (c *VideoEventConsumer) commit(msg kafka.Message, l logger.Logger) {
	if err := c.reader.CommitMessages(context.Background(), msg); err != nil {
		l.Error("Failed to commit message", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
