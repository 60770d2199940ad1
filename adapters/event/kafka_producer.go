package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/cloudinary-studio/internal/config"
	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

const TopicVideoEvents = "video.events"

type KafkaProducerClient struct {
	VideoEventsWriter *kafka.Writer
	logger            logger.Logger
}

func NewKafkaProducerClient(cfg config.Config, log logger.Logger) (*KafkaProducerClient, error) {
	brokers := cfg.Kafka.Brokers
	if len(brokers) == 0 {
		return nil, fmt.Errorf("config Kafka brokers not found")
	}

	// writer 'video.events'
	videoWriter := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  TopicVideoEvents,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}

	log.Info("Initialize Kafka Producers successfully.", zap.Strings("brokers", brokers))
	return &KafkaProducerClient{VideoEventsWriter: videoWriter, logger: log}, nil
}

// PublishVideoEvent keys messages by video id so every event of one video
// lands on the same partition in order.
func (c *KafkaProducerClient) PublishVideoEvent(ctx context.Context, e video.Event) error {
	msg, err := EncodeVideoEvent(e)
	if err != nil {
		return err
	}
	if err := c.VideoEventsWriter.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event: %w", e.EventType, err)
	}
	return nil
}

func (c *KafkaProducerClient) Close() {
	if c.VideoEventsWriter != nil {
		if err := c.VideoEventsWriter.Close(); err != nil {
			c.logger.Warn("Failed to close Kafka writer", zap.Error(err))
		}
	}
	c.logger.Info("Closed Kafka Producers")
}

func EncodeVideoEvent(e video.Event) (kafka.Message, error) {
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal video event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(e.VideoID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.EventType)},
		},
	}, nil
}

func DecodeVideoEvent(msg kafka.Message) (video.Event, error) {
	var e video.Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		return video.Event{}, fmt.Errorf("unmarshal video event: %w", err)
	}
	if e.EventType == "" {
		return video.Event{}, fmt.Errorf("video event without event_type")
	}
	return e, nil
}
