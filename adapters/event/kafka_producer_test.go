package event

import (
	"testing"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cloudinary-studio/internal/config"
	"github.com/khoahotran/cloudinary-studio/internal/domain/video"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

func TestVideoEventCodec(t *testing.T) {
	e := video.Event{
		EventType: video.EventTypeDeleted,
		VideoID:   uuid.New(),
		UserID:    "user_1",
		PublicID:  "video-uploads/abc",
	}

	msg, err := EncodeVideoEvent(e)
	require.NoError(t, err)
	assert.Equal(t, e.VideoID.String(), string(msg.Key))
	assert.JSONEq(t, `{"event_type":"video.deleted","video_id":"`+e.VideoID.String()+`","user_id":"user_1","public_id":"video-uploads/abc"}`, string(msg.Value))

	got, err := DecodeVideoEvent(msg)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestDecodeVideoEvent_Malformed(t *testing.T) {
	_, err := DecodeVideoEvent(kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)

	_, err = DecodeVideoEvent(kafka.Message{Value: []byte(`{"video_id":"` + uuid.NewString() + `"}`)})
	assert.Error(t, err)
}

func TestNewKafkaProducerClient_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaProducerClient(config.Config{}, logger.NewNop())
	assert.Error(t, err)
}
