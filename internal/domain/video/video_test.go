package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVisibility(t *testing.T) {
	v, err := ParseVisibility("public")
	require.NoError(t, err)
	assert.Equal(t, VisibilityPublic, v)

	v, err = ParseVisibility(" Private ")
	require.NoError(t, err)
	assert.Equal(t, VisibilityPrivate, v)

	_, err = ParseVisibility("unlisted")
	assert.ErrorIs(t, err, ErrInvalidVisibility)
}

func TestNew_DefaultsToPrivate(t *testing.T) {
	v, err := New("user_1", "  Holiday  ", nil, "video-uploads/abc", 1000, 400, 12.5)
	require.NoError(t, err)

	assert.Equal(t, VisibilityPrivate, v.Visibility)
	assert.Equal(t, "Holiday", v.Title)
	assert.Equal(t, "user_1", v.UserID)
	assert.True(t, v.IsOwnedBy("user_1"))
	assert.False(t, v.IsOwnedBy("user_2"))
	assert.False(t, v.IsOwnedBy(""))
}

func TestNew_Validation(t *testing.T) {
	_, err := New("", "t", nil, "p", 0, 0, 0)
	assert.ErrorIs(t, err, ErrOwnerRequired)

	_, err = New("u", "   ", nil, "p", 0, 0, 0)
	assert.ErrorIs(t, err, ErrTitleRequired)

	_, err = New("u", "t", nil, "", 0, 0, 0)
	assert.ErrorIs(t, err, ErrPublicIDRequired)
}

func TestCompressionPercent(t *testing.T) {
	assert.Equal(t, 60, (&Video{OriginalSize: 1000, CompressedSize: 400}).CompressionPercent())
	assert.Equal(t, 0, (&Video{OriginalSize: 0, CompressedSize: 400}).CompressionPercent())
	assert.Equal(t, 0, (&Video{OriginalSize: 100, CompressedSize: 400}).CompressionPercent())
}
