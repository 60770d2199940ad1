package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	videoUC "github.com/khoahotran/cloudinary-studio/internal/application/usecase/video"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

type VideoHandler struct {
	uploadUC        *videoUC.UploadVideoUseCase
	createUC        *videoUC.CreateVideoUseCase
	listUC          *videoUC.ListVideosUseCase
	setVisibilityUC *videoUC.SetVisibilityUseCase
	deleteUC        *videoUC.DeleteVideoUseCase
	feedUC          *videoUC.PublicFeedUseCase
	maxVideoBytes   int64
	logger          logger.Logger
}

func NewVideoHandler(
	uploadUC *videoUC.UploadVideoUseCase,
	createUC *videoUC.CreateVideoUseCase,
	listUC *videoUC.ListVideosUseCase,
	setVisibilityUC *videoUC.SetVisibilityUseCase,
	deleteUC *videoUC.DeleteVideoUseCase,
	feedUC *videoUC.PublicFeedUseCase,
	maxVideoBytes int64,
	log logger.Logger,
) *VideoHandler {
	return &VideoHandler{
		uploadUC:        uploadUC,
		createUC:        createUC,
		listUC:          listUC,
		setVisibilityUC: setVisibilityUC,
		deleteUC:        deleteUC,
		feedUC:          feedUC,
		maxVideoBytes:   maxVideoBytes,
		logger:          log,
	}
}

func (h *VideoHandler) UploadVideo(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}
	file, err := readUpload(c, uploadVideo, h.maxVideoBytes)
	if err != nil {
		c.Error(err)
		return
	}

	var originalSize int64
	if raw := c.PostForm("originalSize"); raw != "" {
		originalSize, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || originalSize < 0 {
			c.Error(apperror.NewInvalidInput("originalSize must be a non-negative number", err))
			return
		}
	}

	v, err := h.uploadUC.Execute(c.Request.Context(), videoUC.UploadVideoInput{
		UserID:       userID,
		Title:        c.PostForm("title"),
		Description:  c.PostForm("description"),
		OriginalSize: originalSize,
		File:         file,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *VideoHandler) CreateVideo(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}
	var req CreateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	v, err := h.createUC.Execute(c.Request.Context(), videoUC.CreateVideoInput{
		UserID:         userID,
		Title:          req.Title,
		Description:    req.Description,
		PublicID:       req.PublicID,
		OriginalSize:   req.OriginalSize,
		CompressedSize: req.CompressedSize,
		Duration:       req.Duration,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *VideoHandler) ListVideos(c *gin.Context) {
	userID, _ := GetUserIDFromGinContext(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	videos, err := h.listUC.Execute(c.Request.Context(), videoUC.ListVideosInput{
		ViewerID: userID,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) SetVisibility(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}
	var req UpdateVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("visibility must be 'private' or 'public'", err))
		return
	}

	v, err := h.setVisibilityUC.Execute(c.Request.Context(), videoUC.SetVisibilityInput{
		UserID:     userID,
		VideoID:    videoID,
		Visibility: req.Visibility,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}
	videoID, ok := parseVideoID(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), videoUC.DeleteVideoInput{UserID: userID, VideoID: videoID}); err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *VideoHandler) Feed(c *gin.Context) {
	feed, err := h.feedUC.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	if err := feed.WriteRss(c.Writer); err != nil {
		h.logger.Error("Failed to write RSS feed to response", err)
	}
}

// parseVideoID answers a malformed id the same way as an unknown one.
func parseVideoID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Error(apperror.NewNotFoundOrForbidden("Video", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}
