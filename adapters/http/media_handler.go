package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	mediaUC "github.com/khoahotran/cloudinary-studio/internal/application/usecase/media"
	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

type MediaHandler struct {
	uploadUC      *mediaUC.UploadAssetUseCase
	bgRemovalUC   *mediaUC.RemoveBackgroundUseCase
	watermarkUC   *mediaUC.WatermarkUseCase
	formatUC      *mediaUC.ConvertFormatUseCase
	filterUC      *mediaUC.ApplyFilterUseCase
	trimUC        *mediaUC.TrimVideoUseCase
	socialUC      *mediaUC.SocialCropUseCase
	maxImageBytes int64
	logger        logger.Logger
}

func NewMediaHandler(
	uploadUC *mediaUC.UploadAssetUseCase,
	bgRemovalUC *mediaUC.RemoveBackgroundUseCase,
	watermarkUC *mediaUC.WatermarkUseCase,
	formatUC *mediaUC.ConvertFormatUseCase,
	filterUC *mediaUC.ApplyFilterUseCase,
	trimUC *mediaUC.TrimVideoUseCase,
	socialUC *mediaUC.SocialCropUseCase,
	maxImageBytes int64,
	log logger.Logger,
) *MediaHandler {
	return &MediaHandler{
		uploadUC:      uploadUC,
		bgRemovalUC:   bgRemovalUC,
		watermarkUC:   watermarkUC,
		formatUC:      formatUC,
		filterUC:      filterUC,
		trimUC:        trimUC,
		socialUC:      socialUC,
		maxImageBytes: maxImageBytes,
		logger:        log,
	}
}

func (h *MediaHandler) UploadImage(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}
	file, err := readUpload(c, uploadImage, h.maxImageBytes)
	if err != nil {
		c.Error(err)
		return
	}

	out, err := h.uploadUC.Execute(c.Request.Context(), mediaUC.UploadAssetInput{UserID: userID, File: file})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MediaHandler) RemoveBackground(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}
	file, err := readUpload(c, uploadImage, h.maxImageBytes)
	if err != nil {
		c.Error(err)
		return
	}

	transparent, _ := strconv.ParseBool(c.PostForm("isTransparent"))
	out, err := h.bgRemovalUC.Execute(c.Request.Context(), mediaUC.RemoveBackgroundInput{
		UserID: userID,
		File:   file,
		Background: transform.BackgroundParams{
			Transparent: transparent,
			Color:       c.PostForm("bgColor"),
			Image:       c.PostForm("bgImage"),
		},
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MediaHandler) Watermark(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}
	file, err := readUpload(c, uploadImage, h.maxImageBytes)
	if err != nil {
		c.Error(err)
		return
	}

	var fontSize int
	if raw := strings.TrimSpace(c.PostForm("fontSize")); raw != "" {
		fontSize, err = strconv.Atoi(raw)
		if err != nil {
			c.Error(apperror.NewInvalidInput("fontSize must be a whole number", err))
			return
		}
	}

	out, err := h.watermarkUC.Execute(c.Request.Context(), mediaUC.WatermarkInput{
		UserID: userID,
		File:   file,
		Watermark: transform.WatermarkParams{
			Type:     c.PostForm("type"),
			Text:     c.PostForm("text"),
			LogoID:   c.PostForm("logoId"),
			Color:    c.PostForm("color"),
			FontSize: fontSize,
			Position: c.PostForm("position"),
		},
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MediaHandler) ConvertFormat(c *gin.Context) {
	var req FormatConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	out, err := h.formatUC.Execute(c.Request.Context(), mediaUC.ConvertFormatInput{
		PublicID:     req.PublicID,
		ResourceType: req.ResourceType,
		TargetFormat: req.TargetFormat,
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MediaHandler) ApplyFilter(c *gin.Context) {
	var req ImageFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	out, err := h.filterUC.Execute(c.Request.Context(), mediaUC.ApplyFilterInput{PublicID: req.PublicID, Effect: req.Effect})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MediaHandler) TrimVideo(c *gin.Context) {
	var req VideoTrimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	out, err := h.trimUC.Execute(c.Request.Context(), mediaUC.TrimVideoInput{
		PublicID: req.PublicID,
		Trim: transform.TrimParams{
			Start:  req.Start,
			End:    req.End,
			Width:  req.Width,
			Height: req.Height,
			Aspect: req.Aspect,
		},
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *MediaHandler) SocialCrop(c *gin.Context) {
	var req SocialCropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}
	out, err := h.socialUC.Execute(c.Request.Context(), mediaUC.SocialCropInput{PublicID: req.PublicID, Preset: req.Preset})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, out)
}
