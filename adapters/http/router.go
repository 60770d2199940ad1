package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/cloudinary-studio/pkg/auth"
	"github.com/khoahotran/cloudinary-studio/pkg/logger"
)

type Handlers struct {
	Media *MediaHandler
	Video *VideoHandler
}

func NewRouter(h Handlers, jwtSvc *auth.JWTService, limiter RateLimiter, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = multipartMemory(h)
	router.Use(RequestLogger(log), TracingMiddleware(), gin.Recovery(), ErrorMiddleware(log))

	authMiddleware := AuthMiddleware(jwtSvc, log)
	optionalAuth := OptionalAuthMiddleware(jwtSvc, log)
	rateLimit := RateLimitMiddleware(limiter, log)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })
		api.GET("/videos", optionalAuth, h.Video.ListVideos)
		api.GET("/videos/feed.rss", h.Video.Feed)

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			tools := private.Group("/")
			tools.Use(rateLimit)
			{
				tools.POST("/upload", h.Media.UploadImage)
				tools.POST("/image-upload", h.Media.UploadImage)
				tools.POST("/bg-removal", h.Media.RemoveBackground)
				tools.POST("/watermark", h.Media.Watermark)
				tools.POST("/format-convert", h.Media.ConvertFormat)
				tools.POST("/image-filters", h.Media.ApplyFilter)
				tools.POST("/video-trim", h.Media.TrimVideo)
				tools.POST("/social-crop", h.Media.SocialCrop)
				tools.POST("/video-upload", h.Video.UploadVideo)
			}

			private.POST("/videos", h.Video.CreateVideo)
			private.PATCH("/videos/:id", h.Video.SetVisibility)
			private.PATCH("/videos/:id/visibility", h.Video.SetVisibility)
			private.DELETE("/videos/:id", h.Video.DeleteVideo)
		}
	}

	return router
}

// multipartMemory sizes the form parser so an accepted upload never spills
// to a temp file. readUpload caps the body at the same size.
func multipartMemory(h Handlers) int64 {
	limit := h.Video.maxVideoBytes
	if h.Media.maxImageBytes > limit {
		limit = h.Media.maxImageBytes
	}
	return limit + formOverhead
}
