package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/khoahotran/cloudinary-studio/internal/application/service"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
)

type uploadKind string

const (
	uploadImage uploadKind = "image"
	uploadVideo uploadKind = "video"
)

const (
	fileField = "file"
	// formOverhead leaves room for the other multipart fields and boundaries.
	formOverhead = 1 << 20
)

func tooLarge(limit int64) *apperror.AppError {
	return apperror.NewInvalidInput(fmt.Sprintf("File too large, the limit is %d MB", limit>>20), nil)
}

// readUpload buffers the multipart file field into memory. The body is
// capped before parsing, so an oversized upload is refused without being
// read in full and without any upstream call.
func readUpload(c *gin.Context, kind uploadKind, limit int64) (service.UploadedAsset, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+formOverhead)

	fileHeader, err := c.FormFile(fileField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return service.UploadedAsset{}, tooLarge(limit)
		}
		return service.UploadedAsset{}, apperror.NewInvalidInput("No file uploaded", err)
	}
	if fileHeader.Size > limit {
		return service.UploadedAsset{}, tooLarge(limit)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return service.UploadedAsset{}, apperror.NewInternal("failed to open uploaded file", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return service.UploadedAsset{}, apperror.NewInternal("failed to read uploaded file", err)
	}
	if int64(len(data)) > limit {
		return service.UploadedAsset{}, tooLarge(limit)
	}
	if len(data) == 0 {
		return service.UploadedAsset{}, apperror.NewInvalidInput("No file uploaded", nil)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), string(kind)+"/") {
		return service.UploadedAsset{}, apperror.NewInvalidInput(
			fmt.Sprintf("Unsupported file type %s, expected an %s", mt.String(), kind), nil)
	}

	return service.UploadedAsset{
		Filename:    fileHeader.Filename,
		ContentType: mt.String(),
		Data:        data,
	}, nil
}
