package media

import (
	"errors"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel"

	"github.com/khoahotran/cloudinary-studio/internal/domain/transform"
	"github.com/khoahotran/cloudinary-studio/pkg/apperror"
)

var tracer = otel.Tracer("media_usecase")

// Policy holds the limits every media use case enforces.
type Policy struct {
	DeliveryHost  string
	MaxImageBytes int64
	MaxVideoBytes int64
}

func (p Policy) maxBytes(rt transform.ResourceType) int64 {
	if rt == transform.ResourceVideo {
		return p.MaxVideoBytes
	}
	return p.MaxImageBytes
}

func (p Policy) checkSize(size int64, rt transform.ResourceType) error {
	limit := p.maxBytes(rt)
	if size == 0 {
		return apperror.NewInvalidInput("No file uploaded", nil)
	}
	if limit > 0 && size > limit {
		return apperror.NewInvalidInput(fmt.Sprintf("File too large, the limit is %d MB", limit>>20), nil)
	}
	return nil
}

// checkURL refuses anything but an https URL on the delivery host before it
// is handed to a caller.
func (p Policy) checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return apperror.NewInternal("media service returned an unparsable URL", err)
	}
	if u.Scheme != "https" {
		return apperror.NewInternal(fmt.Sprintf("media service returned a non-https URL %q", raw), nil)
	}
	if p.DeliveryHost != "" && u.Hostname() != p.DeliveryHost {
		return apperror.NewInternal(fmt.Sprintf("media service returned a URL on unexpected host %q", u.Host), nil)
	}
	return nil
}

func invalidDescriptor(err error) error {
	if errors.Is(err, transform.ErrInvalidDescriptor) {
		return apperror.NewInvalidInput(err.Error(), err)
	}
	return err
}
