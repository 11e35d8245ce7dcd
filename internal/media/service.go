package media

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

var allowedImageMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var fileNameSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Upload is one incoming multipart file.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type objectStorage interface {
	UploadObject(ctx context.Context, objectName, contentType string, body io.Reader) (string, error)
	DeleteObject(ctx context.Context, objectName string) error
	DefaultBucket() string
}

// Service stores product images and returns their public URLs.
type Service interface {
	UploadProductImages(ctx context.Context, uploads []Upload) ([]string, error)
	RemoveProductImage(ctx context.Context, imageURL string) error
}

type service struct {
	storage objectStorage
	cfg     config.MediaConfig
	logg    *logger.Logger
}

// NewService wires the media service over the object storage client.
func NewService(storage objectStorage, cfg config.MediaConfig, logg *logger.Logger) (Service, error) {
	if storage == nil {
		return nil, fmt.Errorf("object storage client required")
	}
	if cfg.MaxImagesPerBatch < 1 {
		cfg.MaxImagesPerBatch = 4
	}
	if cfg.MaxUploadMB < 1 {
		cfg.MaxUploadMB = 10
	}
	return &service{storage: storage, cfg: cfg, logg: logg}, nil
}

// UploadProductImages validates the batch, then uploads every file. Upload
// failures are aggregated so one bad file reports alongside the others.
func (s *service) UploadProductImages(ctx context.Context, uploads []Upload) ([]string, error) {
	if len(uploads) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no files provided")
	}
	if len(uploads) > s.cfg.MaxImagesPerBatch {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many files").
			WithDetails(map[string]any{"max": s.cfg.MaxImagesPerBatch})
	}

	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	for _, upload := range uploads {
		if upload.Size > maxBytes {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "file too large").
				WithDetails(map[string]any{"file": upload.Filename, "max_mb": s.cfg.MaxUploadMB})
		}
		if !allowedImageMimes[upload.ContentType] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").
				WithDetails(map[string]any{"file": upload.Filename, "content_type": upload.ContentType})
		}
	}

	var uploadErr error
	urls := make([]string, 0, len(uploads))
	for _, upload := range uploads {
		objectName := fmt.Sprintf("products/%s-%s", uuid.NewString(), sanitizeFileName(upload.Filename))
		url, err := s.storage.UploadObject(ctx, objectName, upload.ContentType, upload.Body)
		if err != nil {
			uploadErr = multierr.Append(uploadErr, fmt.Errorf("upload %s: %w", upload.Filename, err))
			continue
		}
		urls = append(urls, url)
	}
	if uploadErr != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "product image upload failed", uploadErr)
		}
		return urls, pkgerrors.Wrap(pkgerrors.CodeDependency, uploadErr, "upload images")
	}
	return urls, nil
}

// RemoveProductImage deletes a previously uploaded image by its public URL.
// Only objects under products/ in our bucket are deletable through this path.
func (s *service) RemoveProductImage(ctx context.Context, imageURL string) error {
	objectName, err := s.objectNameFromURL(imageURL)
	if err != nil {
		return err
	}
	if err := s.storage.DeleteObject(ctx, objectName); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "object", objectName), "product image delete failed", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete image")
	}
	return nil
}

func (s *service) objectNameFromURL(imageURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || parsed.Host == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid image url")
	}

	parts := strings.SplitN(strings.TrimPrefix(parsed.Path, "/"), "/", 2)
	if len(parts) != 2 || parts[0] != s.storage.DefaultBucket() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image url is outside the media bucket")
	}
	objectName := parts[1]
	if !strings.HasPrefix(objectName, "products/") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "not a product image")
	}
	return objectName, nil
}

func sanitizeFileName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = fileNameSanitizeRe.ReplaceAllString(base, "_")
	if base == "" || base == "." {
		return "file"
	}
	return base
}
