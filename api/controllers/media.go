package controllers

import (
	"net/http"
	"strings"

	"github.com/vitrinelabs/vitrine-backend/api/responses"
	"github.com/vitrinelabs/vitrine-backend/internal/media"
	"github.com/vitrinelabs/vitrine-backend/pkg/config"
	pkgerrors "github.com/vitrinelabs/vitrine-backend/pkg/errors"
	"github.com/vitrinelabs/vitrine-backend/pkg/logger"
)

// AdminUploadProductImages accepts a multipart batch under the "images" field
// and returns the stored public URLs.
func AdminUploadProductImages(svc media.Service, cfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		// One extra MB of headroom for the multipart framing.
		maxMemory := int64(cfg.MaxUploadMB+1) << 20
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		headers := r.MultipartForm.File["images"]
		uploads := make([]media.Upload, 0, len(headers))
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable file").
						WithDetails(map[string]any{"file": header.Filename}))
				return
			}
			defer file.Close()

			uploads = append(uploads, media.Upload{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			})
		}

		urls, err := svc.UploadProductImages(r.Context(), uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"urls": urls})
	}
}

// AdminDeleteProductImage removes a stored product image by its public URL,
// passed as the url query parameter.
func AdminDeleteProductImage(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		imageURL := strings.TrimSpace(r.URL.Query().Get("url"))
		if imageURL == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "url query parameter is required"))
			return
		}

		if err := svc.RemoveProductImage(r.Context(), imageURL); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"status": "deleted"})
	}
}
