package controllers

import (
	"net/http"

	"github.com/ekomart/ekomart-backend/api/responses"
	"github.com/ekomart/ekomart-backend/internal/uploads"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/logger"
)

// Upload stores a sniffed image file and returns its public URL.
func Upload(svc uploads.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "uploads service unavailable"))
			return
		}

		// Multipart framing adds overhead on top of the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, svc.MaxBytes()+1<<20)

		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field is required"))
			return
		}
		defer file.Close()

		result, err := svc.Save(r.Context(), header.Filename, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
