package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ekomart/ekomart-backend/api/middleware"
	"github.com/ekomart/ekomart-backend/api/responses"
	"github.com/ekomart/ekomart-backend/api/validators"
	"github.com/ekomart/ekomart-backend/internal/banners"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/logger"
)

// ListBanners returns banners currently inside their display window.
func ListBanners(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banners service unavailable"))
			return
		}

		var position *enums.BannerPosition
		if raw := strings.TrimSpace(r.URL.Query().Get("position")); raw != "" {
			parsed, err := enums.ParseBannerPosition(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid banner position"))
				return
			}
			position = &parsed
		}

		items, err := svc.PublicList(r.Context(), position)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// BannerClick records a click against a banner.
func BannerClick(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banners service unavailable"))
			return
		}

		bannerID, err := validators.ParsePathUUID(chi.URLParam(r, "bannerId"), "bannerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Click(r.Context(), bannerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "click recorded")
	}
}

// AdminListBanners returns every banner regardless of window or active flag.
func AdminListBanners(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banners service unavailable"))
			return
		}

		items, err := svc.AdminList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// AdminCreateBanner adds a banner.
func AdminCreateBanner(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banners service unavailable"))
			return
		}

		var body banners.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, banner)
	}
}

// AdminUpdateBanner applies a partial banner update.
func AdminUpdateBanner(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banners service unavailable"))
			return
		}

		bannerID, err := validators.ParsePathUUID(chi.URLParam(r, "bannerId"), "bannerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body banners.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		banner, err := svc.Update(r.Context(), middleware.UserIDFromContext(r.Context()), bannerID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banner)
	}
}

// AdminDeleteBanner removes a banner.
func AdminDeleteBanner(svc banners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "banners service unavailable"))
			return
		}

		bannerID, err := validators.ParsePathUUID(chi.URLParam(r, "bannerId"), "bannerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), bannerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "banner deleted")
	}
}
