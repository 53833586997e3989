package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ekomart/ekomart-backend/api/middleware"
	"github.com/ekomart/ekomart-backend/api/responses"
	"github.com/ekomart/ekomart-backend/api/validators"
	"github.com/ekomart/ekomart-backend/internal/categories"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/logger"
)

// ListCategories returns the active category tree in sort order.
func ListCategories(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		items, err := svc.PublicList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

// AdminListCategories returns every category including inactive ones.
func AdminListCategories(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
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

// AdminCreateCategory adds a category.
func AdminCreateCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		var body categories.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// AdminUpdateCategory applies a partial category update.
func AdminUpdateCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body categories.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.Update(r.Context(), middleware.UserIDFromContext(r.Context()), categoryID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, category)
	}
}

// AdminDeleteCategory removes an empty category.
func AdminDeleteCategory(svc categories.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "categories service unavailable"))
			return
		}

		categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryId"), "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), middleware.UserIDFromContext(r.Context()), categoryID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "category deleted")
	}
}
