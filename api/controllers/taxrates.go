package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ekomart/ekomart-backend/api/responses"
	"github.com/ekomart/ekomart-backend/api/validators"
	"github.com/ekomart/ekomart-backend/internal/taxrates"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/logger"
)

// AdminListTaxRates returns a page of configured tax rates.
func AdminListTaxRates(svc taxrates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tax rates service unavailable"))
			return
		}

		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AdminGetTaxRate returns one tax rate by id.
func AdminGetTaxRate(svc taxrates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tax rates service unavailable"))
			return
		}

		rateID, err := validators.ParsePathUUID(chi.URLParam(r, "taxRateId"), "taxRateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.Get(r.Context(), rateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rate)
	}
}

// AdminCreateTaxRate adds a tax rate.
func AdminCreateTaxRate(svc taxrates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tax rates service unavailable"))
			return
		}

		var body taxrates.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rate)
	}
}

// AdminUpdateTaxRate applies a partial tax rate update.
func AdminUpdateTaxRate(svc taxrates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tax rates service unavailable"))
			return
		}

		rateID, err := validators.ParsePathUUID(chi.URLParam(r, "taxRateId"), "taxRateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body taxrates.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rate, err := svc.Update(r.Context(), rateID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rate)
	}
}

// AdminDeleteTaxRate removes a tax rate.
func AdminDeleteTaxRate(svc taxrates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tax rates service unavailable"))
			return
		}

		rateID, err := validators.ParsePathUUID(chi.URLParam(r, "taxRateId"), "taxRateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), rateID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMessage(w, "tax rate deleted")
	}
}
