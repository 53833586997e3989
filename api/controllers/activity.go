package controllers

import (
	"net/http"
	"strings"

	"github.com/ekomart/ekomart-backend/api/responses"
	"github.com/ekomart/ekomart-backend/api/validators"
	"github.com/ekomart/ekomart-backend/internal/activity"
	"github.com/ekomart/ekomart-backend/pkg/enums"
	pkgerrors "github.com/ekomart/ekomart-backend/pkg/errors"
	"github.com/ekomart/ekomart-backend/pkg/logger"
)

// AdminListActivityLogs returns the audit trail, newest first.
func AdminListActivityLogs(svc activity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activity service unavailable"))
			return
		}

		params, err := validators.ParsePageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters activity.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("action")); raw != "" {
			action, err := enums.ParseActivityAction(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action filter"))
				return
			}
			filters.Action = &action
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("entity")); raw != "" {
			entity, err := enums.ParseActivityEntity(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid entity filter"))
				return
			}
			filters.Entity = &entity
		}

		result, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
