package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumakara/studio-backend/api/middleware"
	"github.com/lumakara/studio-backend/api/responses"
	"github.com/lumakara/studio-backend/api/validators"
	preferencesvc "github.com/lumakara/studio-backend/internal/preferences"
	settingsvc "github.com/lumakara/studio-backend/internal/settings"
	pkgerrors "github.com/lumakara/studio-backend/pkg/errors"
	"github.com/lumakara/studio-backend/pkg/logger"
)

func AdminGetSettings(svc settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		setting, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, setting)
	}
}

func AdminUpdateSettings(svc settingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable"))
			return
		}
		var payload settingsvc.UpdateInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setting, err := svc.Update(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, setting)
	}
}

// AdminGetPreference reads one per-admin UI preference.
func AdminGetPreference(svc preferencesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preference service unavailable"))
			return
		}
		adminID := middleware.AdminIDFromContext(r.Context())
		if adminID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin context missing"))
			return
		}
		value, found, err := svc.Get(r.Context(), adminID, chi.URLParam(r, "key"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "preference not set"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"key": chi.URLParam(r, "key"), "value": value})
	}
}

type setPreferenceRequest struct {
	Value string `json:"value" validate:"required,max=512"`
}

// AdminSetPreference writes one per-admin UI preference; repeats are no-ops.
func AdminSetPreference(svc preferencesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "preference service unavailable"))
			return
		}
		adminID := middleware.AdminIDFromContext(r.Context())
		if adminID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "admin context missing"))
			return
		}
		var payload setPreferenceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Set(r.Context(), adminID, chi.URLParam(r, "key"), payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "saved"})
	}
}
