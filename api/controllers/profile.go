package controllers

import (
	"io"
	"net/http"

	"github.com/AliCapone21/nonkabob-guliston/api/responses"
	"github.com/AliCapone21/nonkabob-guliston/api/validators"
	"github.com/AliCapone21/nonkabob-guliston/internal/telegram"
	"github.com/AliCapone21/nonkabob-guliston/internal/users"
	pkgerrors "github.com/AliCapone21/nonkabob-guliston/pkg/errors"
	"github.com/AliCapone21/nonkabob-guliston/pkg/logger"
)

// GetProfile reports the completeness gate plus the stored profile, if
// any. Guests get complete=false with no profile rather than an error
// so the frontend can render the onboarding screen.
func GetProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := telegram.IdentityFromContext(r.Context())

		complete, profile, err := svc.CheckComplete(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"complete": complete,
			"profile":  profile,
		})
	}
}

type saveProfileRequest struct {
	FullName    string   `json:"full_name" validate:"required"`
	PhoneNumber string   `json:"phone_number" validate:"required"`
	AddressText string   `json:"address_text"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

// SaveProfile upserts the caller's delivery profile.
func SaveProfile(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := telegram.IdentityFromContext(r.Context())
		if !identity.HasUser() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body saveProfileRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Save(r.Context(), users.SaveProfileDTO{
			TelegramID:  identity.UserID,
			FullName:    body.FullName,
			PhoneNumber: body.PhoneNumber,
			AddressText: body.AddressText,
			Latitude:    body.Latitude,
			Longitude:   body.Longitude,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// ShareContact ingests the Mini App contact-request callback. A shared
// number is normalized and merged into the caller's profile; declines
// and unsupported clients are acknowledged without touching storage.
func ShareContact(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := telegram.IdentityFromContext(r.Context())

		body, err := io.ReadAll(r.Body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read contact callback"))
			return
		}

		result, err := telegram.ParseContactCallback(body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid contact callback"))
			return
		}

		if result.Outcome == telegram.ContactAcceptedWithNumber && identity.HasUser() && users.IsCompletePhone(result.Phone) {
			if existing, err := svc.Get(r.Context(), identity.UserID); err == nil && existing != nil {
				_, err := svc.Save(r.Context(), users.SaveProfileDTO{
					TelegramID:  existing.TelegramID,
					FullName:    existing.FullName,
					PhoneNumber: result.Phone,
					AddressText: existing.AddressText,
					Latitude:    existing.Latitude,
					Longitude:   existing.Longitude,
				})
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
			}
		}

		responses.WriteSuccess(w, result)
	}
}
