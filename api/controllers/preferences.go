package controllers

import (
	"context"
	"net/http"

	"github.com/llatelier/storefront/api/middleware"
	"github.com/llatelier/storefront/api/responses"
	"github.com/llatelier/storefront/api/validators"
	pkgerrors "github.com/llatelier/storefront/pkg/errors"
	"github.com/llatelier/storefront/pkg/logger"
)

type preferenceService interface {
	Language(ctx context.Context, cartID string) (string, error)
	SetLanguage(ctx context.Context, cartID, language string) error
}

type languageResponse struct {
	Language string `json:"language"`
}

type setLanguageRequest struct {
	Language string `json:"language" validate:"required,oneof=pt en"`
}

// GetLanguage returns the visitor's storefront language.
func GetLanguage(svc preferenceService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID := middleware.CartIDFromContext(r.Context())
		if cartID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}
		language, err := svc.Language(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, languageResponse{Language: language})
	}
}

// SetLanguage stores the visitor's language choice.
func SetLanguage(svc preferenceService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID := middleware.CartIDFromContext(r.Context())
		if cartID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing"))
			return
		}

		var body setLanguageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetLanguage(r.Context(), cartID, body.Language); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, languageResponse{Language: body.Language})
	}
}
