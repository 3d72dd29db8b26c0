package controllers

import (
	"context"
	"net/http"

	"github.com/llatelier/storefront/api/responses"
	"github.com/llatelier/storefront/api/validators"
	"github.com/llatelier/storefront/internal/shopapi"
	"github.com/llatelier/storefront/pkg/logger"
)

type contactSender interface {
	SendContact(ctx context.Context, req shopapi.ContactRequest) error
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// SendContact forwards a contact-form submission to the shop API.
func SendContact(sender contactSender, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body contactRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := sender.SendContact(r.Context(), shopapi.ContactRequest{
			Name:    body.Name,
			Email:   body.Email,
			Message: body.Message,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "sent"})
	}
}
