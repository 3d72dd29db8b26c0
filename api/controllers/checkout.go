package controllers

import (
	"net/http"

	"github.com/llatelier/storefront/api/responses"
	"github.com/llatelier/storefront/api/validators"
	"github.com/llatelier/storefront/internal/checkout"
	"github.com/llatelier/storefront/pkg/logger"
)

type beginCheckoutRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Email string `json:"email" validate:"required,email"`
}

type beginCheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// BeginCheckout submits the cart as an order and returns the hosted payment
// page the client should redirect to. The cart stays intact until the payment
// is confirmed.
func BeginCheckout(svc checkout.Service, carts CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body beginCheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := cartFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Begin(r.Context(), store, checkout.Customer{Name: body.Name, Email: body.Email})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, beginCheckoutResponse{
			SessionID: session.SessionID,
			URL:       session.URL,
		})
	}
}
