package controllers

import (
	"net/http"

	"github.com/llatelier/storefront/api/responses"
	"github.com/llatelier/storefront/internal/checkout"
	"github.com/llatelier/storefront/internal/confirm"
	"github.com/llatelier/storefront/pkg/logger"
)

type confirmationResponse struct {
	State    string             `json:"state"`
	Attempts int                `json:"attempts"`
	Order    *confirmationOrder `json:"order,omitempty"`
}

type confirmationOrder struct {
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	AmountTotal   int64  `json:"amount_total"`
}

// CheckoutConfirmation polls the payment provider until the session settles
// or the attempt budget runs out. Landing here without a session id sends the
// client back to the cart page.
func CheckoutConfirmation(svc checkout.Service, carts CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			http.Redirect(w, r, "/cart", http.StatusSeeOther)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithSessionID(ctx, sessionID)
		}

		store, err := cartFromRequest(r, carts)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Confirm(ctx, sessionID, store)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		payload := confirmationResponse{
			State:    string(result.State),
			Attempts: result.Attempts,
		}
		if result.State == confirm.StateConfirmed && result.Status != nil {
			payload.Order = &confirmationOrder{
				CustomerName:  result.Status.Metadata.CustomerName,
				CustomerEmail: result.Status.Metadata.CustomerEmail,
				AmountTotal:   result.Status.AmountTotal,
			}
		}
		responses.WriteSuccess(w, payload)
	}
}
