package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/llatelier/storefront/pkg/logger"
)

// CartSession ties each browser to a cart via a long-lived cookie. A missing
// or unparsable cookie gets a fresh identifier so carts survive page reloads
// without any signup step.
func CartSession(cookieName string, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := ""
			if cookie, err := r.Cookie(cookieName); err == nil {
				if parsed, err := uuid.Parse(cookie.Value); err == nil {
					cartID = parsed.String()
				}
			}

			if cartID == "" {
				cartID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    cartID,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithCartID(r.Context(), cartID)
			if logg != nil {
				ctx = logg.WithCartID(ctx, cartID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
