package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/llatelier/storefront/api/controllers"
	"github.com/llatelier/storefront/api/middleware"
	checkoutsvc "github.com/llatelier/storefront/internal/checkout"
	"github.com/llatelier/storefront/internal/prefs"
	"github.com/llatelier/storefront/internal/products"
	"github.com/llatelier/storefront/internal/shopapi"
	"github.com/llatelier/storefront/pkg/config"
	"github.com/llatelier/storefront/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	carts controllers.CartFactory,
	catalogService *products.Service,
	checkoutService checkoutsvc.Service,
	prefsService *prefs.Service,
	shopClient *shopapi.Client,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.OriginURL),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisP,
			"shop api": shopClient,
		}))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Cart.CookieName, cfg.Cart.SnapshotTTL, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(catalogService, logg))
			r.Get("/{id}", controllers.GetProduct(catalogService, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(carts, logg))
			r.Delete("/", controllers.ClearCart(carts, logg))
			r.Post("/items", controllers.AddCartItem(carts, catalogService, logg))
			r.Patch("/items/{itemID}", controllers.UpdateCartItem(carts, logg))
			r.Delete("/items/{itemID}", controllers.RemoveCartItem(carts, logg))
		})

		r.Post("/checkout", controllers.BeginCheckout(checkoutService, carts, logg))
		r.Get("/checkout/confirmation", controllers.CheckoutConfirmation(checkoutService, carts, logg))

		r.Post("/contact", controllers.SendContact(shopClient, logg))

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/language", controllers.GetLanguage(prefsService, logg))
			r.Put("/language", controllers.SetLanguage(prefsService, logg))
		})
	})

	return r
}
