package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/llatelier/storefront/api/middleware"
	"github.com/llatelier/storefront/api/responses"
	"github.com/llatelier/storefront/api/validators"
	"github.com/llatelier/storefront/internal/cart"
	"github.com/llatelier/storefront/internal/shopapi"
	pkgerrors "github.com/llatelier/storefront/pkg/errors"
	"github.com/llatelier/storefront/pkg/logger"
)

// CartFactory hydrates the cart bound to a client session id.
type CartFactory func(ctx context.Context, cartID string) (*cart.Store, error)

type productGetter interface {
	Get(ctx context.Context, id string) (*shopapi.Product, error)
}

type cartResponse struct {
	Items     []cart.LineItem `json:"items"`
	Total     string          `json:"total"`
	ItemCount int             `json:"item_count"`
}

func newCartResponse(store *cart.Store) cartResponse {
	return cartResponse{
		Items:     store.Items(),
		Total:     store.Total().StringFixed(2),
		ItemCount: store.ItemCount(),
	}
}

func cartFromRequest(r *http.Request, carts CartFactory) (*cart.Store, error) {
	cartID := middleware.CartIDFromContext(r.Context())
	if cartID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart session missing")
	}
	return carts(r.Context(), cartID)
}

// GetCart returns the session's cart with derived totals.
func GetCart(carts CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

type addItemRequest struct {
	ProductID string  `json:"product_id" validate:"required"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
}

// AddCartItem resolves the product from the catalog and adds one unit of the
// chosen variant. Prices and titles come from the catalog, never from the
// request body.
func AddCartItem(carts CartFactory, catalog productGetter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.Get(r.Context(), body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := cartFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var variant *cart.Variant
		if body.Size != nil || body.Color != nil {
			variant = &cart.Variant{}
			if body.Size != nil {
				variant.Size = *body.Size
			}
			if body.Color != nil {
				variant.Color = *body.Color
			}
		}

		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		snapshot := cart.ProductSnapshot{
			ID:        product.ID,
			Title:     product.TitlePT,
			UnitPrice: product.Price,
			Image:     image,
		}

		if _, err := store.AddItem(r.Context(), snapshot, variant); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(store))
	}
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// UpdateCartItem sets an item's quantity. Zero and below remove the line.
func UpdateCartItem(carts CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "itemID")
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := cartFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.UpdateQuantity(r.Context(), itemID, *body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// RemoveCartItem drops a line from the cart. Removing an absent item is a
// no-op success.
func RemoveCartItem(carts CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "itemID")
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
			return
		}

		store, err := cartFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.RemoveItem(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store))
	}
}

// ClearCart empties the cart.
func ClearCart(carts CartFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := cartFromRequest(r, carts)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store))
	}
}
