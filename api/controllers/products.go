package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/llatelier/storefront/api/responses"
	"github.com/llatelier/storefront/internal/shopapi"
	pkgerrors "github.com/llatelier/storefront/pkg/errors"
	"github.com/llatelier/storefront/pkg/logger"
)

type catalogService interface {
	List(ctx context.Context, category string) ([]shopapi.Product, error)
	Get(ctx context.Context, id string) (*shopapi.Product, error)
}

// ListProducts serves the catalog, optionally filtered by ?category=.
func ListProducts(catalog catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := catalog.List(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if items == nil {
			items = []shopapi.Product{}
		}
		responses.WriteSuccess(w, items)
	}
}

// GetProduct serves a single catalog entry.
func GetProduct(catalog catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id required"))
			return
		}
		product, err := catalog.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
