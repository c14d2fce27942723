// Package transport is the HTTP JSON API on top of the domain services.
package transport

import (
	"net/http"

	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/identity"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"
)

// OwnerResolver maps a request to the cart owner key.
type OwnerResolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (identity.OwnerKey, error)
	Peek(r *http.Request) (identity.OwnerKey, bool)
}

type Handler struct {
	Users      user.Service
	Categories category.Service
	Products   product.Service
	Carts      cart.Service
	Orders     order.Service
	Owners     OwnerResolver
	Metrics    *metrics.Metrics

	// SecureCookies marks the access token cookie Secure.
	SecureCookies bool
}
