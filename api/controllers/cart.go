package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/blackboxinc/storefront-backend/api/middleware"
	"github.com/blackboxinc/storefront-backend/api/responses"
	"github.com/blackboxinc/storefront-backend/api/validators"
	cartsvc "github.com/blackboxinc/storefront-backend/internal/cart"
	pkgerrors "github.com/blackboxinc/storefront-backend/pkg/errors"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
)

const (
	maxNameLen  = 255
	maxLabelLen = 100
	maxImageLen = 2048
)

type addItemRequest struct {
	ProductID    int64           `json:"product_id" validate:"required,gt=0"`
	VariantID    int64           `json:"product_variant_id,omitempty"`
	SizeID       int64           `json:"product_variant_size_id,omitempty"`
	Name         string          `json:"name,omitempty"`
	Image        string          `json:"image,omitempty"`
	VariantLabel string          `json:"variant_label,omitempty"`
	SizeLabel    string          `json:"size_label,omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price,omitempty"`
}

type cartResponse struct {
	Lines      []cartsvc.Line  `json:"lines"`
	Open       bool            `json:"open"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func newCartResponse(state cartsvc.State) cartResponse {
	return cartResponse{
		Lines:      state.Lines,
		Open:       state.Open,
		TotalItems: state.TotalItems(),
		TotalPrice: state.TotalPrice(),
	}
}

// CartFetch returns the shopper's current cart.
func CartFetch(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(store.Current(r.Context(), shopperID)))
	}
}

// CartAddItem merges the selection into the cart, incrementing quantity when
// the same product-variant-size combination already exists.
func CartAddItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Display metadata is echoed back to every client holding this cart,
		// so free-text fields are trimmed and bounded before they persist.
		item := cartsvc.Item{
			ProductID:    payload.ProductID,
			VariantID:    payload.VariantID,
			SizeID:       payload.SizeID,
			Name:         validators.SanitizeString(payload.Name, maxNameLen),
			Image:        validators.SanitizeString(payload.Image, maxImageLen),
			VariantLabel: validators.SanitizeString(payload.VariantLabel, maxLabelLen),
			SizeLabel:    validators.SanitizeString(payload.SizeLabel, maxLabelLen),
			UnitPrice:    payload.UnitPrice,
		}

		state := store.AddItem(r.Context(), shopperID, item, payload.VariantID)
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(state))
	}
}

// CartRemoveItem deletes the line with the given composite id. Removing an
// absent line is a no-op, not an error.
func CartRemoveItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state := store.RemoveItem(r.Context(), shopperID, chi.URLParam(r, "cartId"))
		responses.WriteSuccess(w, newCartResponse(state))
	}
}

// CartIncreaseItem bumps the quantity of one line.
func CartIncreaseItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state := store.IncreaseItemQuantity(r.Context(), shopperID, chi.URLParam(r, "cartId"))
		responses.WriteSuccess(w, newCartResponse(state))
	}
}

// CartDecreaseItem lowers the quantity of one line, removing it entirely at
// quantity one.
func CartDecreaseItem(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state := store.DecreaseItemQuantity(r.Context(), shopperID, chi.URLParam(r, "cartId"))
		responses.WriteSuccess(w, newCartResponse(state))
	}
}

// CartClear empties the cart unconditionally.
func CartClear(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state := store.ClearCart(r.Context(), shopperID)
		responses.WriteSuccess(w, newCartResponse(state))
	}
}

// CartToggle flips the drawer visibility flag.
func CartToggle(store *cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		state := store.Toggle(r.Context(), shopperID)
		responses.WriteSuccess(w, newCartResponse(state))
	}
}

func shopperID(r *http.Request) (string, error) {
	id := middleware.ShopperIDFromContext(r.Context())
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "shopper identity missing from request context")
	}
	return id, nil
}
