package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/blackboxinc/storefront-backend/api/middleware"
	"github.com/blackboxinc/storefront-backend/api/responses"
	"github.com/blackboxinc/storefront-backend/api/validators"
	checkoutsvc "github.com/blackboxinc/storefront-backend/internal/checkout"
	"github.com/blackboxinc/storefront-backend/pkg/enums"
	pkgerrors "github.com/blackboxinc/storefront-backend/pkg/errors"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
)

type shippingOptionRequest struct {
	Service     string          `json:"service" validate:"required"`
	Description string          `json:"description,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	ETD         string          `json:"etd,omitempty"`
}

type checkoutRequest struct {
	GuestEmail string `json:"guest_email,omitempty" validate:"omitempty,email"`

	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_1" validate:"required"`
	AddressLine2 string `json:"address_2,omitempty"`
	PostalCode   string `json:"postal_code" validate:"required"`
	ProvinceID   int64  `json:"province_id"`
	CityID       int64  `json:"city_id"`
	DistrictID   int64  `json:"district_id" validate:"required,gt=0"`

	CourierCode    string                 `json:"courier_code,omitempty"`
	ShippingOption *shippingOptionRequest `json:"shipping_option" validate:"required"`

	PaymentType    string   `json:"payment_type" validate:"required"`
	PaymentMethod  string   `json:"payment_method,omitempty"`
	PaymentChannel string   `json:"payment_channel,omitempty"`
	Vouchers       []string `json:"vouchers,omitempty"`
}

// CheckoutSubmit runs the full submission: authenticated shoppers go through
// the platform's transaction endpoint with their own bearer token, guests
// through the public one.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentType, err := enums.ParsePaymentType(payload.PaymentType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment type"))
			return
		}

		input := checkoutsvc.Input{
			BearerToken:    middleware.BearerTokenFromContext(r.Context()),
			Email:          middleware.ShopperEmailFromContext(r.Context()),
			GuestEmail:     payload.GuestEmail,
			Name:           payload.Name,
			Phone:          payload.Phone,
			AddressLine1:   payload.AddressLine1,
			AddressLine2:   payload.AddressLine2,
			PostalCode:     payload.PostalCode,
			ProvinceID:     payload.ProvinceID,
			CityID:         payload.CityID,
			DistrictID:     payload.DistrictID,
			CourierCode:    payload.CourierCode,
			PaymentType:    paymentType,
			PaymentMethod:  payload.PaymentMethod,
			PaymentChannel: payload.PaymentChannel,
			Vouchers:       payload.Vouchers,
		}
		if payload.ShippingOption != nil {
			input.ShippingOption = &checkoutsvc.ShippingOption{
				Service:     payload.ShippingOption.Service,
				Description: payload.ShippingOption.Description,
				Cost:        payload.ShippingOption.Cost,
				ETD:         payload.ShippingOption.ETD,
			}
		}

		result, err := svc.Submit(r.Context(), shopperID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// GuestInfoFetch returns the shipping details remembered from the session's
// last guest checkout, for form prefill. An empty session yields null data.
func GuestInfoFetch(store *checkoutsvc.GuestInfoStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shopperID, err := shopperID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		info, err := store.Load(r.Context(), shopperID)
		if err != nil {
			// Prefill data is a convenience; a broken record reads as absent.
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "guest info load failed")
			}
			info = nil
		}
		responses.WriteSuccess(w, info)
	}
}
