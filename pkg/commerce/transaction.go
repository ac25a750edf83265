package commerce

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	transactionPath       = "/transaction"
	publicTransactionPath = "/public/transaction"
)

// Outcome classifies a recognized success shape from the transaction
// endpoints. The decision is made here, once, so callers never sniff
// response fields themselves.
type Outcome string

const (
	// OutcomeCreated means the order exists and carries a reference the
	// shopper can track.
	OutcomeCreated Outcome = "created"
	// OutcomeCreatedWithPayment additionally carries a hosted payment URL
	// the shopper must be redirected to.
	OutcomeCreatedWithPayment Outcome = "created_with_payment"
	// OutcomeAccepted is a success response carrying neither a payment link
	// nor a reference. The platform is the authority on order creation, so
	// this still counts as success.
	OutcomeAccepted Outcome = "accepted"
)

// SubmitResult is the discriminated result of a transaction submission.
type SubmitResult struct {
	Outcome    Outcome
	Reference  string
	PaymentURL string
}

// TransactionDetail is one purchased line in the authenticated payload.
// The variant id falls back to the product id upstream-side conventions;
// the size id is serialized only when strictly positive.
type TransactionDetail struct {
	ProductID            int64  `json:"product_id"`
	ProductVariantID     int64  `json:"product_variant_id"`
	Quantity             int    `json:"quantity"`
	ProductVariantSizeID *int64 `json:"product_variant_size_id,omitempty"`
}

// GuestTransactionDetail is one purchased line in the guest payload. Variant
// and size ids are omitted entirely unless strictly positive.
type GuestTransactionDetail struct {
	ProductID            int64  `json:"product_id"`
	ProductVariantID     *int64 `json:"product_variant_id,omitempty"`
	ProductVariantSizeID *int64 `json:"product_variant_size_id,omitempty"`
	Quantity             int    `json:"quantity"`
}

// Shipment describes the courier selection for one shop block. ShippingParam
// and ShippingOption are JSON documents serialized to strings, matching the
// platform's contract.
type Shipment struct {
	CourierCode    string          `json:"courier_code"`
	ShippingParam  string          `json:"shipping_param"`
	ShippingOption string          `json:"shipping_option"`
	Cost           decimal.Decimal `json:"cost"`
}

// CustomerInfo mirrors the shipping fields inside each shop block.
type CustomerInfo struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AddressLine1 string `json:"address_1"`
	AddressLine2 string `json:"address_2,omitempty"`
	PostalCode   string `json:"postal_code"`
	ProvinceID   int64  `json:"province_id"`
	CityID       int64  `json:"city_id"`
	DistrictID   int64  `json:"district_id"`
}

// ShopOrder groups the purchased lines destined for one shop.
type ShopOrder struct {
	ShopID       int64               `json:"shop_id,omitempty"`
	Details      []TransactionDetail `json:"details"`
	Shipment     Shipment            `json:"shipment"`
	CustomerInfo CustomerInfo        `json:"customer_info"`
}

// GuestShopOrder is the guest-flow variant of ShopOrder.
type GuestShopOrder struct {
	ShopID       int64                    `json:"shop_id,omitempty"`
	Details      []GuestTransactionDetail `json:"details"`
	Shipment     Shipment                 `json:"shipment"`
	CustomerInfo CustomerInfo             `json:"customer_info"`
}

// TransactionRequest is the authenticated submission payload.
type TransactionRequest struct {
	Name           string      `json:"name"`
	Phone          string      `json:"phone,omitempty"`
	AddressLine1   string      `json:"address_1"`
	AddressLine2   string      `json:"address_2,omitempty"`
	PostalCode     string      `json:"postal_code"`
	ProvinceID     int64       `json:"province_id"`
	CityID         int64       `json:"city_id"`
	DistrictID     int64       `json:"district_id"`
	PaymentType    string      `json:"payment_type"`
	PaymentMethod  string      `json:"payment_method,omitempty"`
	PaymentChannel string      `json:"payment_channel,omitempty"`
	Vouchers       []string    `json:"vouchers,omitempty"`
	Shops          []ShopOrder `json:"shops"`
}

// GuestTransactionRequest is the public submission payload, identified by
// supplied contact details instead of a session.
type GuestTransactionRequest struct {
	GuestName      string           `json:"guest_name"`
	GuestEmail     string           `json:"guest_email"`
	GuestPhone     string           `json:"guest_phone,omitempty"`
	AddressLine1   string           `json:"address_1"`
	AddressLine2   string           `json:"address_2,omitempty"`
	PostalCode     string           `json:"postal_code"`
	ProvinceID     int64            `json:"province_id"`
	CityID         int64            `json:"city_id"`
	DistrictID     int64            `json:"district_id"`
	PaymentType    string           `json:"payment_type"`
	PaymentMethod  string           `json:"payment_method,omitempty"`
	PaymentChannel string           `json:"payment_channel,omitempty"`
	Vouchers       []string         `json:"vouchers,omitempty"`
	Shops          []GuestShopOrder `json:"shops"`
}

type orderPayment struct {
	AccountNumber string `json:"account_number"`
}

type orderRecord struct {
	Reference string        `json:"reference"`
	Payment   *orderPayment `json:"payment"`
}

// SubmitTransaction posts the authenticated payload and classifies the
// response shape.
func (c *Client) SubmitTransaction(ctx context.Context, bearer string, req TransactionRequest) (*SubmitResult, error) {
	data, err := c.Post(ctx, transactionPath, bearer, req, nil)
	if err != nil {
		return nil, err
	}
	return decideOutcome(data), nil
}

// SubmitGuestTransaction posts the guest payload to the public endpoint and
// classifies the response shape.
func (c *Client) SubmitGuestTransaction(ctx context.Context, req GuestTransactionRequest) (*SubmitResult, error) {
	data, err := c.Post(ctx, publicTransactionPath, "", req, nil)
	if err != nil {
		return nil, err
	}
	return decideOutcome(data), nil
}

// decideOutcome inspects a successful response body exactly once. The data
// field may hold a single order record or an array of them; the first record
// wins.
func decideOutcome(data json.RawMessage) *SubmitResult {
	var rec orderRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		var recs []orderRecord
		if err := json.Unmarshal(data, &recs); err == nil && len(recs) > 0 {
			rec = recs[0]
		}
	}

	if rec.Payment != nil && rec.Payment.AccountNumber != "" {
		return &SubmitResult{
			Outcome:    OutcomeCreatedWithPayment,
			Reference:  rec.Reference,
			PaymentURL: rec.Payment.AccountNumber,
		}
	}
	if rec.Reference != "" {
		return &SubmitResult{Outcome: OutcomeCreated, Reference: rec.Reference}
	}
	return &SubmitResult{Outcome: OutcomeAccepted}
}
