package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/blackboxinc/storefront-backend/internal/cart"
	"github.com/blackboxinc/storefront-backend/pkg/commerce"
	"github.com/blackboxinc/storefront-backend/pkg/enums"
	pkgerrors "github.com/blackboxinc/storefront-backend/pkg/errors"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
	"github.com/blackboxinc/storefront-backend/pkg/metrics"
)

const orderHistoryPath = "/account/orders"

const (
	flowAuthenticated = "authenticated"
	flowGuest         = "guest"
)

type cartStore interface {
	Current(ctx context.Context, shopperID string) cart.State
	ClearCart(ctx context.Context, shopperID string) cart.State
}

type transactionSubmitter interface {
	SubmitTransaction(ctx context.Context, bearer string, req commerce.TransactionRequest) (*commerce.SubmitResult, error)
	SubmitGuestTransaction(ctx context.Context, req commerce.GuestTransactionRequest) (*commerce.SubmitResult, error)
}

type guestInfoSaver interface {
	Save(ctx context.Context, sessionID string, info GuestInfo) error
}

// ShippingOption is the rate the shopper picked from the courier's offers.
// It is forwarded upstream verbatim inside the shipment block.
type ShippingOption struct {
	Service     string          `json:"service"`
	Description string          `json:"description,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	ETD         string          `json:"etd,omitempty"`
}

// Input carries everything a submission needs. BearerToken selects the flow:
// when present the authenticated endpoint is used with the shopper's own
// credential, otherwise the public guest endpoint.
type Input struct {
	BearerToken string
	Email       string
	GuestEmail  string

	Name         string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	PostalCode   string
	ProvinceID   int64
	CityID       int64
	DistrictID   int64

	CourierCode    string
	ShippingOption *ShippingOption

	PaymentType    enums.PaymentType
	PaymentMethod  string
	PaymentChannel string
	Vouchers       []string
}

// Result is what the storefront needs to route the shopper after a
// recognized success.
type Result struct {
	Reference  string `json:"reference,omitempty"`
	PaymentURL string `json:"payment_url,omitempty"`
	RedirectTo string `json:"redirect_to"`
}

// Service orchestrates a checkout submission end to end.
type Service interface {
	Submit(ctx context.Context, shopperID string, input Input) (*Result, error)
}

type service struct {
	carts     cartStore
	client    transactionSubmitter
	guestInfo guestInfoSaver
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	shopID    int64
}

// NewService builds a checkout service with the required dependencies.
func NewService(carts cartStore, client transactionSubmitter, guestInfo guestInfoSaver, m *metrics.CheckoutMetrics, logg *logger.Logger, shopID int64) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if client == nil {
		return nil, fmt.Errorf("transaction submitter required")
	}
	if guestInfo == nil {
		return nil, fmt.Errorf("guest info store required")
	}
	if m == nil {
		return nil, fmt.Errorf("checkout metrics required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:     carts,
		client:    client,
		guestInfo: guestInfo,
		metrics:   m,
		logg:      logg,
		shopID:    shopID,
	}, nil
}

func (s *service) Submit(ctx context.Context, shopperID string, input Input) (*Result, error) {
	flow := flowGuest
	if input.BearerToken != "" {
		flow = flowAuthenticated
	}

	if err := validateInput(flow, input); err != nil {
		return nil, err
	}

	state := s.carts.Current(ctx, shopperID)
	if len(state.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	start := time.Now()
	result, err := s.submit(ctx, flow, input, state.Lines)
	s.metrics.ObserveDuration(flow, time.Since(start))

	if flow == flowGuest {
		s.rememberGuestInfo(ctx, shopperID, input)
	}

	if err != nil {
		s.metrics.IncFailure(flow)
		return nil, err
	}
	s.metrics.IncSuccess(flow)

	// The platform owns order creation, so every recognized success clears
	// the cart even when the response carries no reference.
	s.carts.ClearCart(ctx, shopperID)

	resp := &Result{
		Reference:  result.Reference,
		RedirectTo: orderHistoryPath,
	}
	// The hosted link is only opened for automatic payment; manual transfers
	// settle out of band even when the platform returns one.
	if result.Outcome == commerce.OutcomeCreatedWithPayment && input.PaymentType == enums.PaymentTypeAutomatic {
		resp.PaymentURL = result.PaymentURL
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"flow":      flow,
		"outcome":   string(result.Outcome),
		"reference": result.Reference,
	}), "checkout submitted")
	return resp, nil
}

func (s *service) submit(ctx context.Context, flow string, input Input, lines []cart.Line) (*commerce.SubmitResult, error) {
	if flow == flowAuthenticated {
		req, err := buildTransactionRequest(input, lines, s.shopID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build transaction payload")
		}
		return s.client.SubmitTransaction(ctx, input.BearerToken, req)
	}
	req, err := buildGuestTransactionRequest(input, lines, s.shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build guest transaction payload")
	}
	return s.client.SubmitGuestTransaction(ctx, req)
}

func (s *service) rememberGuestInfo(ctx context.Context, sessionID string, input Input) {
	info := GuestInfo{
		Name:         input.Name,
		Email:        input.GuestEmail,
		Phone:        input.Phone,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		PostalCode:   input.PostalCode,
		ProvinceID:   input.ProvinceID,
		CityID:       input.CityID,
		DistrictID:   input.DistrictID,
	}
	if err := s.guestInfo.Save(ctx, sessionID, info); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "guest info persist failed")
	}
}

// validateInput rejects a submission before any network call is made. The
// cart is left untouched on failure.
func validateInput(flow string, input Input) error {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.AddressLine1) == "" {
		missing = append(missing, "address_1")
	}
	if strings.TrimSpace(input.PostalCode) == "" {
		missing = append(missing, "postal_code")
	}
	if input.DistrictID <= 0 {
		missing = append(missing, "district_id")
	}
	if flow == flowGuest && strings.TrimSpace(input.GuestEmail) == "" {
		missing = append(missing, "guest_email")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required checkout fields").WithDetails(map[string]any{
			"fields": missing,
		})
	}
	if input.ShippingOption == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping method not selected")
	}
	if !input.PaymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment type %q", input.PaymentType))
	}
	return nil
}
