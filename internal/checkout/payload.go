package checkout

import (
	"encoding/json"

	"github.com/blackboxinc/storefront-backend/internal/cart"
	"github.com/blackboxinc/storefront-backend/pkg/commerce"
)

const defaultCourierCode = "jne"

// shippingParam is the rate-lookup document the platform expects inside the
// shipment block, serialized as a JSON string. Weight is a fixed estimate;
// dimensions are unused by the configured couriers.
type shippingParam struct {
	DestinationDistrictID int64 `json:"destination_district_id"`
	Weight                int   `json:"weight"`
	Length                int   `json:"length"`
	Width                 int   `json:"width"`
	Height                int   `json:"height"`
}

const defaultShipmentWeight = 1000

func buildDetails(lines []cart.Line) []commerce.TransactionDetail {
	details := make([]commerce.TransactionDetail, 0, len(lines))
	for _, line := range lines {
		variantID := line.VariantID
		if variantID <= 0 {
			variantID = line.ProductID
		}
		detail := commerce.TransactionDetail{
			ProductID:        line.ProductID,
			ProductVariantID: variantID,
			Quantity:         line.Quantity,
		}
		if line.SizeID > 0 {
			sizeID := line.SizeID
			detail.ProductVariantSizeID = &sizeID
		}
		details = append(details, detail)
	}
	return details
}

func buildGuestDetails(lines []cart.Line) []commerce.GuestTransactionDetail {
	details := make([]commerce.GuestTransactionDetail, 0, len(lines))
	for _, line := range lines {
		detail := commerce.GuestTransactionDetail{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		if line.VariantID > 0 {
			variantID := line.VariantID
			detail.ProductVariantID = &variantID
		}
		if line.SizeID > 0 {
			sizeID := line.SizeID
			detail.ProductVariantSizeID = &sizeID
		}
		details = append(details, detail)
	}
	return details
}

func buildShipment(input Input) (commerce.Shipment, error) {
	courier := input.CourierCode
	if courier == "" {
		courier = defaultCourierCode
	}
	param, err := json.Marshal(shippingParam{
		DestinationDistrictID: input.DistrictID,
		Weight:                defaultShipmentWeight,
	})
	if err != nil {
		return commerce.Shipment{}, err
	}
	option, err := json.Marshal(input.ShippingOption)
	if err != nil {
		return commerce.Shipment{}, err
	}
	return commerce.Shipment{
		CourierCode:    courier,
		ShippingParam:  string(param),
		ShippingOption: string(option),
		Cost:           input.ShippingOption.Cost,
	}, nil
}

func buildCustomerInfo(input Input, email string) commerce.CustomerInfo {
	return commerce.CustomerInfo{
		Name:         input.Name,
		Email:        email,
		Phone:        input.Phone,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		PostalCode:   input.PostalCode,
		ProvinceID:   input.ProvinceID,
		CityID:       input.CityID,
		DistrictID:   input.DistrictID,
	}
}

func buildTransactionRequest(input Input, lines []cart.Line, shopID int64) (commerce.TransactionRequest, error) {
	shipment, err := buildShipment(input)
	if err != nil {
		return commerce.TransactionRequest{}, err
	}
	return commerce.TransactionRequest{
		Name:           input.Name,
		Phone:          input.Phone,
		AddressLine1:   input.AddressLine1,
		AddressLine2:   input.AddressLine2,
		PostalCode:     input.PostalCode,
		ProvinceID:     input.ProvinceID,
		CityID:         input.CityID,
		DistrictID:     input.DistrictID,
		PaymentType:    input.PaymentType.String(),
		PaymentMethod:  input.PaymentMethod,
		PaymentChannel: input.PaymentChannel,
		Vouchers:       input.Vouchers,
		Shops: []commerce.ShopOrder{{
			ShopID:       shopID,
			Details:      buildDetails(lines),
			Shipment:     shipment,
			CustomerInfo: buildCustomerInfo(input, input.Email),
		}},
	}, nil
}

func buildGuestTransactionRequest(input Input, lines []cart.Line, shopID int64) (commerce.GuestTransactionRequest, error) {
	shipment, err := buildShipment(input)
	if err != nil {
		return commerce.GuestTransactionRequest{}, err
	}
	return commerce.GuestTransactionRequest{
		GuestName:      input.Name,
		GuestEmail:     input.GuestEmail,
		GuestPhone:     input.Phone,
		AddressLine1:   input.AddressLine1,
		AddressLine2:   input.AddressLine2,
		PostalCode:     input.PostalCode,
		ProvinceID:     input.ProvinceID,
		CityID:         input.CityID,
		DistrictID:     input.DistrictID,
		PaymentType:    input.PaymentType.String(),
		PaymentMethod:  input.PaymentMethod,
		PaymentChannel: input.PaymentChannel,
		Vouchers:       input.Vouchers,
		Shops: []commerce.GuestShopOrder{{
			ShopID:       shopID,
			Details:      buildGuestDetails(lines),
			Shipment:     shipment,
			CustomerInfo: buildCustomerInfo(input, input.GuestEmail),
		}},
	}, nil
}
