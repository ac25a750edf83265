package enums

import "fmt"

// PaymentType distinguishes hosted-redirect payments from manual transfers.
type PaymentType string

const (
	// PaymentTypeAutomatic means the platform returns a hosted payment link
	// the shopper is redirected to straight away.
	PaymentTypeAutomatic PaymentType = "automatic"
	// PaymentTypeManual means the shopper settles out of band and awaits
	// confirmation.
	PaymentTypeManual PaymentType = "manual"
)

var validPaymentTypes = []PaymentType{
	PaymentTypeAutomatic,
	PaymentTypeManual,
}

// String implements fmt.Stringer.
func (p PaymentType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentType.
func (p PaymentType) IsValid() bool {
	for _, candidate := range validPaymentTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentType converts raw input into a PaymentType.
func ParsePaymentType(value string) (PaymentType, error) {
	for _, candidate := range validPaymentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment type %q", value)
}
