package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// ShopperClaims is the typed JWT minted by the external identity provider.
// The storefront only verifies these tokens; it never issues them.
type ShopperClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}
