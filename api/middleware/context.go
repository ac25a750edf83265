package middleware

import "context"

type contextKey string

const (
	ctxShopperID     contextKey = "shopper_id"
	ctxShopperEmail  contextKey = "shopper_email"
	ctxBearerToken   contextKey = "bearer_token"
	ctxAuthenticated contextKey = "authenticated"
)

// ShopperIDFromContext returns the cart owner key for the request: the token
// subject for authenticated shoppers, the session id for guests.
func ShopperIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxShopperID).(string); ok {
		return v
	}
	return ""
}

// ShopperEmailFromContext returns the verified email of an authenticated
// shopper, or empty for guests.
func ShopperEmailFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxShopperEmail).(string); ok {
		return v
	}
	return ""
}

// BearerTokenFromContext returns the raw bearer token for forwarding
// upstream, or empty for guests.
func BearerTokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxBearerToken).(string); ok {
		return v
	}
	return ""
}

// IsAuthenticated reports whether the request carried a valid shopper token.
func IsAuthenticated(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, ok := ctx.Value(ctxAuthenticated).(bool)
	return ok && v
}

// WithShopperID injects the shopper identifier into the context.
func WithShopperID(ctx context.Context, shopperID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxShopperID, shopperID)
}
