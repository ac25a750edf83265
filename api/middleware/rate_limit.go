package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/blackboxinc/storefront-backend/api/responses"
	"github.com/blackboxinc/storefront-backend/pkg/config"
	pkgerrors "github.com/blackboxinc/storefront-backend/pkg/errors"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
)

// RateLimiterStore counts requests in fixed windows.
type RateLimiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// CheckoutRateLimit throttles transaction submissions per shopper. Counter
// failures fail open: losing the limiter must not block checkouts.
func CheckoutRateLimit(cfg config.CheckoutConfig, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || cfg.RateLimit <= 0 || cfg.RateLimitWindow <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			shopperID := ShopperIDFromContext(ctx)
			if shopperID == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed, count, err := store.FixedWindowAllow(ctx, "checkout:"+shopperID, cfg.RateLimit, cfg.RateLimitWindow)
			if err != nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "error", err.Error()), "checkout rate limiter unavailable")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "count", count), "checkout rate limited")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many checkout attempts"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
