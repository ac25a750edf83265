package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/blackboxinc/storefront-backend/api/responses"
	pkgauth "github.com/blackboxinc/storefront-backend/pkg/auth"
	"github.com/blackboxinc/storefront-backend/pkg/config"
	pkgerrors "github.com/blackboxinc/storefront-backend/pkg/errors"
	"github.com/blackboxinc/storefront-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// Session resolves the shopper identity for every request. A valid bearer
// token wins: its subject becomes the shopper id and the raw token is kept
// for forwarding upstream. Without a token the guest session id from the
// X-Session-Id header is used, minting a fresh one when absent. A token that
// fails verification is rejected rather than silently downgraded to guest.
func Session(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token != "" {
				claims, err := pkgauth.ParseShopperToken(cfg, token)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
					return
				}

				shopperID := claims.Subject
				if shopperID == "" {
					shopperID = claims.Email
				}

				ctx := context.WithValue(r.Context(), ctxShopperID, shopperID)
				ctx = context.WithValue(ctx, ctxShopperEmail, claims.Email)
				ctx = context.WithValue(ctx, ctxBearerToken, token)
				ctx = context.WithValue(ctx, ctxAuthenticated, true)
				if logg != nil {
					ctx = logg.WithShopper(ctx, shopperID)
				}

				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			sessionID := strings.TrimSpace(r.Header.Get(sessionIDHeader))
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			w.Header().Set(sessionIDHeader, sessionID)

			ctx := context.WithValue(r.Context(), ctxShopperID, sessionID)
			ctx = context.WithValue(ctx, ctxAuthenticated, false)
			if logg != nil {
				ctx = logg.WithShopper(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
