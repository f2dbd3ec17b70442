package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/o-complex/storefront-backend/pkg/logger"
)

type sessionCtxKey struct{}

// Session guarantees every request carries an anonymous session id. A missing
// or malformed cookie gets replaced with a fresh uuid; the cart key derives
// from this id downstream.
func Session(cookieName string, ttl time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(cookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sessionID = cookie.Value
				}
			}

			if sessionID == "" {
				sessionID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session id placed by Session, or "".
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionCtxKey{}).(string); ok {
		return id
	}
	return ""
}
