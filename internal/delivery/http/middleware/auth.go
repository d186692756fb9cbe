package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "virtualbarcamp/internal/delivery/http/helpers"
	"virtualbarcamp/internal/domain"
)

type contextKey string

const claimsKey contextKey = "claims"

// AccessTokenCookie is read when no Authorization header is sent. Browsers
// cannot set headers on a WebSocket handshake, so the subscription endpoint
// relies on it.
const AccessTokenCookie = "access_token"

// SetClaims returns a context carrying the authenticated identity. Used by auth middleware.
func SetClaims(ctx context.Context, claims *domain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the authenticated identity from the context, if present.
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*domain.Claims)
	return claims, ok && claims != nil
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

func tokenFromRequest(r *http.Request) (string, string) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			return "", "invalid authorization format"
		}
		token := strings.TrimSpace(auth[len(prefix):])
		if token == "" {
			return "", "missing token"
		}
		return token, ""
	}
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && strings.TrimSpace(cookie.Value) != "" {
		return strings.TrimSpace(cookie.Value), ""
	}
	return "", "missing authorization header"
}

// RequireAuth returns a wrapper that validates the Bearer token (or the access
// token cookie) and stores the claims in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, problem := tokenFromRequest(r)
			if problem != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, problem)
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetClaims(r.Context(), claims)))
		}
	}
}

// RequireStaff must run inside RequireAuth. It responds with 403 unless the
// authenticated user is staff.
func RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
			return
		}
		if !claims.IsStaff {
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "staff only")
			return
		}
		next(w, r)
	}
}
