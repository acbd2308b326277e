package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "clubmanagement/internal/delivery/http/helpers"
	"clubmanagement/internal/domain"
)

type contextKey string

const requesterKey contextKey = "requester"

// SetRequester returns a context with the requester identity set. Used by auth middleware.
func SetRequester(ctx context.Context, requester *domain.Requester) context.Context {
	return context.WithValue(ctx, requesterKey, requester)
}

// RequesterFromContext returns the authenticated requester from the context, if present.
func RequesterFromContext(ctx context.Context) (*domain.Requester, bool) {
	req, ok := ctx.Value(requesterKey).(*domain.Requester)
	return req, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// resolved requester in the request context. If the token is missing or
// invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			requester, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetRequester(r.Context(), requester))
			next(w, r)
		}
	}
}
