// Package auth gates routes behind bearer-token authentication and explicit
// per-route role allow-lists.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"tenantadmin/pkg/platform/httputil"
	"tenantadmin/pkg/requestcontext"
)

// TokenValidator verifies a bearer token and returns the actor it identifies.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims are the verified claims this API relies on.
type Claims struct {
	Subject string
	Role    string
}

// RequireAuth returns middleware that validates bearer tokens and populates
// the context with the authenticated actor. Missing or malformed headers and
// invalid or expired tokens are both rejected with 401.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusUnauthorized,
					httputil.ErrorResponse{Message: "Access denied. No token provided."})
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusUnauthorized,
					httputil.ErrorResponse{Message: "Invalid token."})
				return
			}

			ctx = requestcontext.WithActor(ctx, requestcontext.Actor{
				ID:   claims.Subject,
				Role: claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware enforcing a per-route allow-list of roles.
// It must run after RequireAuth; a request whose actor's role is not in the
// list is rejected with 403.
func RequireRole(logger *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor, ok := requestcontext.ActorFrom(ctx)
			if _, permitted := allowed[actor.Role]; !ok || !permitted {
				logger.WarnContext(ctx, "forbidden access - role not permitted",
					"role", actor.Role,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteJSON(w, http.StatusForbidden,
					httputil.ErrorResponse{Message: "Forbidden: Insufficient permissions"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
