package middleware

import (
	"net/http"

	"lab-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Headers injected by the API gateway after it has authenticated the caller.
// This service trusts them; token verification happens upstream.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
)

// Identity middleware reads the gateway identity headers into the request
// context. Requests without a valid identity are rejected.
func Identity(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(HeaderUserID)
			if rawID == "" {
				utils.ResponseUnauthorized(w, "Missing identity headers")
				return
			}

			userID, err := uuid.Parse(rawID)
			if err != nil {
				logger.Warn("Malformed identity header",
					zap.String("header", HeaderUserID),
					zap.String("value", rawID))
				utils.ResponseUnauthorized(w, "Invalid identity headers")
				return
			}

			role := r.Header.Get(HeaderUserRole)
			if role == "" {
				role = "CUSTOMER"
			}

			ctx := utils.SetUserContext(r.Context(), userID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole guards a route group behind one of the allowed roles.
func RequireRole(logger *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if _, ok := allowed[role]; !ok {
				logger.Warn("Role check: access denied",
					zap.String("role", role),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
