package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campusops/tigerpatrol/internal/auth"
	apperrors "github.com/campusops/tigerpatrol/internal/errors"
	"github.com/campusops/tigerpatrol/pkg/utils"
)

type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFromContext returns the session claims stored by RequireRole.
func ClaimsFromContext(ctx context.Context) (auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(auth.Claims)
	return claims, ok
}

// RequireRole enforces a bearer JWT whose role claim is one of the given
// roles. Requests without a valid token get 401, valid tokens with an
// unlisted role get 403; in both cases the protected handler never runs.
func RequireRole(signingKey, issuer string, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				utils.Error(w, apperrors.Unauthorized("missing bearer token"))
				return
			}

			tokenStr := strings.TrimSpace(authz[len("bearer "):])
			claims, err := auth.Parse(tokenStr, signingKey, issuer)
			if err != nil {
				utils.Error(w, apperrors.Unauthorized("invalid token"))
				return
			}

			if !allowed[claims.Role] {
				utils.Error(w, apperrors.Forbidden("insufficient role"))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
