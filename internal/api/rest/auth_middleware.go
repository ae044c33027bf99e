package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/jplsports/player-auction-backend/internal/infrastructure/auth"
	"github.com/jplsports/player-auction-backend/internal/infrastructure/cache"
)

const claimsKey contextKey = "claims"

// ClaimsFromContext returns the authenticated user's claims, if any
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}

// RequireAuth rejects requests without a valid, unrevoked bearer token
func RequireAuth(authSvc *auth.Service, sessions *cache.SessionStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{
					Code:    "UNAUTHORIZED",
					Message: "missing bearer token",
				}})
				return
			}

			claims, err := authSvc.ValidateToken(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{
					Code:    "UNAUTHORIZED",
					Message: "invalid or expired token",
				}})
				return
			}

			if sessions != nil {
				revoked, err := sessions.IsRevoked(r.Context(), claims.TokenID)
				if err == nil && revoked {
					writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{
						Code:    "UNAUTHORIZED",
						Message: "session has been revoked",
					}})
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated users whose role is not in the allow list
func RequireRole(roles ...string) Middleware {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errorBody{
					Code:    "UNAUTHORIZED",
					Message: "authentication required",
				}})
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				writeJSON(w, http.StatusForbidden, errorResponse{Error: errorBody{
					Code:    "FORBIDDEN",
					Message: "insufficient permissions",
				}})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
