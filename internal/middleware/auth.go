package middleware

import (
	"net/http"
	"strings"

	"storefront-be/internal/auth"
	"storefront-be/internal/logger"
	"storefront-be/internal/user"
	"storefront-be/internal/utils"

	"go.uber.org/zap"
)

const authRoutesPrefix = "/api/auth/"

// AuthMiddleware puts the user from a valid access token into the request
// context. Requests without a token pass through anonymously. A token that
// does not verify clears the access cookie and is rejected, except on the
// auth routes, which continue anonymously so the client can log in again.
func AuthMiddleware(jwtSecret string, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := auth.ExtractAccessToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := user.ParseJWT(jwtSecret, tokenStr)
			if err != nil {
				logger.FromCtx(r.Context()).Info("rejected access token", zap.Error(err))
				auth.ClearAccessToken(w, secureCookies)
				if strings.HasPrefix(r.URL.Path, authRoutesPrefix) {
					next.ServeHTTP(w, r)
					return
				}
				utils.WriteJSONError(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Username, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
