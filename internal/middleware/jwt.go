package middleware

import (
	"net/http"
	"strings"

	"todoapp/internal/logger"
	"todoapp/internal/reqctx"
	"todoapp/internal/utils"
	helpers "todoapp/internal/utils/helpers"

	"go.uber.org/zap"
)

// JWTAuth validates the bearer token and puts the verified identity into the
// request context. The signing secret is injected once at wiring time.
func JWTAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				logger.WithCtx(r.Context()).Warn("JWTAuth: missing access token")
				helpers.Error(w, http.StatusUnauthorized, "missing access token")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := utils.ParseToken(jwtSecret, tokenString)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("JWTAuth: invalid or expired token", zap.Error(err))
				helpers.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := reqctx.WithUserID(r.Context(), claims.UserID)
			ctx = reqctx.WithUsername(ctx, claims.Username)
			ctx = reqctx.WithRole(ctx, claims.Role)

			logger.WithCtx(ctx).Debug("JWTAuth: token valid",
				zap.Int("user_id", claims.UserID), zap.String("role", claims.Role))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
