package middleware

import (
	"net/http"

	"todoapp/internal/reqctx"
	helpers "todoapp/internal/utils/helpers"
)

func OnlyRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := reqctx.GetRole(r.Context())
			if !ok || userRole != role {
				helpers.Error(w, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func AnyRole(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{})
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := reqctx.GetRole(r.Context())
			if !ok {
				helpers.Error(w, http.StatusForbidden, "role not determined")
				return
			}
			if _, found := roleSet[userRole]; !found {
				helpers.Error(w, http.StatusForbidden, "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
