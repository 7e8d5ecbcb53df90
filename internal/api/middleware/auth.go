package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/shimono/personium-lib-common/internal/api/presenter"
)

// AdminAuth guards the admin routes with a shared bearer token. The
// comparison is constant time so the token cannot be probed byte by byte.
func AdminAuth(adminToken string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				presenter.Error(w, r, "admin access disabled", http.StatusForbidden)
				return
			}

			auth := r.Header.Get("Authorization")
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			if tokenStr == "" {
				presenter.Error(w, r, "login required", http.StatusUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(tokenStr), []byte(adminToken)) != 1 {
				presenter.Error(w, r, "invalid admin token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
