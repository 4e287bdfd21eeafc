package middleware

import (
	"crypto/subtle"
	"net/http"
)

func BasicAuthMiddleware(login, pass string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// CORS preflight carries no credentials
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			user, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			userOk := subtle.ConstantTimeCompare([]byte(user), []byte(login)) == 1
			passOk := subtle.ConstantTimeCompare([]byte(password), []byte(pass)) == 1
			if !userOk || !passOk {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
