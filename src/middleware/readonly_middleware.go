package middleware

import (
	"net/http"
)

// ReadOnlyMiddleware rejects mutating requests when the server runs in
// read-only mode, e.g. while a backup of the data store is being taken.
func ReadOnlyMiddleware(readOnly bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if readOnly && r.Method != http.MethodGet && r.Method != http.MethodOptions {
				http.Error(w, "Read-only mode: only GET requests are allowed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
