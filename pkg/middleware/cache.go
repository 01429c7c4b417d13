package middleware

import (
	"fmt"
	"net/http"
)

// CacheControl returns a middleware that sets a Cache-Control header on GET
// responses. maxAge and staleWhileRevalidate are in seconds; a zero
// staleWhileRevalidate omits the directive.
func CacheControl(maxAge, staleWhileRevalidate int) func(http.Handler) http.Handler {
	value := fmt.Sprintf("public, max-age=%d", maxAge)
	if staleWhileRevalidate > 0 {
		value = fmt.Sprintf("%s, stale-while-revalidate=%d", value, staleWhileRevalidate)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.Header().Set("Cache-Control", value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
