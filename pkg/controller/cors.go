package controller

import "net/http"

// preflightMaxAge is how long browsers may cache a preflight response, in
// seconds.
const preflightMaxAge = "600"

// WithCORS returns a middleware that allows cross-origin access to the API
// and short-circuits OPTIONS preflight requests with 204 No Content. Clients
// authenticate with a bearer header, never cookies, so no credentials flag is
// emitted and the wildcard origin stays valid.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
		h.Set("Access-Control-Max-Age", preflightMaxAge)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}
