package middleware

import "net/http"

// CORS allows cross-origin requests from any origin.
//
// The policy is wide open (any origin, any header, any method) to match the
// API's public-read model; auth relies on bearer tokens, not cookies, so a
// permissive policy doesn't enable credentialed cross-site requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
