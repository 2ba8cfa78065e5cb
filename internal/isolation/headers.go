// Package isolation decorates responses with the CORS and cross-origin
// isolation headers a WebGPU demo page needs: universal CORS so the page can
// fetch cross-origin assets, and COEP/COOP so the browser grants
// SharedArrayBuffer for wasm threading.
package isolation

import "net/http"

// Headers is the wire contract browser demos rely on. The wildcard CORS grant
// is intentional for a localhost development tool; deploying this server
// beyond localhost would need a narrower policy.
var Headers = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "*",
	"Cross-Origin-Embedder-Policy": "require-corp",
	"Cross-Origin-Opener-Policy":   "same-origin",
}

// Middleware applies Headers to every response and short-circuits OPTIONS
// preflight requests with an empty 200 before any file resolution happens.
// Headers already set further out in the chain are left untouched.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := w.Header()
		for key, value := range Headers {
			if header.Get(key) == "" {
				header.Set(key, value)
			}
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
