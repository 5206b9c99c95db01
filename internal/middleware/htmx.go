package middleware

import "net/http"

// HTMX flags fragment requests. The same URL can answer with a fragment or a
// full page, so responses vary on HX-Request.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "HX-Request")
		ctx := WithHTMX(r.Context(), r.Header.Get("HX-Request") == "true")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PushURL asks htmx to record u in the browser history after the swap.
func PushURL(w http.ResponseWriter, u string) {
	w.Header().Set("HX-Push-Url", u)
}
