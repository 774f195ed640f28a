package middleware

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const tokenCtxKey ctxKey = iota

// WithToken lifts the caller's bearer credential out of the headers and
// into the request context, so handlers stay pure functions of
// (request, authorization context). Accepts the plain "token" header or
// "Authorization: Bearer ...".
func WithToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimSpace(r.Header.Get("token"))
		if tok == "" {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(h), "bearer ") {
				tok = strings.TrimSpace(h[7:])
			}
		}
		if tok != "" {
			r = r.WithContext(context.WithValue(r.Context(), tokenCtxKey, tok))
		}
		next.ServeHTTP(w, r)
	})
}

// TokenFrom returns the credential WithToken stored, or "".
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenCtxKey).(string)
	return tok
}
