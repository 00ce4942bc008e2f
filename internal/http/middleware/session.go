package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const sessionTokenKey contextKey = "session_token"

// Session attaches the opaque X-Session-Token header value to the
// request context. The token is passed through as-is; this service does
// not interpret it.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := r.Header.Get("X-Session-Token"); token != "" {
			r = r.WithContext(context.WithValue(r.Context(), sessionTokenKey, token))
		}
		next.ServeHTTP(w, r)
	})
}

// SessionToken returns the session token from the context, if present.
func SessionToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenKey).(string)
	return token, ok
}
