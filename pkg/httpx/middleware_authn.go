package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/inkwell-hq/inkwell/pkg/jwtx"
	"github.com/inkwell-hq/inkwell/pkg/slogx"
)

// SessionCookieName is the cookie the web frontend stores the session token
// in. APIs may alternatively send the token as a Bearer header.
const SessionCookieName = "inkwell_session"

// TokenFromRequest extracts the raw session token from the Authorization
// header or the session cookie. Returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// RequireSession verifies the session token and injects the identity into
// the request context. Missing, malformed, expired, or badly-signed tokens
// all fail closed with a 401; the distinction is logged, never surfaced.
func RequireSession(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := TokenFromRequest(r)
			if raw == "" {
				writeBearerError(w, "missing session token")
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("session verify failed", "err", err)
				writeBearerError(w, "session verification failed")
				return
			}

			ctx = contextWithIdentity(ctx, claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithIdentity(ctx context.Context, id jwtx.SessionIdentity) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, id.UserID)
	ctx = context.WithValue(ctx, CtxKeyIdentity, id)
	return ctx
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "not_authenticated", desc)
}
