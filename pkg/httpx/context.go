package httpx

import (
	"context"

	"github.com/inkwell-hq/inkwell/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID   ctxKey = "user_id"
	CtxKeyIdentity ctxKey = "identity"
)

// IdentityFromContext returns the authenticated session identity, if the
// request passed through RequireSession.
func IdentityFromContext(ctx context.Context) (jwtx.SessionIdentity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(jwtx.SessionIdentity)
	return id, ok
}

// UserIDFromContext returns the authenticated user ID or "".
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
