package http

import (
	"net/http"
	"net/url"

	"github.com/inkwell-hq/inkwell/internal/account/guard"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
	"github.com/inkwell-hq/inkwell/pkg/jwtx"
)

// GuardHandler lets the web edge ask "may this request proceed?". The
// target path goes in ?path= and the target's own query string in ?query=;
// the session rides in on the usual bearer header or cookie.
type GuardHandler struct {
	Verifier jwtx.Verifier
}

func (h *GuardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "path query parameter is required")
		return
	}

	query, err := url.ParseQuery(r.URL.Query().Get("query"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "query parameter is not a valid query string")
		return
	}

	// An absent or invalid session is simply "no session"; the guard
	// decision fails closed, not the endpoint.
	var ident *jwtx.SessionIdentity
	if token := httpx.TokenFromRequest(r); token != "" {
		if claims, err := h.Verifier.Verify(token); err == nil {
			id := claims.Identity()
			ident = &id
		}
	}

	httpx.WriteJSON(w, http.StatusOK, guard.Decide(path, query, ident))
}
