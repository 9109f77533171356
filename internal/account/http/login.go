package http

import (
	"net/http"

	"github.com/inkwell-hq/inkwell/internal/account/service"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
)

type LoginHandler struct {
	Sessions *service.SessionService
}

type loginRequest struct {
	// Identifier is an email address or username.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// ServeHTTP exchanges credentials for a session token. The token is returned
// in the body and also set as a cookie for browser clients.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "identifier and password are required")
		return
	}

	session, err := h.Sessions.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(session.ExpiresIn),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	httpx.WriteJSON(w, http.StatusOK, session)
}
