package http

import (
	"net/http"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
	"github.com/inkwell-hq/inkwell/internal/account/service"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
)

type SignupHandler struct {
	Credentials *service.CredentialService
}

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type signupResponse struct {
	User domain.SessionUser `json:"user"`
}

// ServeHTTP creates a new unverified account.
func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req signupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	u, err := h.Credentials.Signup(ctx, req.Email, req.Username, req.Password, req.Name)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, signupResponse{User: domain.PublicUser(u)})
}
