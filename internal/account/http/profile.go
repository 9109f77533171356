package http

import (
	"net/http"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
	"github.com/inkwell-hq/inkwell/internal/account/service"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
)

type ProfileHandler struct {
	Credentials *service.CredentialService
}

type updateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ServeHTTP replaces the display name and avatar of the authenticated user.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "not_authenticated", "a valid session is required")
		return
	}

	var req updateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}

	u, err := h.Credentials.UpdateProfile(ctx, userID, req.Name, req.Avatar)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, domain.PublicUser(u))
}
