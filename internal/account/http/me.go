package http

import (
	"net/http"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
	"github.com/inkwell-hq/inkwell/internal/account/service"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
)

type MeHandler struct {
	Credentials *service.CredentialService
}

// ServeHTTP returns the current session's user, freshly loaded so the
// response reflects mutations made after the token was minted.
func (h *MeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "not_authenticated", "a valid session is required")
		return
	}

	u, err := h.Credentials.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, domain.PublicUser(u))
}
