package http

import (
	"net/http"

	"github.com/inkwell-hq/inkwell/internal/account/service"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
)

type PasswordResetHandler struct {
	Verification *service.VerificationService
}

type passwordResetRequestBody struct {
	Email string `json:"email"`
}

type passwordResetBody struct {
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// HandleRequest issues and emails a reset code. Unknown emails get the same
// 202 as known ones.
func (h *PasswordResetHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req passwordResetRequestBody
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.Email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	if err := h.Verification.RequestPasswordReset(ctx, req.Email); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// HandleReset consumes a reset code and replaces the password.
func (h *PasswordResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req passwordResetBody
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return
	}
	if req.Code == "" || req.NewPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "code and new_password are required")
		return
	}

	if err := h.Verification.ResetPassword(ctx, req.Code, req.NewPassword); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "password_reset"})
}
