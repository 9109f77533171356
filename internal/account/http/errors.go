package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/inkwell-hq/inkwell/internal/account/service"
	"github.com/inkwell-hq/inkwell/internal/account/store"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
	"github.com/inkwell-hq/inkwell/pkg/slogx"
)

// writeServiceError maps service-layer errors onto HTTP responses. Anything
// unmapped is a 500 with a generic body; details stay in the log.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var rl *service.RateLimitError
	switch {
	case errors.As(err, &rl):
		w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
		httpx.WriteJSON(w, http.StatusTooManyRequests, httpx.ErrorResponse{
			Error:            "rate_limited",
			ErrorDescription: "a code was sent recently, wait before requesting another",
			RetryAfter:       rl.RetryAfter,
		})

	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())

	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "conflict", "email already registered")

	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteError(w, http.StatusConflict, "conflict", "username already taken")

	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid identifier or password")

	case errors.Is(err, service.ErrInvalidCode):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_code", "the code is invalid or has already been used")

	case errors.Is(err, service.ErrCodeExpired):
		httpx.WriteError(w, http.StatusBadRequest, "code_expired", "the code has expired, request a new one")

	case errors.Is(err, service.ErrAlreadyVerified):
		httpx.WriteError(w, http.StatusConflict, "already_verified", "email is already verified")

	case errors.Is(err, service.ErrNotAuthenticated):
		httpx.WriteError(w, http.StatusUnauthorized, "not_authenticated", "a valid session is required")

	case errors.Is(err, store.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource not found")

	default:
		slogx.FromContext(ctx).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "something went wrong")
	}
}
