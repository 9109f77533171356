package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inkwell-hq/inkwell/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSessionToken(t *testing.T, signer *jwtx.EdDSASigner, ttl time.Duration) string {
	t.Helper()
	claims := jwtx.NewSessionClaims(
		"user-1", "sid-1", "user", "inkling", "", "", true,
		ttl, "inkwell-account", nil, time.Now(),
	)
	token, err := signer.Sign(claims)
	require.NoError(t, err)
	return token
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	signer, err := jwtx.NewEphemeralSignerEdDSA("k1")
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierEdDSA(keys, "inkwell-account", nil)

	var gotIdentity jwtx.SessionIdentity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		gotIdentity = id
		w.WriteHeader(http.StatusOK)
	})
	handler := Chain(inner, RequireSession(verifier))

	t.Run("bearer token accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+newSessionToken(t, signer, time.Hour))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "user-1", gotIdentity.UserID)
		require.Equal(t, "inkling", gotIdentity.Username)
	})

	t.Run("session cookie accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: newSessionToken(t, signer, time.Hour)})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
	})

	t.Run("expired token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+newSessionToken(t, signer, -time.Minute))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
