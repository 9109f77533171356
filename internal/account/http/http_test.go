package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/inkwell-hq/inkwell/internal/account/domain"
	"github.com/inkwell-hq/inkwell/internal/account/service"
	"github.com/inkwell-hq/inkwell/internal/account/store/drivers/sqlite"
	"github.com/inkwell-hq/inkwell/pkg/cryptox"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
	"github.com/inkwell-hq/inkwell/pkg/jwtx"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "accountd-http-test")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create temp dir:", err)
		os.Exit(1)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testEnv struct {
	store    *sqlite.Store
	creds    *service.CredentialService
	sessions *service.SessionService
	ver      *service.VerificationService
	verifier jwtx.Verifier
	keys     *jwtx.KeySet
	mail     *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewEphemeralSignerEdDSA("test-key")
	require.NoError(t, err)
	keys := jwtx.NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	verifier := jwtx.NewVerifierEdDSA(keys, "test-issuer", nil)

	creds := &service.CredentialService{Store: st}
	mail := &captureMailer{}

	return &testEnv{
		store: st,
		creds: creds,
		sessions: &service.SessionService{
			Store:    st,
			Signer:   signer,
			Verifier: verifier,
			Issuer:   "test-issuer",
			TTL:      time.Hour,
		},
		ver: &service.VerificationService{
			Store:       st,
			OTP:         &service.OTPService{Store: st},
			Credentials: creds,
			Mailer:      mail,
		},
		verifier: verifier,
		keys:     keys,
		mail:     mail,
	}
}

func (e *testEnv) signupAndLogin(t *testing.T, email, username, password string) (domain.User, string) {
	t.Helper()

	u, err := e.creds.Signup(context.Background(), email, username, password, "")
	require.NoError(t, err)

	s, err := e.sessions.Login(context.Background(), username, password)
	require.NoError(t, err)
	return u, s.Token
}

func doJSON(t *testing.T, h http.Handler, method, target, body, bearer string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type captureMailer struct {
	mu   sync.Mutex
	sent []string // bodies
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, body)
	return nil
}

var codeRe = regexp.MustCompile(`\b[0-9]{6}\b`)

func (m *captureMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	code := codeRe.FindString(m.sent[len(m.sent)-1])
	require.NotEmpty(t, code)
	return code
}

func TestSignupHandler(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	h := &SignupHandler{Credentials: env.creds}

	t.Run("creates a user", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/account/signup",
			`{"email":"new@example.com","username":"newuser","password":"correct-horse","name":"New"}`, "")

		require.Equal(t, http.StatusCreated, rec.Code)
		require.Contains(t, rec.Body.String(), `"newuser"`)
		require.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("conflict maps to 409", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/account/signup",
			`{"email":"new@example.com","username":"otheruser","password":"correct-horse"}`, "")

		require.Equal(t, http.StatusConflict, rec.Code)
		require.Contains(t, rec.Body.String(), "conflict")
	})

	t.Run("validation maps to 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/account/signup",
			`{"email":"v@example.com","username":"x","password":"correct-horse"}`, "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON maps to 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/account/signup", `{not json`, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signupAndLogin(t, "l@example.com", "loginhttp", "correct-horse")

	h := &LoginHandler{Sessions: env.sessions}

	t.Run("sets a session cookie", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/account/login",
			`{"identifier":"loginhttp","password":"correct-horse"}`, "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"token"`)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, httpx.SessionCookieName, cookies[0].Name)
		require.True(t, cookies[0].HttpOnly)
	})

	t.Run("bad credentials map to a generic 401", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodPost, "/v1/account/login",
			`{"identifier":"loginhttp","password":"wrong"}`, "")

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_credentials")
		require.NotContains(t, rec.Body.String(), "password")
		require.NotContains(t, rec.Body.String(), "user")
	})
}

func TestMeHandler(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u, token := env.signupAndLogin(t, "me@example.com", "mehandler", "correct-horse")

	h := httpx.Chain(&MeHandler{Credentials: env.creds}, httpx.RequireSession(env.verifier))

	t.Run("with a valid session", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/v1/account/me", "", token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), u.ID)
	})

	t.Run("without a session", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/v1/account/me", "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestVerifyEmailHandlers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	u, token := env.signupAndLogin(t, "vh@example.com", "verifyhttp", "correct-horse")

	h := &VerifyEmailHandler{Verification: env.ver}
	request := httpx.Chain(http.HandlerFunc(h.HandleRequest), httpx.RequireSession(env.verifier))
	verify := http.HandlerFunc(h.HandleVerify)

	rec := doJSON(t, request, http.MethodPost, "/v1/account/verify-email/request", "", token)
	require.Equal(t, http.StatusAccepted, rec.Code)

	t.Run("resend inside the window maps to 429", func(t *testing.T) {
		rec := doJSON(t, request, http.MethodPost, "/v1/account/verify-email/request", "", token)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Contains(t, rec.Body.String(), "retry_after")
	})

	t.Run("consuming the code verifies the account", func(t *testing.T) {
		rec := doJSON(t, verify, http.MethodPost, "/v1/account/verify-email",
			fmt.Sprintf(`{"code":%q}`, env.mail.lastCode(t)), "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"email_verified":true`)

		stored, err := env.store.Users().GetUserByID(context.Background(), u.ID)
		require.NoError(t, err)
		require.True(t, stored.EmailVerified)
	})

	t.Run("bad code maps to 400", func(t *testing.T) {
		rec := doJSON(t, verify, http.MethodPost, "/v1/account/verify-email", `{"code":"000000"}`, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_code")
	})
}

func TestPasswordResetHandlers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.signupAndLogin(t, "prh@example.com", "resethttp", "original-pass")

	h := &PasswordResetHandler{Verification: env.ver}

	rec := doJSON(t, http.HandlerFunc(h.HandleRequest), http.MethodPost,
		"/v1/account/password-reset/request", `{"email":"prh@example.com"}`, "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	t.Run("unknown email gets the same 202", func(t *testing.T) {
		rec := doJSON(t, http.HandlerFunc(h.HandleRequest), http.MethodPost,
			"/v1/account/password-reset/request", `{"email":"ghost@example.com"}`, "")
		require.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("reset completes with the emailed code", func(t *testing.T) {
		rec := doJSON(t, http.HandlerFunc(h.HandleReset), http.MethodPost,
			"/v1/account/password-reset",
			fmt.Sprintf(`{"code":%q,"new_password":"replacement-pass"}`, env.mail.lastCode(t)), "")
		require.Equal(t, http.StatusOK, rec.Code)

		_, err := env.sessions.Login(context.Background(), "resethttp", "replacement-pass")
		require.NoError(t, err)
	})
}

func TestGuardHandler(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	_, token := env.signupAndLogin(t, "g@example.com", "guardhttp", "correct-horse")

	h := &GuardHandler{Verifier: env.verifier}

	t.Run("protected path without session redirects to login", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/v1/guard/decision?path=/dashboard", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `/login?callbackUrl=%2Fdashboard`)
	})

	t.Run("protected path with session is allowed", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/v1/guard/decision?path=/dashboard", "", token)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"allowed":true`)
	})

	t.Run("missing path is a 400", func(t *testing.T) {
		rec := doJSON(t, h, http.MethodGet, "/v1/guard/decision", "", "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSystemHandlers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	t.Run("livez", func(t *testing.T) {
		rec := doJSON(t, LivezHandler(time.Now()), http.MethodGet, "/livez", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"ok"`)
	})

	t.Run("readyz", func(t *testing.T) {
		rec := doJSON(t, ReadyzHandler(env.store, env.keys), http.MethodGet, "/readyz", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("jwks exposes the signing key", func(t *testing.T) {
		rec := doJSON(t, JWKSHandler(env.keys), http.MethodGet, "/.well-known/jwks.json", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"keys"`)
		require.Contains(t, rec.Body.String(), `"OKP"`)
	})
}
