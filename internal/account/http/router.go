package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/inkwell-hq/inkwell/internal/account/metrics"
	"github.com/inkwell-hq/inkwell/internal/account/service"
	"github.com/inkwell-hq/inkwell/internal/account/store"
	"github.com/inkwell-hq/inkwell/pkg/httpx"
	"github.com/inkwell-hq/inkwell/pkg/jwtx"
	"github.com/inkwell-hq/inkwell/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys      *jwtx.KeySet
	verifier  jwtx.Verifier
	startTime time.Time
	logger    *slog.Logger

	store               store.Store
	CredentialService   *service.CredentialService
	SessionService      *service.SessionService
	VerificationService *service.VerificationService
	Metrics             *metrics.Collector
}

func NewRouter(
	keys *jwtx.KeySet,
	verifier jwtx.Verifier,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:       http.NewServeMux(),
		keys:      keys,
		verifier:  verifier,
		startTime: time.Now(),
		store:     st,
		logger:    logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccount()
	r.registerGuard()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccount() {
	signup := &SignupHandler{Credentials: r.CredentialService}
	r.Mux.Handle("POST /v1/account/signup",
		httpx.Chain(signup,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	login := &LoginHandler{Sessions: r.SessionService}
	r.Mux.Handle("POST /v1/account/login",
		httpx.Chain(login,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	me := &MeHandler{Credentials: r.CredentialService}
	r.Mux.Handle("GET /v1/account/me",
		httpx.Chain(me,
			httpx.RequireSession(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)

	verify := &VerifyEmailHandler{Verification: r.VerificationService}
	// Request a code: authenticated, strict per-user so the 60s resend
	// throttle isn't the only brake.
	r.Mux.Handle("POST /v1/account/verify-email/request",
		httpx.Chain(http.HandlerFunc(verify.HandleRequest),
			httpx.RequireSession(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
	// Consume a code: public, arrives via emailed link.
	r.Mux.Handle("POST /v1/account/verify-email",
		httpx.Chain(http.HandlerFunc(verify.HandleVerify),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	reset := &PasswordResetHandler{Verification: r.VerificationService}
	r.Mux.Handle("POST /v1/account/password-reset/request",
		httpx.Chain(http.HandlerFunc(reset.HandleRequest),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/account/password-reset",
		httpx.Chain(http.HandlerFunc(reset.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	password := &PasswordHandler{Credentials: r.CredentialService}
	r.Mux.Handle("POST /v1/account/password",
		httpx.Chain(password,
			httpx.RequireSession(r.verifier),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)

	profile := &ProfileHandler{Credentials: r.CredentialService}
	r.Mux.Handle("PATCH /v1/account/profile",
		httpx.Chain(profile,
			httpx.RequireSession(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerGuard() {
	guard := &GuardHandler{Verifier: r.verifier}
	r.Mux.Handle("GET /v1/guard/decision",
		httpx.Chain(guard,
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)

	r.Mux.Handle("GET /livez", LivezHandler(r.startTime))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.store, r.keys))

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
