// Package guard is the route-level authorization boundary. Decide is a pure
// function from (path, query, session) to an outcome; it performs no I/O and
// is total over its inputs.
package guard

import (
	"net/url"
	"strings"

	"github.com/inkwell-hq/inkwell/pkg/jwtx"
)

// DefaultLanding is where authenticated users land when they hit an
// auth-only page.
const DefaultLanding = "/dashboard"

// LoginPath is where unauthenticated users are sent to pick up a session.
const LoginPath = "/login"

// Decision is the outcome for one request: either let it through or redirect
// it somewhere else. Exactly one of the two applies.
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

func allow() Decision             { return Decision{Allowed: true} }
func redirect(to string) Decision { return Decision{RedirectTo: to} }

// authOnlyRoutes are reachable only without a session; a logged-in visitor
// gets bounced to the dashboard.
var authOnlyRoutes = map[string]bool{
	"/login":           true,
	"/signup":          true,
	"/register":        true,
	"/forgot-password": true,
}

// protectedPrefixes require a valid session.
var protectedPrefixes = []string{
	"/dashboard",
	"/profile/dashboard",
	"/settings",
	"/posts/new",
}

// Decide maps a request to exactly one outcome. ident is nil when the
// request carries no valid session; validation happens upstream, so by the
// time a claims object reaches here it is trusted.
func Decide(path string, query url.Values, ident *jwtx.SessionIdentity) Decision {
	path = normalizePath(path)
	hasSession := ident != nil

	if authOnlyRoutes[path] {
		if hasSession {
			return redirect(DefaultLanding)
		}
		return allow()
	}

	if path == "/verify-email" {
		// Reachable via emailed link (code or email in the query) or by a
		// signed-in user who still needs to verify. Everyone else goes home.
		if query.Get("code") != "" || query.Get("email") != "" {
			return allow()
		}
		if hasSession && !ident.EmailVerified {
			return allow()
		}
		return redirect("/")
	}

	if isProtected(path) {
		if hasSession {
			return allow()
		}
		return redirect(LoginPath + "?callbackUrl=" + url.QueryEscape(path))
	}

	// Everything else is public.
	return allow()
}

func isProtected(path string) bool {
	for _, p := range protectedPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	// Post editing: /posts/{id}/edit
	if strings.HasPrefix(path, "/posts/") && strings.HasSuffix(path, "/edit") {
		return true
	}
	return false
}

// normalizePath strips a trailing slash so "/dashboard/" and "/dashboard"
// decide identically. The root path stays as-is.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
