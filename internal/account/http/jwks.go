package http

import (
	"net/http"

	"github.com/inkwell-hq/inkwell/pkg/httpx"
	"github.com/inkwell-hq/inkwell/pkg/jwtx"
)

// JWKSHandler exposes the JSON Web Key Set so other services can verify
// session tokens without sharing private keys.
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, keys.PublicJWKS())
	}
}
