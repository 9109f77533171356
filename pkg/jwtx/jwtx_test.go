package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, kid string) *EdDSASigner {
	t.Helper()
	s, err := NewEphemeralSignerEdDSA(kid)
	require.NoError(t, err)
	return s
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "session-key-1")

	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := NewSessionClaims(
		"01JC0USER00000000000000000", "sid-1",
		"user", "inkling", "Ink Ling", "https://cdn.example/a.png",
		true,
		DefaultSessionTTL,
		"inkwell-account",
		[]string{"inkwell-web"},
		time.Now(),
	)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	v := NewVerifierEdDSA(keys, "inkwell-account", []string{"inkwell-web"})
	got, err := v.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01JC0USER00000000000000000", got.Subject)
	require.Equal(t, "sid-1", got.SID)
	require.Equal(t, "user", got.Role)
	require.Equal(t, "inkling", got.Username)
	require.True(t, got.EmailVerified)

	id := got.Identity()
	require.Equal(t, got.Subject, id.UserID)
	require.Equal(t, got.Avatar, id.Avatar)
}

func TestVerifyFailsClosed(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "kid-a")
	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))
	v := NewVerifierEdDSA(keys, "inkwell-account", nil)

	now := time.Now()

	t.Run("garbage token", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := NewSessionClaims("u1", "s1", "user", "x", "", "", false,
			-time.Minute, "inkwell-account", nil, now)
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, ErrExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := NewSessionClaims("u1", "s1", "user", "x", "", "", false,
			time.Hour, "someone-else", nil, now)
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.ErrorIs(t, err, ErrIssuer)
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := newTestSigner(t, "kid-b")
		claims := NewSessionClaims("u1", "s1", "user", "x", "", "", false,
			time.Hour, "inkwell-account", nil, now)
		token, err := other.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token)
		require.Error(t, err)
	})

	t.Run("tampered signature", func(t *testing.T) {
		claims := NewSessionClaims("u1", "s1", "user", "x", "", "", false,
			time.Hour, "inkwell-account", nil, now)
		token, err := signer.Sign(claims)
		require.NoError(t, err)

		_, err = v.Verify(token[:len(token)-3] + "xxx")
		require.Error(t, err)
	})
}

func TestPEMRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newTestSigner(t, "persisted")
	pemBytes, err := signer.MarshalPKCS8PEM()
	require.NoError(t, err)

	reloaded, err := NewSignerEdDSA("persisted", pemBytes)
	require.NoError(t, err)

	keys := NewKeySet()
	require.NoError(t, keys.AddSigner(signer))

	claims := NewSessionClaims("u1", "s1", "user", "x", "", "", false,
		time.Hour, "", nil, time.Now())
	token, err := reloaded.Sign(claims)
	require.NoError(t, err)

	// The reloaded signer's tokens verify against the original public key.
	v := NewVerifierEdDSA(keys, "", nil)
	_, err = v.Verify(token)
	require.NoError(t, err)
}

func TestKeySetJWKS(t *testing.T) {
	t.Parallel()

	keys := NewKeySet()
	require.False(t, keys.IsReady())

	signer := newTestSigner(t, "k1")
	require.NoError(t, keys.AddSigner(signer))
	require.True(t, keys.IsReady())

	jwks := keys.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)
	require.Equal(t, "k1", jwks.Keys[0].Kid)

	_, err := keys.Get("missing")
	require.ErrorIs(t, err, ErrNoKey)
}
