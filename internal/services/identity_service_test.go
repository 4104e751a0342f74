// internal/services/identity_service_test.go
package services

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "client-123.apps.googleusercontent.com"

type jwksServer struct {
	*httptest.Server
	key     *rsa.PrivateKey
	fetches int32
}

func newJWKSServer(t *testing.T) *jwksServer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	s := &jwksServer{key: key}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&s.fetches, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"keys": []map[string]string{{
				"kid": "k1",
				"kty": "RSA",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) sign(t *testing.T, kid string, claims googleClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	raw, err := token.SignedString(s.key)
	require.NoError(t, err)
	return raw
}

func newVerifier(t *testing.T, srv *jwksServer) *GoogleVerifier {
	t.Helper()

	verifier, err := NewGoogleVerifier(testClientID, srv.URL, srv.Client())
	require.NoError(t, err)
	t.Cleanup(verifier.Close)
	return verifier
}

func validClaims() googleClaims {
	return googleClaims{
		Email: "carol@example.com",
		Name:  "Carol",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Audience:  jwt.ClaimStrings{testClientID},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestGoogleVerifierAcceptsValidToken(t *testing.T) {
	srv := newJWKSServer(t)
	verifier := newVerifier(t, srv)

	identity, err := verifier.Verify(context.Background(), srv.sign(t, "k1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", identity.Email)
	assert.Equal(t, "Carol", identity.Name)

	// Keys are cached after the first fetch.
	_, err = verifier.Verify(context.Background(), srv.sign(t, "k1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&srv.fetches))
}

func TestGoogleVerifierDefaultsName(t *testing.T) {
	srv := newJWKSServer(t)
	verifier := newVerifier(t, srv)

	claims := validClaims()
	claims.Name = ""
	identity, err := verifier.Verify(context.Background(), srv.sign(t, "k1", claims))
	require.NoError(t, err)
	assert.Equal(t, "N/A", identity.Name)
}

func TestGoogleVerifierRejects(t *testing.T) {
	srv := newJWKSServer(t)

	tests := []struct {
		name   string
		kid    string
		mutate func(*googleClaims)
	}{
		{name: "wrong audience", kid: "k1", mutate: func(c *googleClaims) { c.Audience = jwt.ClaimStrings{"someone-else"} }},
		{name: "wrong issuer", kid: "k1", mutate: func(c *googleClaims) { c.Issuer = "https://evil.example.com" }},
		{name: "expired", kid: "k1", mutate: func(c *googleClaims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour)) }},
		{name: "no expiry", kid: "k1", mutate: func(c *googleClaims) { c.ExpiresAt = nil }},
		{name: "no email", kid: "k1", mutate: func(c *googleClaims) { c.Email = "" }},
		{name: "unknown key", kid: "k2", mutate: func(*googleClaims) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newVerifier(t, srv)
			claims := validClaims()
			tt.mutate(&claims)

			_, err := verifier.Verify(context.Background(), srv.sign(t, tt.kid, claims))
			assert.ErrorIs(t, err, ErrInvalidIdentityToken)
		})
	}
}

func TestGoogleVerifierBoundsRefetchesForUnknownKeys(t *testing.T) {
	srv := newJWKSServer(t)
	verifier := newVerifier(t, srv)

	for i := 0; i < 50; i++ {
		_, err := verifier.Verify(context.Background(), srv.sign(t, "bogus", validClaims()))
		require.ErrorIs(t, err, ErrInvalidIdentityToken)
	}

	// One fetch on construction and at most one refresh for the unknown kid.
	assert.LessOrEqual(t, atomic.LoadInt32(&srv.fetches), int32(2))

	identity, err := verifier.Verify(context.Background(), srv.sign(t, "k1", validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", identity.Email)
}

func TestGoogleVerifierToleratesUnreachableKeys(t *testing.T) {
	srv := newJWKSServer(t)
	srv.Close()

	verifier, err := NewGoogleVerifier(testClientID, srv.URL, srv.Client())
	require.NoError(t, err)
	t.Cleanup(verifier.Close)

	_, err = verifier.Verify(context.Background(), srv.sign(t, "k1", validClaims()))
	assert.ErrorIs(t, err, ErrInvalidIdentityToken)
}

func TestGoogleVerifierRejectsGarbage(t *testing.T) {
	srv := newJWKSServer(t)
	verifier := newVerifier(t, srv)

	_, err := verifier.Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidIdentityToken)

	hmac := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	raw, err := hmac.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = verifier.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidIdentityToken)
}
