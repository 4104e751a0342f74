// internal/services/identity_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

var ErrInvalidIdentityToken = errors.New("invalid identity token")

var googleIssuers = []string{"accounts.google.com", "https://accounts.google.com"}

// Identity is what a trusted third party vouches for.
type Identity struct {
	Email string
	Name  string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type googleClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// GoogleVerifier checks Google ID tokens against Google's published signing
// keys. Keys are refreshed hourly, and on an unknown kid at most once a
// minute.
type GoogleVerifier struct {
	clientID string
	jwks     *keyfunc.JWKS
}

const (
	jwksRefreshInterval  = time.Hour
	jwksRefreshRateLimit = time.Minute
	jwksRefreshTimeout   = 10 * time.Second
)

func NewGoogleVerifier(clientID, certsURL string, httpClient *http.Client) (*GoogleVerifier, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: jwksRefreshTimeout}
	}

	jwks, err := keyfunc.Get(certsURL, keyfunc.Options{
		Client:            httpClient,
		RefreshInterval:   jwksRefreshInterval,
		RefreshRateLimit:  jwksRefreshRateLimit,
		RefreshTimeout:    jwksRefreshTimeout,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			logrus.WithError(err).WithField("url", certsURL).Warn("Failed to refresh Google signing keys")
		},
		TolerateInitialJWKHTTPError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load Google signing keys: %w", err)
	}

	return &GoogleVerifier{clientID: clientID, jwks: jwks}, nil
}

// Close stops the background key refresh.
func (v *GoogleVerifier) Close() {
	v.jwks.EndBackground()
}

func (v *GoogleVerifier) Verify(ctx context.Context, raw string) (*Identity, error) {
	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.jwks.Keyfunc(token)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentityToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidIdentityToken
	}

	if !claims.VerifyAudience(v.clientID, true) {
		return nil, fmt.Errorf("%w: wrong audience", ErrInvalidIdentityToken)
	}
	if !validIssuer(claims) {
		return nil, fmt.Errorf("%w: wrong issuer %q", ErrInvalidIdentityToken, claims.Issuer)
	}
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry", ErrInvalidIdentityToken)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email", ErrInvalidIdentityToken)
	}

	name := claims.Name
	if name == "" {
		name = "N/A"
	}
	return &Identity{Email: claims.Email, Name: name}, nil
}

func validIssuer(claims *googleClaims) bool {
	for _, iss := range googleIssuers {
		if claims.VerifyIssuer(iss, true) {
			return true
		}
	}
	return false
}
