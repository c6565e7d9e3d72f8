// Package jwt implements [uniquest.Identity] on top of a bearer JWT.
//
// The token is obtained from a [TokenFunc] on every call so rotated
// credentials are picked up without restarting. Claims are read without
// verifying the signature unless a shared secret is configured; the backend
// is the party that enforces authenticity.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/uniquest/uniquest"
)

// Interface compliance check.
var _ uniquest.Identity = (*Identity)(nil)

// TokenFunc returns the current bearer token.
type TokenFunc func(ctx context.Context) (string, error)

// Static returns a TokenFunc that always yields token.
func Static(token string) TokenFunc {
	return func(context.Context) (string, error) { return token, nil }
}

// File returns a TokenFunc that reads the token from path on every call.
func File(path string) TokenFunc {
	return func(context.Context) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// Identity resolves the signed-in user from the claims of a bearer JWT.
type Identity struct {
	source TokenFunc
	secret []byte
	now    func() time.Time
}

// Option configures an [Identity].
type Option func(*Identity)

// WithSecret enables HS256 signature verification with secret.
func WithSecret(secret []byte) Option {
	return func(i *Identity) { i.secret = secret }
}

// WithClock sets the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(i *Identity) { i.now = now }
}

// New creates an [Identity] backed by source.
func New(source TokenFunc, opts ...Option) *Identity {
	i := &Identity{source: source, now: time.Now}
	for _, o := range opts {
		o(i)
	}
	return i
}

// Token returns the bearer token with surrounding whitespace and any
// "Bearer " prefix removed.
func (i *Identity) Token(ctx context.Context) (string, error) {
	tok, err := i.source(ctx)
	if err != nil {
		return "", fmt.Errorf("jwt: %w: %w", uniquest.ErrUnauthenticated, err)
	}
	tok = strings.TrimSpace(tok)
	tok = strings.TrimSpace(strings.TrimPrefix(tok, "Bearer "))
	if tok == "" {
		return "", fmt.Errorf("jwt: no token: %w", uniquest.ErrUnauthenticated)
	}
	return tok, nil
}

// CurrentUser returns the user named by the token's "sub" claim, with the
// optional "name" and "email" claims.
func (i *Identity) CurrentUser(ctx context.Context) (*uniquest.User, error) {
	tok, err := i.Token(ctx)
	if err != nil {
		return nil, err
	}
	claims, err := i.parse(tok)
	if err != nil {
		return nil, err
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("jwt: missing sub claim: %w", uniquest.ErrUnauthenticated)
	}
	u := &uniquest.User{ID: sub}
	u.Name, _ = claims["name"].(string)
	u.Email, _ = claims["email"].(string)
	return u, nil
}

func (i *Identity) parse(tok string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	if len(i.secret) > 0 {
		_, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return i.secret, nil
		}, jwt.WithTimeFunc(i.now))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("jwt: token expired: %w", uniquest.ErrUnauthenticated)
		}
		if err != nil {
			return nil, fmt.Errorf("jwt: %w: %v", uniquest.ErrUnauthenticated, err)
		}
		return claims, nil
	}

	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return nil, fmt.Errorf("jwt: %w: %v", uniquest.ErrUnauthenticated, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("jwt: %w: %v", uniquest.ErrUnauthenticated, err)
	}
	if exp != nil && !i.now().Before(exp.Time) {
		return nil, fmt.Errorf("jwt: token expired: %w", uniquest.ErrUnauthenticated)
	}
	return claims, nil
}
