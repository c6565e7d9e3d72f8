// Package oauth2 obtains bearer tokens with the OAuth2 client-credentials
// grant. It is the token source for unattended use of the CLI, where no
// interactive sign-in is available.
package oauth2

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Config describes a client-credentials registration.
type Config struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	// Audience is sent as the "audience" parameter when set.
	Audience string
}

// Validate checks that the registration is usable.
func (c Config) Validate() error {
	var errs []error
	if c.ClientID == "" {
		errs = append(errs, errors.New("client_id is required"))
	}
	if c.ClientSecret == "" {
		errs = append(errs, errors.New("client_secret is required"))
	}
	if c.TokenURL == "" {
		errs = append(errs, errors.New("token_url is required"))
	}
	return errors.Join(errs...)
}

// Source hands out access tokens, fetching a new one only when the cached
// token has expired.
type Source struct {
	cfg *clientcredentials.Config

	mu sync.Mutex
	ts oauth2.TokenSource
}

// New creates a Source for cfg.
func New(cfg Config) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("oauth2: %w", err)
	}
	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	if cfg.Audience != "" {
		cc.EndpointParams = map[string][]string{"audience": {cfg.Audience}}
	}
	return &Source{cfg: cc}, nil
}

// Token returns a valid access token. Values of the first call's context,
// such as an oauth2.HTTPClient, are kept for later refreshes; its
// cancellation is not.
func (s *Source) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	if s.ts == nil {
		s.ts = oauth2.ReuseTokenSource(nil, s.cfg.TokenSource(context.WithoutCancel(ctx)))
	}
	ts := s.ts
	s.mu.Unlock()

	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("oauth2: %w", err)
	}
	return tok.AccessToken, nil
}
