package main

import (
	"fmt"

	"github.com/uniquest/uniquest/jwt"
	"github.com/uniquest/uniquest/oauth2"
)

// newIdentity builds the identity from the auth section.
func newIdentity(cfg AuthConfig) (*jwt.Identity, error) {
	source, err := tokenSource(cfg)
	if err != nil {
		return nil, err
	}
	var opts []jwt.Option
	if cfg.Secret != "" {
		opts = append(opts, jwt.WithSecret([]byte(cfg.Secret)))
	}
	return jwt.New(source, opts...), nil
}

func tokenSource(cfg AuthConfig) (jwt.TokenFunc, error) {
	switch {
	case cfg.Token != "":
		return jwt.Static(cfg.Token), nil
	case cfg.TokenFile != "":
		return jwt.File(cfg.TokenFile), nil
	case cfg.OAuth2.ClientID != "":
		src, err := oauth2.New(oauth2.Config{
			ClientID:     cfg.OAuth2.ClientID,
			ClientSecret: cfg.OAuth2.ClientSecret,
			TokenURL:     cfg.OAuth2.TokenURL,
			Scopes:       cfg.OAuth2.Scopes,
			Audience:     cfg.OAuth2.Audience,
		})
		if err != nil {
			return nil, fmt.Errorf("auth.oauth2: %w", err)
		}
		return src.Token, nil
	default:
		// Signed out: every lookup reports ErrUnauthenticated.
		return jwt.Static(""), nil
	}
}
