package mock

import (
	"context"

	"github.com/uniquest/uniquest"
)

// Interface compliance check.
var _ uniquest.Identity = (*Identity)(nil)

// Identity is a test double for uniquest.Identity.
// CurrentUserFn panics when nil to catch missing setup. TokenFn is nil-safe
// and returns an empty token, since many tests never look at credentials.
type Identity struct {
	CurrentUserFn func(ctx context.Context) (*uniquest.User, error)
	TokenFn       func(ctx context.Context) (string, error)
}

// CurrentUser delegates to CurrentUserFn.
func (i *Identity) CurrentUser(ctx context.Context) (*uniquest.User, error) {
	return i.CurrentUserFn(ctx)
}

// Token delegates to TokenFn. Returns "" when TokenFn is not set.
func (i *Identity) Token(ctx context.Context) (string, error) {
	if i.TokenFn == nil {
		return "", nil
	}
	return i.TokenFn(ctx)
}

// SignedIn returns an Identity for a fixed user and token.
func SignedIn(userID, token string) *Identity {
	return &Identity{
		CurrentUserFn: func(context.Context) (*uniquest.User, error) {
			return &uniquest.User{ID: userID}, nil
		},
		TokenFn: func(context.Context) (string, error) {
			return token, nil
		},
	}
}

// SignedOut returns an Identity with no current user.
func SignedOut() *Identity {
	return &Identity{
		CurrentUserFn: func(context.Context) (*uniquest.User, error) {
			return nil, uniquest.ErrUnauthenticated
		},
	}
}
