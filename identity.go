package uniquest

import "context"

// User is the authenticated account the client acts for.
type User struct {
	ID    string
	Name  string
	Email string
}

// Identity supplies the current user and a bearer credential.
//
// Token is called once per outbound request and must not be cached by
// callers: credentials may rotate or expire between turns.
type Identity interface {
	CurrentUser(ctx context.Context) (*User, error)
	Token(ctx context.Context) (string, error)
}
