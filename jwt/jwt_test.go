package jwt_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/jwt"
)

var secret = []byte("test-secret")

func sign(t *testing.T, claims gojwt.MapClaims) string {
	t.Helper()
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return tok
}

func TestIdentity_CurrentUser(t *testing.T) {
	t.Parallel()

	tok := sign(t, gojwt.MapClaims{
		"sub":   "user_2abc",
		"name":  "Asha",
		"email": "asha@example.edu",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	id := jwt.New(jwt.Static(tok))

	u, err := id.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &uniquest.User{ID: "user_2abc", Name: "Asha", Email: "asha@example.edu"}, u)

	got, err := id.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tok, got)
}

func TestIdentity_TokenNormalisation(t *testing.T) {
	t.Parallel()
	tok := sign(t, gojwt.MapClaims{"sub": "u"})

	got, err := jwt.New(jwt.Static("  Bearer " + tok + "\n")).Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tok, got)
}

func TestIdentity_Unauthenticated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source jwt.TokenFunc
	}{
		{"empty token", jwt.Static("")},
		{"garbage", jwt.Static("not-a-jwt")},
		{"missing sub", jwt.Static(sign(t, gojwt.MapClaims{"name": "x"}))},
		{"expired", jwt.Static(sign(t, gojwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Minute).Unix()}))},
		{"source failure", func(context.Context) (string, error) { return "", errors.New("keychain locked") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := jwt.New(tt.source).CurrentUser(context.Background())
			assert.ErrorIs(t, err, uniquest.ErrUnauthenticated)
		})
	}
}

func TestIdentity_Clock(t *testing.T) {
	t.Parallel()
	exp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := sign(t, gojwt.MapClaims{"sub": "u", "exp": exp.Unix()})

	before := jwt.New(jwt.Static(tok), jwt.WithClock(func() time.Time { return exp.Add(-time.Second) }))
	_, err := before.CurrentUser(context.Background())
	assert.NoError(t, err)

	after := jwt.New(jwt.Static(tok), jwt.WithClock(func() time.Time { return exp.Add(time.Second) }))
	_, err = after.CurrentUser(context.Background())
	assert.ErrorIs(t, err, uniquest.ErrUnauthenticated)
}

func TestIdentity_WithSecret(t *testing.T) {
	t.Parallel()
	tok := sign(t, gojwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()})

	u, err := jwt.New(jwt.Static(tok), jwt.WithSecret(secret)).CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u", u.ID)

	_, err = jwt.New(jwt.Static(tok), jwt.WithSecret([]byte("other"))).CurrentUser(context.Background())
	assert.ErrorIs(t, err, uniquest.ErrUnauthenticated)

	expired := sign(t, gojwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()})
	_, err = jwt.New(jwt.Static(expired), jwt.WithSecret(secret)).CurrentUser(context.Background())
	assert.ErrorIs(t, err, uniquest.ErrUnauthenticated)
}

func TestFile_ReadsOnEveryCall(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "token")
	first := sign(t, gojwt.MapClaims{"sub": "first"})
	second := sign(t, gojwt.MapClaims{"sub": "second"})

	id := jwt.New(jwt.File(path))
	require.NoError(t, os.WriteFile(path, []byte(first+"\n"), 0o600))
	u, err := id.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", u.ID)

	require.NoError(t, os.WriteFile(path, []byte(second), 0o600))
	u, err = id.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", u.ID)
}

func TestFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := jwt.New(jwt.File(filepath.Join(t.TempDir(), "nope"))).Token(context.Background())
	assert.ErrorIs(t, err, uniquest.ErrUnauthenticated)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
