package session

import (
	"context"
	"errors"

	"github.com/megomed/marketplace/internal/role"
)

// Credentials are forwarded to the marketplace backend on behalf of the caller.
type Credentials struct {
	Token string
	Role  role.Role
}

var ErrUnauthenticated = errors.New("unauthenticated")

type credentialsKey struct{}

func WithCredentials(ctx context.Context, creds Credentials) context.Context {
	return context.WithValue(ctx, credentialsKey{}, creds)
}

func CredentialsFromContext(ctx context.Context) (Credentials, bool) {
	if ctx == nil {
		return Credentials{}, false
	}
	creds, ok := ctx.Value(credentialsKey{}).(Credentials)
	if !ok || creds.Token == "" {
		return Credentials{}, false
	}
	return creds, true
}
