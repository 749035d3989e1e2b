package platform

import (
	"context"
	"errors"
)

// ErrNoToken is returned when no marketplace access token is available.
var ErrNoToken = errors.New("no access token configured")

// TokenProvider hands out a valid marketplace bearer token.
// Obtaining and refreshing tokens happens outside this module.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenProvider for a token injected through configuration.
type StaticToken string

func (s StaticToken) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrNoToken
	}
	return string(s), nil
}
