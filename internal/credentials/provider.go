package credentials

import (
	"context"
	"errors"
	"os"
	"strings"
)

// EnvToken is the environment variable that overrides the stored token.
const EnvToken = "ZYNOR_TOKEN"

// ErrEmptyToken is returned when an empty token is about to be stored.
var ErrEmptyToken = errors.New("token is empty")

// Provider supplies a bearer token. It matches api.CredentialProvider.
type Provider interface {
	Token(ctx context.Context) (string, bool)
}

// Env reads the token from an environment variable on every call.
type Env string

// Token implements Provider.
func (e Env) Token(context.Context) (string, bool) {
	token := strings.TrimSpace(os.Getenv(string(e)))
	return token, token != ""
}

// Chain returns the first token any of its providers has.
type Chain []Provider

// Token implements Provider.
func (c Chain) Token(ctx context.Context) (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if token, ok := p.Token(ctx); ok {
			return token, true
		}
	}
	return "", false
}
