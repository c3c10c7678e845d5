// Package ops implements the broker tool operations: thin compositions of
// the session manager and the request client, one per tool.
package ops

import (
	"context"

	"finvasia-agent/internal/interfaces"
	"finvasia-agent/internal/noren"
)

// TokenSource supplies a live session token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Caller issues broker requests.
type Caller interface {
	Call(ctx context.Context, endpoint string, payload map[string]string, token string) noren.Response
}

// Service executes tool operations for a single account.
type Service struct {
	uid     string
	session TokenSource
	client  Caller
}

var _ interfaces.Operations = (*Service)(nil)

// NewService creates the operations service. uid is the account identifier
// injected into every payload.
func NewService(uid string, session TokenSource, client Caller) *Service {
	return &Service{uid: uid, session: session, client: client}
}

// authed runs fn with a live token, degrading to a Not_Ok response when the
// session cannot be established. No operation retries internally.
func (s *Service) authed(ctx context.Context, fn func(token string) noren.Response) noren.Response {
	token, err := s.session.Token(ctx)
	if err != nil {
		return noren.Fail(err.Error())
	}
	return fn(token)
}
