// Package session derives and caches the broker session token. The login
// handshake hashes the password and the uid|apikey pair and carries a
// time-based one-time password computed at send time.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/pquerna/otp/totp"

	"finvasia-agent/internal/creds"
	"finvasia-agent/internal/logger"
	"finvasia-agent/internal/noren"
)

// DefaultTTL is the client-side token lifetime. It is a conservative cache
// bound independent of the server's actual session lifetime, so renewal is
// proactive rather than driven by server rejections.
const DefaultTTL = 15 * time.Minute

// AuthError reports a failed token derivation.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Reason
}

// state is an immutable session value. Renewal swaps the whole value, never
// mutates fields, so concurrent readers see either the old or the new
// session but nothing torn.
type state struct {
	token     string
	issuedAt  time.Time
	expiresAt time.Time
}

// Manager owns the process-wide session. Renewal is not single-flighted:
// login is idempotent, concurrent renewals each produce a valid token and
// the last write wins.
type Manager struct {
	creds      creds.Credentials
	client     *noren.Client
	ttl        time.Duration
	appVersion string
	now        func() time.Time

	current atomic.Pointer[state]
}

// Option configures the manager
type Option func(*Manager)

// WithTTL overrides the client-side token lifetime
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithAppVersion overrides the apkversion reported on login
func WithAppVersion(v string) Option {
	return func(m *Manager) {
		m.appVersion = v
	}
}

// WithClock replaces the time source (used by tests)
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a session manager over the given credentials and client
func NewManager(c creds.Credentials, client *noren.Client, opts ...Option) *Manager {
	m := &Manager{
		creds:      c,
		client:     client,
		ttl:        DefaultTTL,
		appVersion: "go:1.0.0",
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Token returns a live session token, reusing the cached one when it has
// not expired and performing the login handshake otherwise. A failed
// renewal leaves the cached session untouched.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if s := m.current.Load(); s != nil && m.now().Before(s.expiresAt) {
		return s.token, nil
	}
	return m.renew(ctx)
}

func (m *Manager) renew(ctx context.Context) (string, error) {
	otpCode, err := totp.GenerateCode(m.creds.TOTPSecret, m.now())
	if err != nil {
		return "", &AuthError{Reason: "generating one-time password: " + err.Error()}
	}

	payload := map[string]string{
		"source":     "API",
		"apkversion": m.appVersion,
		"uid":        m.creds.UserID,
		"pwd":        sha256Hex(m.creds.Password),
		"factor2":    otpCode,
		"vc":         m.creds.VendorKey,
		"appkey":     sha256Hex(m.creds.UserID + "|" + m.creds.APIKey),
		"imei":       m.creds.IMEI,
	}

	resp := m.client.Call(ctx, noren.EndpointQuickAuth, payload, "")
	if !resp.OK() {
		logger.Warn(ctx, "Login rejected by broker", "emsg", resp.Emsg)
		return "", &AuthError{Reason: resp.Emsg}
	}

	var login struct {
		Token string `json:"susertoken"`
	}
	if err := json.Unmarshal(resp.Raw, &login); err != nil || login.Token == "" {
		return "", &AuthError{Reason: "login response missing susertoken"}
	}

	issued := m.now()
	m.current.Store(&state{
		token:     login.Token,
		issuedAt:  issued,
		expiresAt: issued.Add(m.ttl),
	})

	logger.Info(ctx, "Session renewed", "expires_at", issued.Add(m.ttl).Format(time.RFC3339))
	return login.Token, nil
}

// Invalidate drops the cached session so the next Token call re-authenticates
func (m *Manager) Invalidate() {
	m.current.Store(nil)
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
