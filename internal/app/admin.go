package app

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"service_directory/internal/domain"
)

const (
	DefaultAdminPassword = "admin@123"
	MinPasswordLength    = 6
	authSentinel         = "true"
)

// AdminGate compares a single shared secret in plaintext. It gates UI actions
// for convenience and provides no security.
type AdminGate struct {
	durable domain.KeyValueStore
	session domain.KeyValueStore
	log     zerolog.Logger

	mu       sync.Mutex
	password string // cached once read; in-memory value wins if storage fails
}

func NewAdminGate(durable, session domain.KeyValueStore, log zerolog.Logger) *AdminGate {
	return &AdminGate{durable: durable, session: session, log: log}
}

// Password returns the shared secret, writing the default on first access.
// A storage read failure is returned as domain.ErrUnavailable; the default
// is only used when nothing is stored.
func (g *AdminGate) Password(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.passwordLocked(ctx)
}

func (g *AdminGate) passwordLocked(ctx context.Context) (string, error) {
	if g.password != "" {
		return g.password, nil
	}
	stored, ok, err := g.durable.Get(ctx, domain.KeyAdminPassword)
	switch {
	case err != nil:
		g.log.Error().Err(err).Msg("error reading admin password")
		return "", fmt.Errorf("%w: read admin password: %w", domain.ErrUnavailable, err)
	case ok && stored != "":
		g.password = stored
	default:
		g.password = DefaultAdminPassword
		if err := g.durable.Set(ctx, domain.KeyAdminPassword, DefaultAdminPassword); err != nil {
			g.log.Error().Err(err).Msg("error saving default admin password")
		}
	}
	return g.password, nil
}

// Login returns a new session id when password equals the shared secret.
func (g *AdminGate) Login(ctx context.Context, password string) (string, error) {
	secret, err := g.Password(ctx)
	if err != nil {
		return "", err
	}
	if password != secret {
		g.log.Warn().Msg("admin login rejected")
		return "", domain.ErrInvalidCredentials
	}
	sid := xid.New().String()
	if err := g.session.Set(ctx, domain.KeyAdminAuthPrefix+sid, authSentinel); err != nil {
		// the caller still gets a session id, it just won't survive a lookup
		g.log.Error().Err(err).Msg("error saving admin session")
	}
	g.log.Info().Str("session", sid).Msg("admin logged in")
	return sid, nil
}

func (g *AdminGate) IsAuthenticated(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return false
	}
	v, ok, err := g.session.Get(ctx, domain.KeyAdminAuthPrefix+sessionID)
	if err != nil {
		g.log.Error().Err(err).Msg("error reading admin session")
		return false
	}
	return ok && v == authSentinel
}

func (g *AdminGate) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := g.session.Remove(ctx, domain.KeyAdminAuthPrefix+sessionID); err != nil {
		g.log.Error().Err(err).Msg("error clearing admin session")
	}
}

// ChangePassword re-checks the current secret before overwriting it.
// There is no recovery path for a forgotten secret.
func (g *AdminGate) ChangePassword(ctx context.Context, current, next, confirm string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	secret, err := g.passwordLocked(ctx)
	if err != nil {
		return err
	}
	if current != secret {
		return domain.ErrInvalidCredentials
	}
	if utf8.RuneCountInString(next) < MinPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if next != confirm {
		return domain.ErrPasswordMismatch
	}
	g.password = next
	if err := g.durable.Set(ctx, domain.KeyAdminPassword, next); err != nil {
		g.log.Error().Err(err).Msg("error saving admin password")
	}
	g.log.Info().Msg("admin password changed")
	return nil
}
