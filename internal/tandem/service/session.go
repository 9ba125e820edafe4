package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/pkg/cryptox"
	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/slogx"
)

// ErrSessionExpiredOrMissing is httpx.ErrNoSession so RequireSession can tell
// it apart from store failures.
var ErrSessionExpiredOrMissing = httpx.ErrNoSession

const (
	DefaultSessionTTL   = 15 * time.Minute
	DefaultFormTokenTTL = 5 * time.Minute

	formTokenDigits = 6
)

// SessionService owns session lifetime. Expiry is enforced here and nowhere
// else; callers only ever see live sessions.
type SessionService struct {
	Store        store.Store
	TTL          time.Duration
	FormTokenTTL time.Duration
	Events       Publisher

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

func (s *SessionService) formTokenTTL() time.Duration {
	if s.FormTokenTTL > 0 {
		return s.FormTokenTTL
	}
	return DefaultFormTokenTTL
}

// StartSession stores a new session and returns the raw bearer token along
// with the stored record. Only the token's fingerprint is persisted.
func (s *SessionService) StartSession(ctx context.Context, data domain.SessionData) (string, domain.Session, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", domain.Session{}, err
	}

	now := s.now().UTC()
	sess := domain.Session{
		TokenHash: cryptox.FingerprintToken(token),
		Data:      data,
		ExpiresAt: now.Add(s.ttl()),
		CreatedAt: now,
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		slogx.FromContext(ctx).Error("failed to create session", slog.Any("error", err))
		return "", domain.Session{}, err
	}

	publish(s.Events, EventLogin, data.UserName)
	return token, sess, nil
}

// GetSession returns the live session for token. Expired sessions are
// deleted on sight.
func (s *SessionService) GetSession(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, ErrSessionExpiredOrMissing
	}
	hash := cryptox.FingerprintToken(token)

	sess, err := s.Store.Sessions().GetSession(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrSessionExpiredOrMissing
	}
	if err != nil {
		return domain.Session{}, err
	}

	if sess.Expired(s.now()) {
		if err := s.Store.Sessions().DeleteSession(ctx, hash); err != nil {
			slogx.FromContext(ctx).Warn("failed to delete expired session", slog.Any("error", err))
		}
		return domain.Session{}, ErrSessionExpiredOrMissing
	}
	return sess, nil
}

// ResolveSession returns the username owning a live session.
func (s *SessionService) ResolveSession(ctx context.Context, token string) (string, error) {
	sess, err := s.GetSession(ctx, token)
	if err != nil {
		return "", err
	}
	return sess.Data.UserName, nil
}

// EndSession deletes the session. Unknown tokens are not an error.
func (s *SessionService) EndSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Store.Sessions().DeleteSession(ctx, cryptox.FingerprintToken(token))
}

// IssueFormToken attaches a fresh numeric code to the session, replacing
// any earlier one.
func (s *SessionService) IssueFormToken(ctx context.Context, token string) (domain.FormToken, error) {
	if _, err := s.GetSession(ctx, token); err != nil {
		return domain.FormToken{}, err
	}

	code, err := cryptox.GenerateNumericCode(formTokenDigits)
	if err != nil {
		return domain.FormToken{}, err
	}

	ft := domain.FormToken{Code: code, ExpiresAt: s.now().UTC().Add(s.formTokenTTL())}
	err = s.Store.Sessions().SetFormToken(ctx, cryptox.FingerprintToken(token), ft)
	if errors.Is(err, store.ErrNotFound) {
		return domain.FormToken{}, ErrSessionExpiredOrMissing
	}
	if err != nil {
		return domain.FormToken{}, err
	}
	return ft, nil
}

// ConsumeFormToken clears the session's form token and reports whether code
// matched it. The token is gone afterwards whatever the outcome.
func (s *SessionService) ConsumeFormToken(ctx context.Context, token, code string) error {
	if _, err := s.GetSession(ctx, token); err != nil {
		return err
	}

	ft, err := s.Store.Sessions().TakeFormToken(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return ErrSessionExpiredOrMissing
	}
	if err != nil {
		return err
	}

	if ft == nil || ft.Expired(s.now()) || !cryptox.EqualCodes(ft.Code, code) {
		return ErrInvalidToken
	}
	return nil
}

// DeleteExpired removes every session past its expiry.
func (s *SessionService) DeleteExpired(ctx context.Context) (int64, error) {
	return s.Store.Sessions().DeleteExpiredSessions(ctx, s.now())
}
