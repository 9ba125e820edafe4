package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newSessionService(t *testing.T) (*SessionService, *fakeClock, *recordingPublisher) {
	t.Helper()
	clock := &fakeClock{now: time.Now().UTC().Truncate(time.Millisecond)}
	events := &recordingPublisher{}
	return &SessionService{Store: newStore(t), Now: clock.Now, Events: events}, clock, events
}

func TestStartAndGetSession(t *testing.T) {
	ctx := context.Background()
	sessions, clock, events := newSessionService(t)

	token, sess, err := sessions.StartSession(ctx, domain.SessionData{UserName: "alice", UserAgent: "test"})
	require.NoError(t, err)
	require.Len(t, token, 43)
	require.Equal(t, cryptox.FingerprintToken(token), sess.TokenHash)
	require.Equal(t, clock.now.Add(DefaultSessionTTL), sess.ExpiresAt)
	require.Equal(t, []Event{{Kind: EventLogin, Username: "alice"}}, events.Events())

	got, err := sessions.GetSession(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Data.UserName)
	require.Equal(t, "test", got.Data.UserAgent)

	username, err := sessions.ResolveSession(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "alice", username)

	_, err = sessions.GetSession(ctx, "unknown")
	require.ErrorIs(t, err, ErrSessionExpiredOrMissing)
	_, err = sessions.GetSession(ctx, "")
	require.ErrorIs(t, err, ErrSessionExpiredOrMissing)
}

func TestGetSessionEnforcesExpiry(t *testing.T) {
	ctx := context.Background()
	sessions, clock, _ := newSessionService(t)

	token, _, err := sessions.StartSession(ctx, domain.SessionData{UserName: "alice"})
	require.NoError(t, err)

	clock.Advance(DefaultSessionTTL - time.Millisecond)
	_, err = sessions.GetSession(ctx, token)
	require.NoError(t, err)

	clock.Advance(time.Millisecond)
	_, err = sessions.GetSession(ctx, token)
	require.ErrorIs(t, err, ErrSessionExpiredOrMissing)

	// The expired record was removed, not just hidden.
	_, err = sessions.Store.Sessions().GetSession(ctx, cryptox.FingerprintToken(token))
	require.Error(t, err)
}

func TestEndSession(t *testing.T) {
	ctx := context.Background()
	sessions, _, _ := newSessionService(t)

	token, _, err := sessions.StartSession(ctx, domain.SessionData{UserName: "alice"})
	require.NoError(t, err)

	require.NoError(t, sessions.EndSession(ctx, token))
	_, err = sessions.GetSession(ctx, token)
	require.ErrorIs(t, err, ErrSessionExpiredOrMissing)

	require.NoError(t, sessions.EndSession(ctx, token))
	require.NoError(t, sessions.EndSession(ctx, ""))
}

func TestFormTokenSingleUse(t *testing.T) {
	ctx := context.Background()
	sessions, clock, _ := newSessionService(t)

	token, _, err := sessions.StartSession(ctx, domain.SessionData{UserName: "alice"})
	require.NoError(t, err)

	ft, err := sessions.IssueFormToken(ctx, token)
	require.NoError(t, err)
	require.Len(t, ft.Code, 6)
	require.Equal(t, clock.now.Add(DefaultFormTokenTTL), ft.ExpiresAt)

	require.NoError(t, sessions.ConsumeFormToken(ctx, token, ft.Code))
	require.ErrorIs(t, sessions.ConsumeFormToken(ctx, token, ft.Code), ErrInvalidToken)
}

func TestFormTokenWrongCodeBurnsToken(t *testing.T) {
	ctx := context.Background()
	sessions, _, _ := newSessionService(t)

	token, _, err := sessions.StartSession(ctx, domain.SessionData{UserName: "alice"})
	require.NoError(t, err)

	ft, err := sessions.IssueFormToken(ctx, token)
	require.NoError(t, err)

	wrong := "000000"
	if ft.Code == wrong {
		wrong = "111111"
	}
	require.ErrorIs(t, sessions.ConsumeFormToken(ctx, token, wrong), ErrInvalidToken)
	require.ErrorIs(t, sessions.ConsumeFormToken(ctx, token, ft.Code), ErrInvalidToken)
}

func TestFormTokenExpiry(t *testing.T) {
	ctx := context.Background()
	sessions, clock, _ := newSessionService(t)
	sessions.TTL = time.Hour

	token, _, err := sessions.StartSession(ctx, domain.SessionData{UserName: "alice"})
	require.NoError(t, err)

	ft, err := sessions.IssueFormToken(ctx, token)
	require.NoError(t, err)

	clock.Advance(DefaultFormTokenTTL)
	require.ErrorIs(t, sessions.ConsumeFormToken(ctx, token, ft.Code), ErrInvalidToken)
}

func TestFormTokenRequiresLiveSession(t *testing.T) {
	ctx := context.Background()
	sessions, clock, _ := newSessionService(t)

	_, err := sessions.IssueFormToken(ctx, "missing")
	require.ErrorIs(t, err, ErrSessionExpiredOrMissing)

	token, _, err := sessions.StartSession(ctx, domain.SessionData{UserName: "alice"})
	require.NoError(t, err)
	ft, err := sessions.IssueFormToken(ctx, token)
	require.NoError(t, err)

	clock.Advance(DefaultSessionTTL)
	require.ErrorIs(t, sessions.ConsumeFormToken(ctx, token, ft.Code), ErrSessionExpiredOrMissing)
}

func TestDeleteExpired(t *testing.T) {
	ctx := context.Background()
	sessions, clock, _ := newSessionService(t)

	_, _, err := sessions.StartSession(ctx, domain.SessionData{UserName: "alice"})
	require.NoError(t, err)
	clock.Advance(10 * time.Minute)
	live, _, err := sessions.StartSession(ctx, domain.SessionData{UserName: "bob"})
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	n, err := sessions.DeleteExpired(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = sessions.GetSession(ctx, live)
	require.NoError(t, err)
}
