package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	tandemredis "github.com/aussiebroadwan/tandem/internal/tandem/store/drivers/redis"
	"github.com/aussiebroadwan/tandem/internal/tandem/store/drivers/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newSessions(t *testing.T) (*tandemredis.Sessions, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := tandemredis.NewWithClient(rdb, tandemredis.Config{})
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	s, mr := newSessions(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	sess := domain.Session{
		TokenHash: "abc",
		Data:      domain.SessionData{UserName: "alice"},
		ExpiresAt: now.Add(15 * time.Minute),
		CreatedAt: now,
	}
	require.NoError(t, s.CreateSession(ctx, sess))
	require.True(t, mr.Exists("tandem:session:abc"))

	got, err := s.GetSession(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Data.UserName)
	require.True(t, got.ExpiresAt.Equal(sess.ExpiresAt))
	require.Nil(t, got.FormToken)

	_, err = s.GetSession(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteSession(ctx, "abc"))
	_, err = s.GetSession(ctx, "abc")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionExpiresNatively(t *testing.T) {
	ctx := context.Background()
	s, mr := newSessions(t)

	require.NoError(t, s.CreateSession(ctx, domain.Session{
		TokenHash: "short",
		Data:      domain.SessionData{UserName: "bob"},
		ExpiresAt: time.Now().Add(time.Minute),
		CreatedAt: time.Now(),
	}))

	mr.FastForward(2 * time.Minute)

	_, err := s.GetSession(ctx, "short")
	require.ErrorIs(t, err, store.ErrNotFound)

	n, err := s.DeleteExpiredSessions(ctx, time.Now())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestFormTokenIsSingleUse(t *testing.T) {
	ctx := context.Background()
	s, _ := newSessions(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	require.ErrorIs(t, s.SetFormToken(ctx, "ghost", domain.FormToken{Code: "1"}), store.ErrNotFound)
	_, err := s.TakeFormToken(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.CreateSession(ctx, domain.Session{
		TokenHash: "t1",
		Data:      domain.SessionData{UserName: "carol"},
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}))

	ft, err := s.TakeFormToken(ctx, "t1")
	require.NoError(t, err)
	require.Nil(t, ft)

	require.NoError(t, s.SetFormToken(ctx, "t1", domain.FormToken{Code: "042424", ExpiresAt: now.Add(5 * time.Minute)}))

	got, err := s.GetSession(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got.FormToken)
	require.Equal(t, "042424", got.FormToken.Code)

	ft, err = s.TakeFormToken(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, ft)
	require.Equal(t, "042424", ft.Code)
	require.True(t, ft.ExpiresAt.Equal(now.Add(5*time.Minute)))

	ft, err = s.TakeFormToken(ctx, "t1")
	require.NoError(t, err)
	require.Nil(t, ft)
}

func TestOverlayRoutesSessionsToRedis(t *testing.T) {
	ctx := context.Background()
	sessions, mr := newSessions(t)

	base, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, base.ApplyMigrations())

	st := store.WithSessions(base, sessions)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{
		TokenHash: "via-overlay",
		Data:      domain.SessionData{UserName: "dave"},
		ExpiresAt: time.Now().Add(time.Hour),
		CreatedAt: time.Now(),
	}))
	require.True(t, mr.Exists("tandem:session:via-overlay"))

	require.NoError(t, st.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Sessions().GetSession(ctx, "via-overlay")
		return err
	}))
	require.NoError(t, st.Ping(ctx))
}
