// Package storetest holds the behaviour every store driver must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty, migrated store.
type Factory func(t *testing.T) store.Store

// Run exercises a driver against the shared contract.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Verification", func(t *testing.T) { testVerification(t, newStore(t)) })
	t.Run("Badges", func(t *testing.T) { testBadges(t, newStore(t)) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, newStore(t)) })
	t.Run("Contacts", func(t *testing.T) { testContacts(t, newStore(t)) })
	t.Run("Messages", func(t *testing.T) { testMessages(t, newStore(t)) })
	t.Run("FindFluentIn", func(t *testing.T) { testFindFluentIn(t, newStore(t)) })
	t.Run("WithTxRollsBack", func(t *testing.T) { testWithTxRollback(t, newStore(t)) })
}

// NewUser builds a verified user fixture.
func NewUser(username string, fluent ...string) domain.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.User{
		Username:          username,
		Email:             username + "@example.com",
		PasswordHash:      "c2FsdA:aGFzaA",
		LanguagesFluent:   fluent,
		LanguagesLearning: []string{},
		Verified:          true,
		Badges:            []string{},
		UserType:          domain.DefaultUserType,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Seed creates users with empty contact lists.
func Seed(t *testing.T, s store.Store, users ...domain.User) {
	t.Helper()
	ctx := context.Background()
	for _, u := range users {
		require.NoError(t, s.Users().CreateUser(ctx, u))
		require.NoError(t, s.Contacts().CreateContactList(ctx, u.Username))
	}
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	alice := NewUser("alice", "English")
	alice.ProfilePhoto = "uploads/profiles/a.png"
	Seed(t, s, alice)

	err := s.Users().CreateUser(ctx, NewUser("alice"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := s.Users().GetUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, alice.Email, got.Email)
	require.Equal(t, alice.ProfilePhoto, got.ProfilePhoto)
	require.Equal(t, []string{"English"}, got.LanguagesFluent)
	require.Empty(t, got.Badges)
	require.True(t, got.Verified)

	_, err = s.Users().GetUser(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	email := "new@example.com"
	require.NoError(t, s.Users().UpdateProfile(ctx, "alice", domain.ProfileUpdate{
		Email:             &email,
		LanguagesLearning: []string{"French", "German"},
	}))
	got, err = s.Users().GetUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, email, got.Email)
	require.Equal(t, []string{"French", "German"}, got.LanguagesLearning)
	require.Equal(t, []string{"English"}, got.LanguagesFluent)

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, "alice", "bmV3:aGFzaA"))
	got, err = s.Users().GetUser(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "bmV3:aGFzaA", got.PasswordHash)

	require.ErrorIs(t, s.Users().UpdatePasswordHash(ctx, "nobody", "x"), store.ErrNotFound)

	Seed(t, s, NewUser("bob"))
	users, err := s.Users().ListByUsernames(ctx, []string{"bob", "ghost", "alice"})
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func testVerification(t *testing.T, s store.Store) {
	ctx := context.Background()
	u := NewUser("dana")
	u.Verified = false
	u.VerificationTokenHash = "fingerprint"
	Seed(t, s, u)

	got, err := s.Users().GetUserByVerificationTokenHash(ctx, "fingerprint")
	require.NoError(t, err)
	require.Equal(t, "dana", got.Username)

	require.NoError(t, s.Users().MarkVerified(ctx, "dana", "fingerprint"))
	require.ErrorIs(t, s.Users().MarkVerified(ctx, "dana", "fingerprint"), store.ErrNotFound)

	_, err = s.Users().GetUserByVerificationTokenHash(ctx, "fingerprint")
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err = s.Users().GetUser(ctx, "dana")
	require.NoError(t, err)
	require.True(t, got.Verified)
	require.Empty(t, got.VerificationTokenHash)
}

func testBadges(t *testing.T, s store.Store) {
	ctx := context.Background()
	Seed(t, s, NewUser("erin"))

	set, err := s.Users().AddBadges(ctx, "erin", []string{"first-words"})
	require.NoError(t, err)
	require.Equal(t, []string{"first-words"}, set)

	set, err = s.Users().AddBadges(ctx, "erin", []string{"first-words", "polyglot"})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"first-words", "polyglot"}, set)

	defs := []domain.Badge{
		{ID: "b2", Name: "Second", Criteria: domain.Criteria{Kind: domain.CriteriaHasConversation}},
		{ID: "b1", Name: "First", Criteria: domain.Criteria{Kind: domain.CriteriaMessagesSent, Threshold: 1}},
	}
	require.NoError(t, s.Badges().UpsertBadge(ctx, defs[0], 1))
	require.NoError(t, s.Badges().UpsertBadge(ctx, defs[1], 0))
	require.NoError(t, s.Badges().UpsertBadge(ctx, defs[1], 0))

	list, err := s.Badges().ListBadges(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b1", list[0].ID)
	require.Equal(t, domain.CriteriaMessagesSent, list[0].Criteria.Kind)
	require.Equal(t, 1, list[0].Criteria.Threshold)
	require.Equal(t, "b2", list[1].ID)
}

func testSessions(t *testing.T, s store.Store) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	live := domain.Session{
		TokenHash: "live",
		Data:      domain.SessionData{UserName: "alice"},
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	dead := domain.Session{
		TokenHash: "dead",
		Data:      domain.SessionData{UserName: "bob"},
		ExpiresAt: now.Add(-time.Minute),
		CreatedAt: now.Add(-time.Hour),
	}
	require.NoError(t, s.Sessions().CreateSession(ctx, live))
	require.NoError(t, s.Sessions().CreateSession(ctx, dead))

	got, err := s.Sessions().GetSession(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, "alice", got.Data.UserName)
	require.True(t, got.ExpiresAt.Equal(live.ExpiresAt))
	require.Nil(t, got.FormToken)

	ft := domain.FormToken{Code: "123456", ExpiresAt: now.Add(5 * time.Minute)}
	require.NoError(t, s.Sessions().SetFormToken(ctx, "live", ft))
	require.ErrorIs(t, s.Sessions().SetFormToken(ctx, "missing", ft), store.ErrNotFound)

	taken, err := s.Sessions().TakeFormToken(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, taken)
	require.Equal(t, "123456", taken.Code)

	taken, err = s.Sessions().TakeFormToken(ctx, "live")
	require.NoError(t, err)
	require.Nil(t, taken)

	// Backends with native expiry may have reaped it already.
	n, err := s.Sessions().DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	require.LessOrEqual(t, n, int64(1))
	_, err = s.Sessions().GetSession(ctx, "dead")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Sessions().DeleteSession(ctx, "live"))
	require.NoError(t, s.Sessions().DeleteSession(ctx, "live"))
	_, err = s.Sessions().GetSession(ctx, "live")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testContacts(t *testing.T, s store.Store) {
	ctx := context.Background()
	Seed(t, s, NewUser("alice"), NewUser("bob"), NewUser("carol"))
	c := s.Contacts()

	require.NoError(t, c.AddContact(ctx, "alice", "bob"))
	require.NoError(t, c.AddContact(ctx, "alice", "bob"))
	require.NoError(t, c.AddContact(ctx, "alice", "carol"))

	list, err := c.GetContactList(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"bob", "carol"}, list.Contacts)
	require.Empty(t, list.Blocked)

	require.NoError(t, c.Block(ctx, "alice", "bob"))
	list, err = c.GetContactList(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"carol"}, list.Contacts)
	require.Equal(t, []string{"bob"}, list.Blocked)

	blockers, err := c.ListBlockers(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, []string{"alice"}, blockers)

	// Unblocking never restores the contact.
	require.NoError(t, c.Unblock(ctx, "alice", "bob"))
	require.NoError(t, c.RemoveContact(ctx, "alice", "carol"))
	list, err = c.GetContactList(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, list.Contacts)
	require.Empty(t, list.Blocked)

	_, err = c.GetContactList(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, c.AddContact(ctx, "ghost", "alice"), store.ErrNotFound)
}

func testMessages(t *testing.T, s store.Store) {
	ctx := context.Background()
	m := s.Messages()
	ts := time.Now().UTC().Truncate(time.Millisecond)

	send := func(from, to, text string) {
		require.NoError(t, m.CreateMessage(ctx, domain.Message{
			ID:        idx.NewAt(ts).String(),
			Sender:    from,
			Receiver:  to,
			Text:      text,
			Timestamp: ts,
		}))
	}

	// Same timestamp: order falls back to id.
	send("alice", "bob", "hi")
	send("bob", "alice", "hello")
	send("alice", "carol", "elsewhere")

	conv, err := m.ListConversation(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Len(t, conv, 2)
	require.Equal(t, "hi", conv[0].Text)
	require.Equal(t, "hello", conv[1].Text)

	n, err := m.CountSent(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	ok, err := m.HasExchange(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.HasExchange(ctx, "carol")
	require.NoError(t, err)
	require.False(t, ok)
}

func testFindFluentIn(t *testing.T, s store.Store) {
	ctx := context.Background()
	Seed(t, s,
		NewUser("zoe", "French"),
		NewUser("yann", "french", "German"),
		NewUser("xavier", "German"),
		NewUser("wendy", "Spanish"),
	)

	users, err := s.Users().FindFluentIn(ctx, []string{"French"}, nil, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"yann", "zoe"}, usernames(users))

	users, err = s.Users().FindFluentIn(ctx, []string{"French", "German"}, []string{"yann"}, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"xavier", "zoe"}, usernames(users))

	users, err = s.Users().FindFluentIn(ctx, []string{"French", "German"}, nil, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"xavier"}, usernames(users))

	t.Run("UnicodeCaseInsensitive", func(t *testing.T) {
		Seed(t, s, NewUser("eleni", "Ελληνικά"), NewUser("oleg", "Русский"))

		users, err := s.Users().FindFluentIn(ctx, []string{"ελληνικά"}, nil, 10)
		require.NoError(t, err)
		require.Equal(t, []string{"eleni"}, usernames(users))
		require.Equal(t, []string{"Ελληνικά"}, users[0].LanguagesFluent)

		users, err = s.Users().FindFluentIn(ctx, []string{"РУССКИЙ"}, nil, 10)
		require.NoError(t, err)
		require.Equal(t, []string{"oleg"}, usernames(users))
	})

	t.Run("FollowsProfileUpdate", func(t *testing.T) {
		require.NoError(t, s.Users().UpdateProfile(ctx, "wendy", domain.ProfileUpdate{
			LanguagesFluent: []string{"Ελληνικά"},
		}))

		users, err := s.Users().FindFluentIn(ctx, []string{"ΕΛΛΗΝΙΚΆ"}, nil, 10)
		require.NoError(t, err)
		require.Equal(t, []string{"eleni", "wendy"}, usernames(users))

		users, err = s.Users().FindFluentIn(ctx, []string{"spanish"}, nil, 10)
		require.NoError(t, err)
		require.Empty(t, users)
	})
}

func testWithTxRollback(t *testing.T, s store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, NewUser("frank")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUser(ctx, "frank")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, NewUser("frank")); err != nil {
			return err
		}
		return tx.Contacts().CreateContactList(ctx, "frank")
	}))
	_, err = s.Contacts().GetContactList(ctx, "frank")
	require.NoError(t, err)
}

func usernames(users []domain.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}
