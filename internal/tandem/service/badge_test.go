package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/internal/tandem/store/storetest"
	"github.com/stretchr/testify/require"
)

func newBadgeService(t *testing.T, s store.Store) *BadgeService {
	t.Helper()
	badges := &BadgeService{Store: s}
	require.NoError(t, badges.SeedBadges(context.Background(), DefaultBadges()))
	return badges
}

func TestSeedBadgesKeepsOrder(t *testing.T) {
	ctx := context.Background()
	badges := newBadgeService(t, newStore(t))

	// Seeding again must not duplicate or reorder.
	require.NoError(t, badges.SeedBadges(ctx, DefaultBadges()))

	got, err := badges.ListBadges(ctx)
	require.NoError(t, err)
	require.Equal(t, DefaultBadges(), got)
}

func TestAssignBadgesUnknownUser(t *testing.T) {
	badges := newBadgeService(t, newStore(t))
	_, err := badges.AssignBadges(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAssignBadges(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	alice := storetest.NewUser("alice")
	alice.LanguagesLearning = []string{"French", "German", "Korean"}
	storetest.Seed(t, s, alice, storetest.NewUser("bob"))
	badges := newBadgeService(t, s)
	messaging := &MessagingService{Store: s}

	got, err := badges.AssignBadges(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"polyglot"}, got)

	_, err = messaging.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	got, err = badges.AssignBadges(ctx, "alice")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"polyglot", "first_message"}, got)

	_, err = messaging.Send(ctx, "bob", "alice", "hello")
	require.NoError(t, err)
	got, err = badges.AssignBadges(ctx, "alice")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"polyglot", "first_message", "conversation_starter"}, got)

	stored, err := s.Users().GetUser(ctx, "alice")
	require.NoError(t, err)
	require.ElementsMatch(t, got, stored.Badges)
}

func TestAssignBadgesContacts(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	users := []domain.User{storetest.NewUser("owner")}
	for _, name := range []string{"c1", "c2", "c3", "c4", "c5"} {
		users = append(users, storetest.NewUser(name))
	}
	storetest.Seed(t, s, users...)
	badges := newBadgeService(t, s)
	social := &SocialService{Store: s}

	for _, u := range users[1:5] {
		require.NoError(t, social.AddContact(ctx, "owner", u.Username))
	}
	got, err := badges.AssignBadges(ctx, "owner")
	require.NoError(t, err)
	require.Empty(t, got)

	require.NoError(t, social.AddContact(ctx, "owner", "c5"))
	got, err = badges.AssignBadges(ctx, "owner")
	require.NoError(t, err)
	require.Equal(t, []string{"social_butterfly"}, got)
}

// countingUsers records AddBadges calls.
type countingUsers struct {
	store.Users
	adds int
}

func (c *countingUsers) AddBadges(ctx context.Context, username string, ids []string) ([]string, error) {
	c.adds++
	return c.Users.AddBadges(ctx, username, ids)
}

type countingStore struct {
	store.Store
	users *countingUsers
}

func (c countingStore) Users() store.Users { return c.users }

func TestAssignBadgesTwiceWritesOnce(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	storetest.Seed(t, s, storetest.NewUser("alice"), storetest.NewUser("bob"))
	_, err := (&MessagingService{Store: s}).Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)

	counting := countingStore{Store: s, users: &countingUsers{Users: s.Users()}}
	badges := newBadgeService(t, counting)

	first, err := badges.AssignBadges(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 1, counting.users.adds)

	second, err := badges.AssignBadges(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, counting.users.adds)
}
