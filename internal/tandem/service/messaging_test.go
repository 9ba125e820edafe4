package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aussiebroadwan/tandem/internal/tandem/store/storetest"
	"github.com/stretchr/testify/require"
)

func TestConversationInSendOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	storetest.Seed(t, s, storetest.NewUser("alice"), storetest.NewUser("bob"), storetest.NewUser("carol"))
	events := &recordingPublisher{}
	messaging := &MessagingService{Store: s, Events: events}

	_, err := messaging.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	_, err = messaging.Send(ctx, "bob", "alice", "hello")
	require.NoError(t, err)
	_, err = messaging.Send(ctx, "carol", "alice", "unrelated")
	require.NoError(t, err)

	msgs, err := messaging.FetchConversation(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "hi", msgs[0].Text)
	require.Equal(t, "hello", msgs[1].Text)

	reverse, err := messaging.FetchConversation(ctx, "bob", "alice")
	require.NoError(t, err)
	require.Equal(t, msgs, reverse)

	require.Equal(t, []Event{
		{Kind: EventMessageSent, Username: "alice"},
		{Kind: EventMessageSent, Username: "bob"},
		{Kind: EventMessageSent, Username: "carol"},
	}, events.Events())
}

func TestConversationTiesKeepInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	storetest.Seed(t, s, storetest.NewUser("alice"), storetest.NewUser("bob"))
	messaging := &MessagingService{Store: s}

	var want []string
	for i := range 20 {
		text := strings.Repeat("x", i+1)
		want = append(want, text)
		from, to := "alice", "bob"
		if i%2 == 1 {
			from, to = to, from
		}
		_, err := messaging.Send(ctx, from, to, text)
		require.NoError(t, err)
	}

	msgs, err := messaging.FetchConversation(ctx, "alice", "bob")
	require.NoError(t, err)
	got := make([]string, len(msgs))
	for i, m := range msgs {
		got[i] = m.Text
	}
	require.Equal(t, want, got)
}

func TestSendValidation(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	storetest.Seed(t, s, storetest.NewUser("alice"), storetest.NewUser("bob"))
	messaging := &MessagingService{Store: s}

	_, err := messaging.Send(ctx, "alice", "bob", "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)

	_, err = messaging.Send(ctx, "alice", "bob", strings.Repeat("a", MaxMessageLength+1))
	require.ErrorIs(t, err, ErrMessageTooLong)

	_, err = messaging.Send(ctx, "alice", "ghost", "hi")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = messaging.Send(ctx, "alice", "alice", "hi")
	require.ErrorIs(t, err, ErrSelfRelation)

	_, err = messaging.FetchConversation(ctx, "alice", "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)

	msgs, err := messaging.FetchConversation(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NotNil(t, msgs)
	require.Empty(t, msgs)
}

func TestBlockedSenderCannotMessage(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	storetest.Seed(t, s, storetest.NewUser("alice"), storetest.NewUser("bob"))
	social := &SocialService{Store: s}
	messaging := &MessagingService{Store: s}

	require.NoError(t, social.BlockUser(ctx, "bob", "alice"))

	_, err := messaging.Send(ctx, "alice", "bob", "hi")
	require.ErrorIs(t, err, ErrBlocked)

	// The blocker can still write to the blocked user.
	_, err = messaging.Send(ctx, "bob", "alice", "go away")
	require.NoError(t, err)
}
