package tandem_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
	"github.com/stretchr/testify/require"
)

// TestExchangeFlow covers matching, contacts, messaging and the badges a
// first conversation earns.
func TestExchangeFlow(t *testing.T) {
	baseURL := setupTandemContainer(t)
	runExchangeFlow(t, baseURL)
}

// TestExchangeFlowOnMongo runs the same flow with MongoDB as the store.
func TestExchangeFlowOnMongo(t *testing.T) {
	baseURL := setupTandemWithMongo(t)
	runExchangeFlow(t, baseURL)
}

func runExchangeFlow(t *testing.T, baseURL string) {
	t.Helper()
	ctx := t.Context()

	ana := signup(t, baseURL, "ana", []string{"Portuguese"}, []string{"German"})
	lukas := signup(t, baseURL, "lukas", []string{"German"}, []string{"Portuguese"})
	signup(t, baseURL, "eva", []string{"german"}, nil)

	matches, err := ana.Matches(ctx, nil, 0)
	require.NoError(t, err)
	names := make([]string, 0, len(matches.Users))
	for _, u := range matches.Users {
		names = append(names, u.Username)
	}
	require.Equal(t, []string{"eva", "lukas"}, names)

	require.NoError(t, ana.AddContact(ctx, "lukas"))
	contacts, err := ana.Contacts(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"lukas"}, contacts.Contacts)

	// Contacts drop out of the match list.
	matches, err = ana.Matches(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, matches.Users, 1)
	require.Equal(t, "eva", matches.Users[0].Username)

	_, err = ana.SendMessage(ctx, "lukas", "Hallo Lukas!")
	require.NoError(t, err)
	_, err = lukas.SendMessage(ctx, "ana", "Olá Ana!")
	require.NoError(t, err)

	conv, err := lukas.Conversation(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, conv.Messages, 2)
	require.Equal(t, "ana", conv.Messages[0].Sender)
	require.Equal(t, "lukas", conv.Messages[1].Sender)

	eventuallyHasBadges(t, ana, "first_message", "conversation_starter")

	users, err := ana.Users(ctx, []string{"lukas", "ghost"})
	require.NoError(t, err)
	require.Len(t, users.Users, 2)
	require.NotNil(t, users.Users[0])
	require.Nil(t, users.Users[1])

	require.NoError(t, lukas.Block(ctx, "ana"))
	_, err = ana.SendMessage(ctx, "lukas", "Bist du da?")
	assertAPIError(t, err, http.StatusForbidden, tandemsdk.ErrorCodeBlocked)

	require.NoError(t, lukas.Unblock(ctx, "ana"))
	_, err = ana.SendMessage(ctx, "lukas", "Bist du da?")
	require.NoError(t, err)
}
