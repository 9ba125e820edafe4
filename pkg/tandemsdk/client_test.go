package tandemsdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginKeepsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/login", func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "alice", req.Username)

		http.SetCookie(w, &http.Cookie{Name: "user", Value: "tok", Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(LoginResponse{Username: "alice"})
	})
	mux.HandleFunc("GET /v1/contacts", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("user")
		if err != nil || c.Value != "tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorCodeUnauthorized})
			return
		}
		_ = json.NewEncoder(w).Encode(ContactsResponse{Contacts: []string{"bob"}, Blocked: []string{}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	c := NewClient(srv.URL + "/")

	_, err := c.Contacts(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, ErrorCodeUnauthorized, apiErr.Code)

	login, err := c.Login(ctx, "alice", "secret")
	require.NoError(t, err)
	require.Equal(t, "alice", login.Username)

	contacts, err := c.Contacts(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"bob"}, contacts.Contacts)
}

func TestRegisterSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/register", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "alice", r.FormValue("username"))
		require.Equal(t, "French,German", r.FormValue("languagesFluent"))

		f, hdr, err := r.FormFile("profilePhoto")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		require.Equal(t, "me.png", hdr.Filename)
		require.Equal(t, "png", string(data))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(RegisterResponse{Username: "alice"})
	}))
	t.Cleanup(srv.Close)

	out, err := NewClient(srv.URL).Register(context.Background(), RegisterRequest{
		Username:        "alice",
		Email:           "a@example.com",
		Password:        "secret",
		LanguagesFluent: []string{"French", "German"},
	}, &Photo{Filename: "me.png", Body: strings.NewReader("png")})
	require.NoError(t, err)
	require.Equal(t, "alice", out.Username)
}

func TestMatchesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "French,Spanish", r.URL.Query().Get("languages"))
		require.Equal(t, "5", r.URL.Query().Get("limit"))
		_ = json.NewEncoder(w).Encode(MatchesResponse{Users: []UserProfile{{Username: "dave"}}})
	}))
	t.Cleanup(srv.Close)

	out, err := NewClient(srv.URL).Matches(context.Background(), []string{"French", "Spanish"}, 5)
	require.NoError(t, err)
	require.Len(t, out.Users, 1)
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL).GetLiveness(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Contains(t, apiErr.Description, "boom")
}
