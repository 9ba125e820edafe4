package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aussiebroadwan/tandem/internal/tandem/blob"
	"github.com/aussiebroadwan/tandem/internal/tandem/service"
	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
)

type SocialHandler struct {
	Social      *service.SocialService
	Credentials *service.CredentialService
	Photos      blob.Storage
}

// HandleContacts godoc
//
//	@Summary		Contact list
//	@Tags			Social
//	@Produce		json
//	@Success		200	{object}	tandemsdk.ContactsResponse
//	@Failure		401	{object}	tandemsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/v1/contacts [get].
func (h *SocialHandler) HandleContacts(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.Social.GetContacts(r.Context(), username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tandemsdk.ContactsResponse{
		Contacts: nonNil(list.Contacts),
		Blocked:  nonNil(list.Blocked),
	})
}

// HandleAddContact godoc
//
//	@Summary		Add contact
//	@Description	Idempotent. Adding a user also removes them from the blocked set.
//	@Tags			Social
//	@Param			username	path	string	true	"Target username"
//	@Success		204
//	@Failure		400	{object}	tandemsdk.ErrorResponse
//	@Failure		404	{object}	tandemsdk.ErrorResponse	"user_not_found"
//	@Security		SessionCookie
//	@Router			/v1/contacts/{username} [post].
func (h *SocialHandler) HandleAddContact(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.Social.AddContact)
}

// HandleRemoveContact godoc
//
//	@Summary		Remove contact
//	@Tags			Social
//	@Param			username	path	string	true	"Target username"
//	@Success		204
//	@Security		SessionCookie
//	@Router			/v1/contacts/{username} [delete].
func (h *SocialHandler) HandleRemoveContact(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.Social.RemoveContact)
}

// HandleBlock godoc
//
//	@Summary		Block user
//	@Description	Idempotent. Blocking removes the user from contacts and stops their messages.
//	@Tags			Social
//	@Param			username	path	string	true	"Target username"
//	@Success		204
//	@Failure		404	{object}	tandemsdk.ErrorResponse	"user_not_found"
//	@Security		SessionCookie
//	@Router			/v1/blocked/{username} [post].
func (h *SocialHandler) HandleBlock(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.Social.BlockUser)
}

// HandleUnblock godoc
//
//	@Summary		Unblock user
//	@Tags			Social
//	@Param			username	path	string	true	"Target username"
//	@Success		204
//	@Security		SessionCookie
//	@Router			/v1/blocked/{username} [delete].
func (h *SocialHandler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	h.relation(w, r, h.Social.UnblockUser)
}

func (h *SocialHandler) relation(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, owner, target string) error) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := op(r.Context(), username, r.PathValue("username")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMatches godoc
//
//	@Summary		Find partners
//	@Description	Users fluent in any of the given languages, excluding the caller, their contacts, their blocked users and anyone who blocked them. Defaults to the caller's learning set.
//	@Tags			Social
//	@Produce		json
//	@Param			languages	query		string	false	"Comma-separated languages"
//	@Param			exclude		query		string	false	"Comma-separated usernames to leave out"
//	@Param			limit		query		int		false	"Maximum results (default 50, max 200)"
//	@Success		200			{object}	tandemsdk.MatchesResponse
//	@Failure		400			{object}	tandemsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/v1/matches [get].
func (h *SocialHandler) HandleMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	languages := httpx.SplitList(q.Get("languages"))
	if len(languages) == 0 {
		me, err := h.Credentials.GetUser(ctx, username)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		languages = me.LanguagesLearning
	}

	users, err := h.Social.FindMatches(ctx, username, languages, httpx.SplitList(q.Get("exclude")), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := tandemsdk.MatchesResponse{Users: make([]tandemsdk.UserProfile, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, toProfile(ctx, h.Photos, u))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleUsers godoc
//
//	@Summary		Batch profile lookup
//	@Description	Public profiles in request order. Unknown usernames come back as null.
//	@Tags			Social
//	@Produce		json
//	@Param			usernames	query		string	true	"Comma-separated usernames (max 200)"
//	@Success		200			{object}	tandemsdk.UsersResponse
//	@Failure		400			{object}	tandemsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/v1/users [get].
func (h *SocialHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := currentUser(w, r); !ok {
		return
	}

	usernames := httpx.SplitList(r.URL.Query().Get("usernames"))
	if len(usernames) == 0 {
		badRequest(w, "usernames is required")
		return
	}

	users, err := h.Social.GetUsersByUsernames(ctx, usernames)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := tandemsdk.UsersResponse{Users: make([]*tandemsdk.UserProfile, len(users))}
	for i, u := range users {
		if u == nil {
			continue
		}
		p := toProfile(ctx, h.Photos, *u)
		resp.Users[i] = &p
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
