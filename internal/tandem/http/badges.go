package http

import (
	"net/http"

	"github.com/aussiebroadwan/tandem/internal/tandem/service"
	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
)

type BadgesHandler struct {
	Badges      *service.BadgeService
	Credentials *service.CredentialService
}

// HandleList godoc
//
//	@Summary		Badge catalogue
//	@Description	Every badge definition in display order, flagged with whether the caller has earned it.
//	@Tags			Badges
//	@Produce		json
//	@Success		200	{object}	tandemsdk.BadgesResponse
//	@Security		SessionCookie
//	@Router			/v1/badges [get].
func (h *BadgesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	me, err := h.Credentials.GetUser(ctx, username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defs, err := h.Badges.ListBadges(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := tandemsdk.BadgesResponse{Badges: make([]tandemsdk.BadgeResponse, 0, len(defs))}
	for _, b := range defs {
		resp.Badges = append(resp.Badges, tandemsdk.BadgeResponse{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			Criteria: tandemsdk.BadgeCriteria{
				Kind:      string(b.Criteria.Kind),
				Threshold: b.Criteria.Threshold,
			},
			Earned: me.HasBadge(b.ID),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleAssign godoc
//
//	@Summary		Evaluate badges
//	@Description	Award every badge the caller now qualifies for and return the earned set.
//	@Tags			Badges
//	@Produce		json
//	@Success		200	{object}	tandemsdk.AssignBadgesResponse
//	@Security		SessionCookie
//	@Router			/v1/badges/assign [post].
func (h *BadgesHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	earned, err := h.Badges.AssignBadges(r.Context(), username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tandemsdk.AssignBadgesResponse{Badges: nonNil(earned)})
}
