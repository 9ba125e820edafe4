package http

import (
	"net/http"

	"github.com/aussiebroadwan/tandem/internal/tandem/service"
	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
)

type MessagesHandler struct {
	Messaging *service.MessagingService
}

// HandleSend godoc
//
//	@Summary		Send message
//	@Description	Send a direct message. Refused when the receiver has blocked the sender.
//	@Tags			Messages
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			username	path		string						true	"Receiver"
//	@Param			request		body		tandemsdk.SendMessageRequest	true	"Message text"
//	@Success		201			{object}	tandemsdk.MessageResponse
//	@Failure		400			{object}	tandemsdk.ErrorResponse
//	@Failure		403			{object}	tandemsdk.ErrorResponse	"blocked"
//	@Failure		404			{object}	tandemsdk.ErrorResponse	"user_not_found"
//	@Security		SessionCookie
//	@Router			/v1/messages/{username} [post].
func (h *MessagesHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req tandemsdk.SendMessageRequest
	if isJSON(r) {
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	} else {
		req.Message = r.FormValue("message")
	}

	msg, err := h.Messaging.Send(r.Context(), username, r.PathValue("username"), req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toMessage(msg))
}

// HandleConversation godoc
//
//	@Summary		Conversation
//	@Description	Every message between the caller and username in either direction, oldest first.
//	@Tags			Messages
//	@Produce		json
//	@Param			username	path		string	true	"Conversation partner"
//	@Success		200			{object}	tandemsdk.ConversationResponse
//	@Failure		404			{object}	tandemsdk.ErrorResponse	"user_not_found"
//	@Security		SessionCookie
//	@Router			/v1/messages/{username} [get].
func (h *MessagesHandler) HandleConversation(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	msgs, err := h.Messaging.FetchConversation(r.Context(), username, r.PathValue("username"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := tandemsdk.ConversationResponse{Messages: make([]tandemsdk.MessageResponse, 0, len(msgs))}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, toMessage(m))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
