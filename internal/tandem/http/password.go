package http

import (
	"net/http"

	"github.com/aussiebroadwan/tandem/internal/tandem/service"
	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
)

// PasswordHandler serves the session-gated password change. A form token
// must be requested first and echoed back with the new password.
type PasswordHandler struct {
	Credentials *service.CredentialService
	Sessions    *service.SessionService
}

// HandleResetRequest godoc
//
//	@Summary		Request a password form token
//	@Description	Issue a six-digit code bound to the current session. It replaces any earlier code and expires after five minutes.
//	@Tags			Password
//	@Produce		json
//	@Success		200	{object}	tandemsdk.FormTokenResponse
//	@Failure		401	{object}	tandemsdk.ErrorResponse
//	@Failure		429	{object}	tandemsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/v1/password/reset/request [post].
func (h *PasswordHandler) HandleResetRequest(w http.ResponseWriter, r *http.Request) {
	ft, err := h.Sessions.IssueFormToken(r.Context(), httpx.SessionTokenFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tandemsdk.FormTokenResponse{
		FormToken: ft.Code,
		ExpiresAt: ft.ExpiresAt,
	})
}

// HandleReset godoc
//
//	@Summary		Change password
//	@Description	Consume the session's form token and set a new password. The token is spent even when it does not match.
//	@Tags			Password
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body	tandemsdk.PasswordResetRequest	true	"Form token and new password"
//	@Success		204
//	@Failure		400	{object}	tandemsdk.ErrorResponse	"invalid_token or password_mismatch"
//	@Failure		401	{object}	tandemsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/v1/password/reset [post].
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req tandemsdk.PasswordResetRequest
	if isJSON(r) {
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	} else {
		req.FormToken = r.FormValue("formToken")
		req.Password = r.FormValue("password")
		req.ConfirmPassword = r.FormValue("confirmPassword")
	}

	// Reject malformed input before the token is spent.
	if req.Password == "" {
		writeServiceError(w, r, service.ErrInvalidPassword)
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		writeServiceError(w, r, service.ErrPasswordMismatch)
		return
	}

	if err := h.Sessions.ConsumeFormToken(ctx, httpx.SessionTokenFromContext(ctx), req.FormToken); err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := h.Credentials.UpdatePassword(ctx, username, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
