package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tandem/internal/tandem/blob"
	"github.com/aussiebroadwan/tandem/internal/tandem/service"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/slogx"
	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
)

func writeError(w http.ResponseWriter, status int, code, desc string) {
	httpx.WriteJSON(w, status, tandemsdk.ErrorResponse{
		Error:            code,
		ErrorDescription: desc,
	})
}

func badRequest(w http.ResponseWriter, desc string) {
	writeError(w, http.StatusBadRequest, tandemsdk.ErrorCodeInvalidRequest, desc)
}

// writeServiceError maps service sentinels onto status codes. Anything
// unrecognised is logged and reported as a server error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRegistration),
		errors.Is(err, service.ErrInvalidPassword),
		errors.Is(err, service.ErrInvalidProfile),
		errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrMessageTooLong),
		errors.Is(err, service.ErrSelfRelation),
		errors.Is(err, service.ErrTooManyUsernames),
		errors.Is(err, blob.ErrUnsupportedType):
		badRequest(w, err.Error())
	case errors.Is(err, service.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, tandemsdk.ErrorCodePasswordMismatch, err.Error())
	case errors.Is(err, service.ErrInvalidToken):
		writeError(w, http.StatusBadRequest, tandemsdk.ErrorCodeInvalidToken, err.Error())
	case errors.Is(err, service.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, tandemsdk.ErrorCodeDuplicateUsername, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, tandemsdk.ErrorCodeInvalidCredential, err.Error())
	case errors.Is(err, service.ErrSessionExpiredOrMissing):
		writeError(w, http.StatusUnauthorized, tandemsdk.ErrorCodeUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotVerified):
		writeError(w, http.StatusForbidden, tandemsdk.ErrorCodeNotVerified, err.Error())
	case errors.Is(err, service.ErrBlocked):
		writeError(w, http.StatusForbidden, tandemsdk.ErrorCodeBlocked, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, tandemsdk.ErrorCodeUserNotFound, err.Error())
	case errors.Is(err, store.ErrUnavailable):
		slogx.FromContext(r.Context()).Warn("store unavailable", "err", err)
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, tandemsdk.ErrorCodeUnavailable, "storage temporarily unavailable")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		writeError(w, http.StatusInternalServerError, tandemsdk.ErrorCodeServerError, "internal server error")
	}
}

// currentUser returns the username RequireSession placed in the context.
func currentUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := httpx.UsernameFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, tandemsdk.ErrorCodeUnauthorized, "login required")
	}
	return username, ok
}
