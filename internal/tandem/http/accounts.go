package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/tandem/internal/tandem/blob"
	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/metrics"
	"github.com/aussiebroadwan/tandem/internal/tandem/service"
	"github.com/aussiebroadwan/tandem/pkg/httpx"
	"github.com/aussiebroadwan/tandem/pkg/slogx"
	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
)

const photoField = "profilePhoto"

type AccountHandler struct {
	Credentials   *service.CredentialService
	Sessions      *service.SessionService
	Photos        blob.Storage
	SecureCookies bool
	ExposeLinks   bool
	MaxUpload     int64
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Create an unverified account and its empty contact list. A verification link is issued out of band.
//	@Tags			Accounts
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			request			body		tandemsdk.RegisterRequest	false	"JSON body (or multipart fields of the same names)"
//	@Param			profilePhoto	formData	file						false	"Profile photo (png, jpg, gif, webp)"
//	@Success		201				{object}	tandemsdk.RegisterResponse
//	@Failure		400				{object}	tandemsdk.ErrorResponse
//	@Failure		409				{object}	tandemsdk.ErrorResponse	"duplicate_username"
//	@Router			/v1/register [post].
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req service.RegisterRequest
	switch {
	case isJSON(r):
		var body tandemsdk.RegisterRequest
		if err := decodeJSON(r, &body); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		req = service.RegisterRequest{
			Username:          body.Username,
			Email:             body.Email,
			Password:          body.Password,
			ConfirmPassword:   body.ConfirmPassword,
			LanguagesFluent:   body.LanguagesFluent,
			LanguagesLearning: body.LanguagesLearning,
		}
	default:
		if err := h.parseForm(w, r); err != nil {
			badRequest(w, "invalid form body")
			return
		}
		req = service.RegisterRequest{
			Username:          r.FormValue("username"),
			Email:             r.FormValue("email"),
			Password:          r.FormValue("password"),
			ConfirmPassword:   r.FormValue("confirmPassword"),
			LanguagesFluent:   httpx.SplitList(r.FormValue("languagesFluent")),
			LanguagesLearning: httpx.SplitList(r.FormValue("languagesLearning")),
		}

		path, err := h.storePhoto(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		req.ProfilePhoto = path
	}

	user, link, err := h.Credentials.Register(ctx, req)
	if err != nil {
		if req.ProfilePhoto != "" {
			if derr := h.Photos.Delete(ctx, req.ProfilePhoto); derr != nil {
				log.Warn("failed to delete orphaned photo", "path", req.ProfilePhoto, "err", derr)
			}
		}
		writeServiceError(w, r, err)
		return
	}

	resp := tandemsdk.RegisterResponse{Username: user.Username, Verified: user.Verified}
	if h.ExposeLinks {
		resp.VerificationLink = link
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// HandleVerifyEmail godoc
//
//	@Summary		Verify email
//	@Description	Consume a verification token. Each token works once.
//	@Tags			Accounts
//	@Produce		json
//	@Param			token	query		string	true	"Verification token from the link"
//	@Success		200		{object}	tandemsdk.AccountResponse
//	@Failure		400		{object}	tandemsdk.ErrorResponse	"invalid_token"
//	@Router			/v1/verify-email [get].
func (h *AccountHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	user, err := h.Credentials.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(r.Context(), h.Photos, user))
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Check credentials and start a session. The session token is set as the HttpOnly cookie "user".
//	@Tags			Accounts
//	@Accept			json,x-www-form-urlencoded
//	@Produce		json
//	@Param			request	body		tandemsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	tandemsdk.LoginResponse
//	@Failure		401		{object}	tandemsdk.ErrorResponse	"invalid_credentials"
//	@Failure		403		{object}	tandemsdk.ErrorResponse	"not_verified"
//	@Failure		429		{object}	tandemsdk.ErrorResponse	"rate_limit_exceeded"
//	@Router			/v1/login [post].
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req tandemsdk.LoginRequest
	if isJSON(r) {
		if err := decodeJSON(r, &req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	} else {
		req.Username = r.FormValue("username")
		req.Password = r.FormValue("password")
	}
	if req.Username == "" || req.Password == "" {
		badRequest(w, "username and password are required")
		return
	}

	user, err := h.Credentials.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			metrics.LoginAttempt("invalid_credentials")
		case errors.Is(err, service.ErrNotVerified):
			metrics.LoginAttempt("not_verified")
		default:
			metrics.LoginAttempt("error")
		}
		writeServiceError(w, r, err)
		return
	}

	token, sess, err := h.Sessions.StartSession(ctx, domain.SessionData{
		UserName:  user.Username,
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		metrics.LoginAttempt("error")
		writeServiceError(w, r, err)
		return
	}
	metrics.LoginAttempt("success")

	http.SetCookie(w, httpx.SessionCookie(token, sess.ExpiresAt, h.SecureCookies))
	slogx.FromContext(ctx).Info("user logged in", "username", user.Username)
	httpx.WriteJSON(w, http.StatusOK, tandemsdk.LoginResponse{
		Username:  user.Username,
		ExpiresAt: sess.ExpiresAt,
	})
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Delete the server-side session and clear the cookie. Succeeds without a session.
//	@Tags			Accounts
//	@Success		204
//	@Router			/v1/logout [post].
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.EndSession(r.Context(), httpx.SessionToken(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.SetCookie(w, httpx.ClearSessionCookie(h.SecureCookies))
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe godoc
//
//	@Summary		Current account
//	@Tags			Accounts
//	@Produce		json
//	@Success		200	{object}	tandemsdk.AccountResponse
//	@Failure		401	{object}	tandemsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/v1/me [get].
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.Credentials.GetUser(r.Context(), username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(r.Context(), h.Photos, user))
}

// HandleUpdateMe godoc
//
//	@Summary		Update profile
//	@Description	Partial update. JSON bodies change email and language sets; multipart bodies may also carry a new profile photo.
//	@Tags			Accounts
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			request			body		tandemsdk.ProfileUpdateRequest	false	"Fields to change"
//	@Param			profilePhoto	formData	file							false	"New profile photo"
//	@Success		200				{object}	tandemsdk.AccountResponse
//	@Failure		400				{object}	tandemsdk.ErrorResponse
//	@Failure		401				{object}	tandemsdk.ErrorResponse
//	@Security		SessionCookie
//	@Router			/v1/me [patch].
func (h *AccountHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username, ok := currentUser(w, r)
	if !ok {
		return
	}

	var update domain.ProfileUpdate
	if isJSON(r) {
		var body tandemsdk.ProfileUpdateRequest
		if err := decodeJSON(r, &body); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
		update.Email = body.Email
		if body.LanguagesFluent != nil {
			update.LanguagesFluent = domain.NormalizeSet(*body.LanguagesFluent)
		}
		if body.LanguagesLearning != nil {
			update.LanguagesLearning = domain.NormalizeSet(*body.LanguagesLearning)
		}
	} else {
		if err := h.parseForm(w, r); err != nil {
			badRequest(w, "invalid form body")
			return
		}
		if v, ok := formValue(r, "email"); ok {
			update.Email = &v
		}
		if v, ok := formValue(r, "languagesFluent"); ok {
			update.LanguagesFluent = domain.NormalizeSet(httpx.SplitList(v))
		}
		if v, ok := formValue(r, "languagesLearning"); ok {
			update.LanguagesLearning = domain.NormalizeSet(httpx.SplitList(v))
		}

		path, err := h.storePhoto(r)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if path != "" {
			update.ProfilePhoto = &path
		}
	}

	user, err := h.Credentials.UpdateProfile(ctx, username, update)
	if err != nil {
		if update.ProfilePhoto != nil {
			_ = h.Photos.Delete(ctx, *update.ProfilePhoto)
		}
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccount(ctx, h.Photos, user))
}

func (h *AccountHandler) parseForm(w http.ResponseWriter, r *http.Request) error {
	if isMultipart(r) {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload)
		return r.ParseMultipartForm(h.MaxUpload)
	}
	return r.ParseForm()
}

// storePhoto saves the optional profilePhoto part and returns its path, or
// "" when the request carried none.
func (h *AccountHandler) storePhoto(r *http.Request) (string, error) {
	if r.MultipartForm == nil || h.Photos == nil {
		return "", nil
	}
	headers := r.MultipartForm.File[photoField]
	if len(headers) == 0 {
		return "", nil
	}

	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return h.Photos.Put(r.Context(), fh.Filename, blob.ContentTypeFor(fh.Filename, fh.Header.Get("Content-Type")), f)
}

// formValue distinguishes an absent field from an empty one.
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm != nil {
		if vs, ok := r.MultipartForm.Value[key]; ok && len(vs) > 0 {
			return strings.TrimSpace(vs[0]), true
		}
	}
	if vs, ok := r.PostForm[key]; ok && len(vs) > 0 {
		return strings.TrimSpace(vs[0]), true
	}
	return "", false
}
