package http

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/tandem/internal/tandem/blob"
	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/pkg/slogx"
	"github.com/aussiebroadwan/tandem/pkg/tandemsdk"
)

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func photoURL(ctx context.Context, photos blob.Storage, path string) string {
	if path == "" || photos == nil {
		return ""
	}
	u, err := photos.URL(ctx, path)
	if err != nil {
		slogx.FromContext(ctx).Warn("failed to build photo url", "path", path, "err", err)
		return ""
	}
	return u
}

func toProfile(ctx context.Context, photos blob.Storage, u domain.User) tandemsdk.UserProfile {
	return tandemsdk.UserProfile{
		Username:          u.Username,
		ProfilePhotoURL:   photoURL(ctx, photos, u.ProfilePhoto),
		LanguagesFluent:   nonNil(u.LanguagesFluent),
		LanguagesLearning: nonNil(u.LanguagesLearning),
		Badges:            nonNil(u.Badges),
	}
}

func toAccount(ctx context.Context, photos blob.Storage, u domain.User) tandemsdk.AccountResponse {
	return tandemsdk.AccountResponse{
		UserProfile:  toProfile(ctx, photos, u),
		Email:        u.Email,
		ProfilePhoto: u.ProfilePhoto,
		Verified:     u.Verified,
		UserType:     u.UserType,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toMessage(m domain.Message) tandemsdk.MessageResponse {
	return tandemsdk.MessageResponse{
		ID:        m.ID,
		Sender:    m.Sender,
		Receiver:  m.Receiver,
		Message:   m.Text,
		Timestamp: m.Timestamp,
	}
}

// mediaType returns the request's media type without parameters.
func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

func isJSON(r *http.Request) bool {
	return mediaType(r) == "application/json"
}

func isMultipart(r *http.Request) bool {
	return mediaType(r) == "multipart/form-data"
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
