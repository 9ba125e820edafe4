package domain

import "time"

// Session is a logged-in browsing context. The raw token is only ever held
// by the client; the store keys sessions by its fingerprint.
type Session struct {
	TokenHash string
	Data      SessionData
	ExpiresAt time.Time
	FormToken *FormToken
	CreatedAt time.Time
}

type SessionData struct {
	UserName  string `json:"userName" bson:"userName"`
	UserAgent string `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
}

// FormToken is a short-lived numeric code gating a sensitive follow-up action.
type FormToken struct {
	Code      string    `json:"code" bson:"code"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expiresAt"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (f FormToken) Expired(now time.Time) bool {
	return !now.Before(f.ExpiresAt)
}
