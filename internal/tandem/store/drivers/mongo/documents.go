package mongo

import (
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
)

// Field names follow the documents the service has always stored.

type userDoc struct {
	Username          string    `bson:"_id"`
	Email             string    `bson:"email"`
	Password          string    `bson:"password"`
	ProfilePhoto      *string   `bson:"profilePhoto"`
	LanguagesFluent   []string  `bson:"languagesFluent"`
	FluentFolded      []string  `bson:"languagesFluentFolded"`
	LanguagesLearning []string  `bson:"languagesLearning"`
	Verified          bool      `bson:"verified"`
	VerificationToken string    `bson:"verificationToken,omitempty"`
	Badges            []string  `bson:"badges"`
	UserType          string    `bson:"userType"`
	CreatedAt         time.Time `bson:"createdAt"`
	UpdatedAt         time.Time `bson:"updatedAt"`
}

func toUserDoc(u domain.User) userDoc {
	d := userDoc{
		Username:          u.Username,
		Email:             u.Email,
		Password:          u.PasswordHash,
		LanguagesFluent:   nonNil(u.LanguagesFluent),
		FluentFolded:      domain.FoldLanguages(nonNil(u.LanguagesFluent)),
		LanguagesLearning: nonNil(u.LanguagesLearning),
		Verified:          u.Verified,
		VerificationToken: u.VerificationTokenHash,
		Badges:            nonNil(u.Badges),
		UserType:          u.UserType,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	if u.ProfilePhoto != "" {
		photo := u.ProfilePhoto
		d.ProfilePhoto = &photo
	}
	return d
}

func (d userDoc) domain() domain.User {
	u := domain.User{
		Username:              d.Username,
		Email:                 d.Email,
		PasswordHash:          d.Password,
		LanguagesFluent:       nonNil(d.LanguagesFluent),
		LanguagesLearning:     nonNil(d.LanguagesLearning),
		Verified:              d.Verified,
		VerificationTokenHash: d.VerificationToken,
		Badges:                nonNil(d.Badges),
		UserType:              d.UserType,
		CreatedAt:             d.CreatedAt.UTC(),
		UpdatedAt:             d.UpdatedAt.UTC(),
	}
	if d.ProfilePhoto != nil {
		u.ProfilePhoto = *d.ProfilePhoto
	}
	return u
}

type sessionDoc struct {
	TokenHash     string             `bson:"_id"`
	Data          domain.SessionData `bson:"data"`
	SessionExpiry time.Time          `bson:"sessionExpiry"`
	FormToken     *domain.FormToken  `bson:"formToken,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func (d sessionDoc) domain() domain.Session {
	s := domain.Session{
		TokenHash: d.TokenHash,
		Data:      d.Data,
		ExpiresAt: d.SessionExpiry.UTC(),
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.FormToken != nil {
		ft := *d.FormToken
		ft.ExpiresAt = ft.ExpiresAt.UTC()
		s.FormToken = &ft
	}
	return s
}

type contactsDoc struct {
	Username string   `bson:"_id"`
	Contacts []string `bson:"contacts"`
	Blocked  []string `bson:"blocked"`
}

type messageDoc struct {
	ID        string    `bson:"_id"`
	Sender    string    `bson:"sender"`
	Receiver  string    `bson:"receiver"`
	Message   string    `bson:"message"`
	Timestamp time.Time `bson:"timestamp"`
}

type badgeDoc struct {
	ID          string          `bson:"_id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description"`
	Icon        string          `bson:"icon"`
	Criteria    domain.Criteria `bson:"criteria"`
	Position    int             `bson:"position"`
}
