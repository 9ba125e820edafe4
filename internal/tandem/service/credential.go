package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/blob"
	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/pkg/cryptox"
	"github.com/aussiebroadwan/tandem/pkg/slogx"
)

var (
	ErrInvalidRegistration = errors.New("username, email and password are required")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrNotVerified         = errors.New("email address not verified")
	ErrInvalidPassword     = errors.New("password must not be empty")
	ErrInvalidProfile      = errors.New("invalid profile update")
)

var usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_.-]{0,31}$`)

type RegisterRequest struct {
	Username string
	Email    string
	Password string
	// ConfirmPassword is checked only when non-empty.
	ConfirmPassword   string
	ProfilePhoto      string
	LanguagesFluent   []string
	LanguagesLearning []string
}

type CredentialService struct {
	Store store.Store

	// Notifier receives verification links. Nil disables delivery.
	Notifier Notifier
	// Origin is the public base URL used in verification links.
	Origin string
	// Photos, when set, is asked to delete a profile photo once it has been
	// replaced.
	Photos blob.Storage
	Events Publisher
}

// Register creates an unverified user together with an empty contact list
// and returns the verification link sent to the user.
func (s *CredentialService) Register(ctx context.Context, req RegisterRequest) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	username := domain.NormalizeUsername(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return domain.User{}, "", ErrInvalidRegistration
	}
	if !usernamePattern.MatchString(username) {
		return domain.User{}, "", fmt.Errorf("%w: username may only contain a-z, 0-9, '_', '.' and '-'", ErrInvalidRegistration)
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		return domain.User{}, "", ErrPasswordMismatch
	}

	if _, err := s.Store.Users().GetUser(ctx, username); err == nil {
		return domain.User{}, "", ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check username", slog.Any("error", err))
		return domain.User{}, "", err
	}

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.User{}, "", err
	}

	now := time.Now().UTC()
	user := domain.User{
		Username:              username,
		Email:                 email,
		PasswordHash:          hash,
		ProfilePhoto:          req.ProfilePhoto,
		LanguagesFluent:       domain.NormalizeSet(req.LanguagesFluent),
		LanguagesLearning:     domain.NormalizeSet(req.LanguagesLearning),
		Verified:              false,
		VerificationTokenHash: cryptox.FingerprintToken(token),
		Badges:                []string{},
		UserType:              domain.DefaultUserType,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return err
		}
		return tx.Contacts().CreateContactList(ctx, user.Username)
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, "", ErrDuplicateUsername
	}
	if err != nil {
		log.Error("failed to create user", slog.String("username", username), slog.Any("error", err))
		return domain.User{}, "", err
	}

	link := s.verificationLink(token)
	if s.Notifier != nil {
		if err := s.Notifier.SendVerification(ctx, user.Username, user.Email, link); err != nil {
			log.Warn("failed to send verification link", slog.String("username", username), slog.Any("error", err))
		}
	}

	log.Info("user registered", slog.String("username", username))
	return user, link, nil
}

func (s *CredentialService) verificationLink(token string) string {
	return strings.TrimSuffix(s.Origin, "/") + "/verify-email?token=" + url.QueryEscape(token)
}

// VerifyEmail consumes a verification token. A token verifies exactly once.
func (s *CredentialService) VerifyEmail(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrInvalidToken
	}
	hash := cryptox.FingerprintToken(token)

	user, err := s.Store.Users().GetUserByVerificationTokenHash(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidToken
	}
	if err != nil {
		return domain.User{}, err
	}

	// Conditional on the hash, so a concurrent second call loses.
	err = s.Store.Users().MarkVerified(ctx, user.Username, hash)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidToken
	}
	if err != nil {
		return domain.User{}, err
	}

	user.Verified = true
	user.VerificationTokenHash = ""
	slogx.FromContext(ctx).Info("email verified", slog.String("username", user.Username))
	return user, nil
}

// Authenticate checks a username and password pair. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.Store.Users().GetUser(ctx, domain.NormalizeUsername(username))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}

	if !cryptox.VerifyPassword(password, user.PasswordHash) {
		return domain.User{}, ErrInvalidCredentials
	}
	if !user.Verified {
		return domain.User{}, ErrNotVerified
	}
	return user, nil
}

// UpdatePassword re-hashes newPassword with a fresh salt.
func (s *CredentialService) UpdatePassword(ctx context.Context, username, newPassword string) error {
	username = domain.NormalizeUsername(username)
	if newPassword == "" {
		return ErrInvalidPassword
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.Users().UpdatePasswordHash(ctx, username, hash)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password updated", slog.String("username", username))
	return nil
}

// UpdateProfile applies a partial update and returns the stored user.
func (s *CredentialService) UpdateProfile(ctx context.Context, username string, p domain.ProfileUpdate) (domain.User, error) {
	log := slogx.FromContext(ctx)
	username = domain.NormalizeUsername(username)

	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if email == "" {
			return domain.User{}, fmt.Errorf("%w: email must not be empty", ErrInvalidProfile)
		}
		p.Email = &email
	}
	if p.LanguagesFluent != nil {
		p.LanguagesFluent = domain.NormalizeSet(p.LanguagesFluent)
	}
	if p.LanguagesLearning != nil {
		p.LanguagesLearning = domain.NormalizeSet(p.LanguagesLearning)
	}

	before, err := s.GetUser(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	if p.Empty() {
		return before, nil
	}

	err = s.Store.Users().UpdateProfile(ctx, username, p)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	if p.ProfilePhoto != nil && before.ProfilePhoto != "" && before.ProfilePhoto != *p.ProfilePhoto && s.Photos != nil {
		if err := s.Photos.Delete(ctx, before.ProfilePhoto); err != nil {
			log.Warn("failed to delete replaced profile photo", slog.String("path", before.ProfilePhoto), slog.Any("error", err))
		}
	}

	publish(s.Events, EventProfileUpdated, username)
	return s.GetUser(ctx, username)
}

func (s *CredentialService) GetUser(ctx context.Context, username string) (domain.User, error) {
	user, err := s.Store.Users().GetUser(ctx, domain.NormalizeUsername(username))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}
