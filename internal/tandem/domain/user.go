package domain

import (
	"slices"
	"strings"
	"time"
)

// DefaultUserType is assigned at registration.
const DefaultUserType = "user"

type User struct {
	Username          string // case-folded, unique
	Email             string
	PasswordHash      string // salt:hash
	ProfilePhoto      string // blob storage path, empty when unset
	LanguagesFluent   []string
	LanguagesLearning []string
	Verified          bool
	// VerificationTokenHash is the fingerprint of the outstanding
	// verification token. Empty once the user is verified.
	VerificationTokenHash string
	Badges                []string
	UserType              string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// HasBadge reports whether id is in the earned set.
func (u User) HasBadge(id string) bool {
	return slices.Contains(u.Badges, id)
}

// SpeaksAny reports whether any of langs is in the user's fluent set.
// Comparison is case-insensitive.
func (u User) SpeaksAny(langs []string) bool {
	for _, l := range langs {
		for _, f := range u.LanguagesFluent {
			if strings.EqualFold(l, f) {
				return true
			}
		}
	}
	return false
}

// NormalizeUsername case-folds a username for storage and lookup.
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSet trims entries, drops empties and duplicates, keeping first
// occurrence order. Always returns a non-nil slice.
func NormalizeSet(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// FoldLanguages lower-cases every language for case-insensitive matching.
func FoldLanguages(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// ProfileUpdate is a partial update. Nil fields are left unchanged; an empty
// non-nil slice clears a language set.
type ProfileUpdate struct {
	Email             *string
	ProfilePhoto      *string
	LanguagesFluent   []string
	LanguagesLearning []string
}

// Empty reports whether the update changes nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Email == nil && p.ProfilePhoto == nil && p.LanguagesFluent == nil && p.LanguagesLearning == nil
}
