package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/pkg/slogx"
)

var (
	ErrSelfRelation     = errors.New("cannot target yourself")
	ErrTooManyUsernames = errors.New("too many usernames requested")
)

const (
	DefaultMatchLimit = 50
	MaxMatchLimit     = 200
	MaxUsernameBatch  = 200
)

type SocialService struct {
	Store  store.Store
	Events Publisher
}

// AddContact puts target in owner's contacts, taking it out of blocked if
// it was there. Adding an existing contact is a no-op.
func (s *SocialService) AddContact(ctx context.Context, owner, target string) error {
	owner, target, err := s.relation(ctx, owner, target)
	if err != nil {
		return err
	}

	if err := mapOwner(s.Store.Contacts().AddContact(ctx, owner, target)); err != nil {
		return err
	}

	slogx.FromContext(ctx).Debug("contact added", slog.String("target", target))
	publish(s.Events, EventContactAdded, owner)
	return nil
}

// BlockUser puts target in owner's blocked set and drops it from contacts.
// Blocking is one-directional.
func (s *SocialService) BlockUser(ctx context.Context, owner, target string) error {
	owner, target, err := s.relation(ctx, owner, target)
	if err != nil {
		return err
	}

	if err := mapOwner(s.Store.Contacts().Block(ctx, owner, target)); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("user blocked", slog.String("target", target))
	return nil
}

// UnblockUser only touches the blocked set.
func (s *SocialService) UnblockUser(ctx context.Context, owner, target string) error {
	owner, target = domain.NormalizeUsername(owner), domain.NormalizeUsername(target)
	return mapOwner(s.Store.Contacts().Unblock(ctx, owner, target))
}

// RemoveContact only touches the contacts set.
func (s *SocialService) RemoveContact(ctx context.Context, owner, target string) error {
	owner, target = domain.NormalizeUsername(owner), domain.NormalizeUsername(target)
	return mapOwner(s.Store.Contacts().RemoveContact(ctx, owner, target))
}

func (s *SocialService) GetContacts(ctx context.Context, owner string) (domain.ContactList, error) {
	list, err := s.Store.Contacts().GetContactList(ctx, domain.NormalizeUsername(owner))
	if err := mapOwner(err); err != nil {
		return domain.ContactList{}, err
	}
	return list, nil
}

// FindMatches returns users fluent in any of learning. The owner, the
// owner's contacts and blocked users, the extra blocked list and everyone
// who has blocked the owner are left out. Results are ordered by username.
func (s *SocialService) FindMatches(ctx context.Context, owner string, learning, blocked []string, limit int) ([]domain.User, error) {
	owner = domain.NormalizeUsername(owner)
	learning = domain.NormalizeSet(learning)
	if len(learning) == 0 {
		return []domain.User{}, nil
	}

	switch {
	case limit <= 0:
		limit = DefaultMatchLimit
	case limit > MaxMatchLimit:
		limit = MaxMatchLimit
	}

	list, err := s.GetContacts(ctx, owner)
	if err != nil {
		return nil, err
	}
	blockers, err := s.Store.Contacts().ListBlockers(ctx, owner)
	if err != nil {
		return nil, err
	}

	exclude := []string{owner}
	exclude = append(exclude, list.Contacts...)
	exclude = append(exclude, list.Blocked...)
	exclude = append(exclude, blockers...)
	for _, b := range blocked {
		exclude = append(exclude, domain.NormalizeUsername(b))
	}
	slices.Sort(exclude)
	exclude = slices.Compact(exclude)

	users, err := s.Store.Users().FindFluentIn(ctx, learning, exclude, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// GetUsersByUsernames resolves usernames in order. Unknown names leave a
// nil at their position.
func (s *SocialService) GetUsersByUsernames(ctx context.Context, usernames []string) ([]*domain.User, error) {
	if len(usernames) > MaxUsernameBatch {
		return nil, ErrTooManyUsernames
	}

	normalized := make([]string, len(usernames))
	for i, u := range usernames {
		normalized[i] = domain.NormalizeUsername(u)
	}

	found, err := s.Store.Users().ListByUsernames(ctx, normalized)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]domain.User, len(found))
	for _, u := range found {
		byName[u.Username] = u
	}

	out := make([]*domain.User, len(normalized))
	for i, name := range normalized {
		if u, ok := byName[name]; ok {
			out[i] = &u
		}
	}
	return out, nil
}

// relation validates an owner to target edge.
func (s *SocialService) relation(ctx context.Context, owner, target string) (string, string, error) {
	owner, target = domain.NormalizeUsername(owner), domain.NormalizeUsername(target)
	if owner == target {
		return "", "", ErrSelfRelation
	}

	if _, err := s.Store.Users().GetUser(ctx, target); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", ErrUserNotFound
		}
		return "", "", err
	}
	return owner, target, nil
}

// mapOwner turns a missing contact list into ErrUserNotFound.
func mapOwner(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
