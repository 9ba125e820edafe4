package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/metrics"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/pkg/slogx"
)

// DefaultBadges is the reference list seeded at startup. Evaluation follows
// this order.
func DefaultBadges() []domain.Badge {
	return []domain.Badge{
		{
			ID:          "first_message",
			Name:        "First Message",
			Description: "Send your first message.",
			Icon:        "icons/first-message.svg",
			Criteria:    domain.Criteria{Kind: domain.CriteriaMessagesSent, Threshold: 1},
		},
		{
			ID:          "conversation_starter",
			Name:        "Conversation Starter",
			Description: "Send and receive messages with the same partner.",
			Icon:        "icons/conversation.svg",
			Criteria:    domain.Criteria{Kind: domain.CriteriaHasConversation},
		},
		{
			ID:          "chatterbox",
			Name:        "Chatterbox",
			Description: "Send 100 messages.",
			Icon:        "icons/chatterbox.svg",
			Criteria:    domain.Criteria{Kind: domain.CriteriaMessagesSent, Threshold: 100},
		},
		{
			ID:          "polyglot",
			Name:        "Polyglot",
			Description: "Learn more than two languages at once.",
			Icon:        "icons/polyglot.svg",
			Criteria:    domain.Criteria{Kind: domain.CriteriaLanguagesLearning, Threshold: 2},
		},
		{
			ID:          "social_butterfly",
			Name:        "Social Butterfly",
			Description: "Add five contacts.",
			Icon:        "icons/social-butterfly.svg",
			Criteria:    domain.Criteria{Kind: domain.CriteriaContactsAdded, Threshold: 5},
		},
	}
}

type BadgeService struct {
	Store store.Store
}

// SeedBadges writes the definitions in order, replacing existing ones with
// the same id.
func (s *BadgeService) SeedBadges(ctx context.Context, badges []domain.Badge) error {
	for i, b := range badges {
		if err := s.Store.Badges().UpsertBadge(ctx, b, i); err != nil {
			return err
		}
	}
	return nil
}

func (s *BadgeService) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	return s.Store.Badges().ListBadges(ctx)
}

// AssignBadges awards every badge whose criterion the user now meets and
// returns the full earned set. Nothing is written when no badge is new.
func (s *BadgeService) AssignBadges(ctx context.Context, username string) ([]string, error) {
	username = domain.NormalizeUsername(username)

	user, err := s.Store.Users().GetUser(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	defs, err := s.Store.Badges().ListBadges(ctx)
	if err != nil {
		return nil, err
	}

	var pending []domain.Badge
	for _, b := range defs {
		if !user.HasBadge(b.ID) {
			pending = append(pending, b)
		}
	}
	earned := domain.NormalizeSet(user.Badges)
	if len(pending) == 0 {
		return earned, nil
	}

	activity, err := s.activity(ctx, user)
	if err != nil {
		return nil, err
	}

	var added []string
	for _, b := range pending {
		if b.Criteria.SatisfiedBy(activity) {
			added = append(added, b.ID)
		}
	}
	if len(added) == 0 {
		return earned, nil
	}

	set, err := s.Store.Users().AddBadges(ctx, username, added)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	metrics.BadgesAwarded(added)
	slogx.FromContext(ctx).Info("badges awarded",
		slog.String("username", username),
		slog.Any("badges", added),
	)
	return set, nil
}

func (s *BadgeService) activity(ctx context.Context, user domain.User) (domain.Activity, error) {
	sent, err := s.Store.Messages().CountSent(ctx, user.Username)
	if err != nil {
		return domain.Activity{}, err
	}
	exchanged, err := s.Store.Messages().HasExchange(ctx, user.Username)
	if err != nil {
		return domain.Activity{}, err
	}
	list, err := s.Store.Contacts().GetContactList(ctx, user.Username)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return domain.Activity{}, err
	}

	return domain.Activity{
		MessagesSent:      sent,
		HasConversation:   exchanged,
		LanguagesLearning: len(user.LanguagesLearning),
		Contacts:          len(list.Contacts),
	}, nil
}
