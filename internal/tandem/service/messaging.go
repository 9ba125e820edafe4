package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/metrics"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"github.com/aussiebroadwan/tandem/pkg/idx"
	"github.com/aussiebroadwan/tandem/pkg/slogx"
)

var (
	ErrEmptyMessage   = errors.New("message must not be empty")
	ErrMessageTooLong = errors.New("message is too long")
	ErrBlocked        = errors.New("recipient does not accept messages from you")
)

const MaxMessageLength = 4000

type MessagingService struct {
	Store  store.Store
	Events Publisher
}

// Send stores an immutable message from sender to receiver.
func (s *MessagingService) Send(ctx context.Context, sender, receiver, text string) (domain.Message, error) {
	sender, receiver = domain.NormalizeUsername(sender), domain.NormalizeUsername(receiver)

	if strings.TrimSpace(text) == "" {
		return domain.Message{}, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return domain.Message{}, ErrMessageTooLong
	}
	if sender == receiver {
		return domain.Message{}, ErrSelfRelation
	}

	list, err := s.Store.Contacts().GetContactList(ctx, receiver)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Message{}, ErrUserNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	if list.HasBlocked(sender) {
		return domain.Message{}, ErrBlocked
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	msg := domain.Message{
		ID:        idx.NewAt(now).String(),
		Sender:    sender,
		Receiver:  receiver,
		Text:      text,
		Timestamp: now,
	}
	if err := s.Store.Messages().CreateMessage(ctx, msg); err != nil {
		slogx.FromContext(ctx).Error("failed to store message", slog.Any("error", err))
		return domain.Message{}, err
	}

	metrics.MessageSent()
	publish(s.Events, EventMessageSent, sender)
	return msg, nil
}

// FetchConversation returns both directions between a and b, oldest first.
func (s *MessagingService) FetchConversation(ctx context.Context, a, b string) ([]domain.Message, error) {
	a, b = domain.NormalizeUsername(a), domain.NormalizeUsername(b)

	if _, err := s.Store.Users().GetUser(ctx, b); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	msgs, err := s.Store.Messages().ListConversation(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []domain.Message{}
	}
	return msgs, nil
}
