package sqlite

import (
	"context"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
)

type messagesRepo struct {
	db dbtx
}

func (r *messagesRepo) CreateMessage(ctx context.Context, m domain.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages (id, sender, receiver, body, sent_at)
		VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.Sender, m.Receiver, m.Text, toMillis(m.Timestamp),
	)
	return mapConstraint(err)
}

func (r *messagesRepo) ListConversation(ctx context.Context, a, b string) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sender, receiver, body, sent_at FROM messages
		WHERE (sender = ? AND receiver = ?) OR (sender = ? AND receiver = ?)
		ORDER BY sent_at, id`,
		a, b, b, a,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []domain.Message{}
	for rows.Next() {
		var (
			m      domain.Message
			sentAt int64
		)
		if err := rows.Scan(&m.ID, &m.Sender, &m.Receiver, &m.Text, &sentAt); err != nil {
			return nil, err
		}
		m.Timestamp = fromMillis(sentAt)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *messagesRepo) CountSent(ctx context.Context, sender string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE sender = ?`, sender).Scan(&n)
	return n, err
}

func (r *messagesRepo) HasExchange(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM messages sent
			JOIN messages recv ON recv.sender = sent.receiver AND recv.receiver = sent.sender
			WHERE sent.sender = ?
		)`, username,
	).Scan(&ok)
	return ok, err
}
