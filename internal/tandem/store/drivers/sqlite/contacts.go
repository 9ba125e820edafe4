package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
)

const (
	kindContact = "contact"
	kindBlocked = "blocked"
)

type contactsRepo struct {
	db dbtx
}

func (r *contactsRepo) CreateContactList(ctx context.Context, username string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO contact_lists (username) VALUES (?)`, username)
	return mapConstraint(err)
}

func (r *contactsRepo) GetContactList(ctx context.Context, username string) (domain.ContactList, error) {
	var owner string
	err := r.db.QueryRowContext(ctx,
		`SELECT username FROM contact_lists WHERE username = ?`, username,
	).Scan(&owner)
	if err != nil {
		return domain.ContactList{}, mapNotFound(err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT target, kind FROM contact_entries
		WHERE owner = ?
		ORDER BY added_at, rowid`, owner,
	)
	if err != nil {
		return domain.ContactList{}, err
	}
	defer rows.Close()

	list := domain.ContactList{Username: owner, Contacts: []string{}, Blocked: []string{}}
	for rows.Next() {
		var target, kind string
		if err := rows.Scan(&target, &kind); err != nil {
			return domain.ContactList{}, err
		}
		if kind == kindBlocked {
			list.Blocked = append(list.Blocked, target)
		} else {
			list.Contacts = append(list.Contacts, target)
		}
	}
	return list, rows.Err()
}

func (r *contactsRepo) AddContact(ctx context.Context, owner, target string) error {
	return r.put(ctx, owner, target, kindContact)
}

func (r *contactsRepo) Block(ctx context.Context, owner, target string) error {
	return r.put(ctx, owner, target, kindBlocked)
}

func (r *contactsRepo) RemoveContact(ctx context.Context, owner, target string) error {
	return r.remove(ctx, owner, target, kindContact)
}

func (r *contactsRepo) Unblock(ctx context.Context, owner, target string) error {
	return r.remove(ctx, owner, target, kindBlocked)
}

func (r *contactsRepo) ListBlockers(ctx context.Context, target string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT owner FROM contact_entries
		WHERE target = ? AND kind = ?
		ORDER BY owner`, target, kindBlocked,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var o string
		if err := rows.Scan(&o); err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

// put moves target into the kind set in one statement. The (owner, target)
// key keeps contacts and blocked exclusive.
func (r *contactsRepo) put(ctx context.Context, owner, target, kind string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contact_entries (owner, target, kind, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner, target) DO UPDATE
			SET kind = excluded.kind, added_at = excluded.added_at
			WHERE contact_entries.kind <> excluded.kind`,
		owner, target, kind, toMillis(time.Now()),
	)
	return mapConstraint(err)
}

func (r *contactsRepo) remove(ctx context.Context, owner, target, kind string) error {
	if err := r.ensureList(ctx, owner); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM contact_entries WHERE owner = ? AND target = ? AND kind = ?`,
		owner, target, kind,
	)
	return err
}

func (r *contactsRepo) ensureList(ctx context.Context, owner string) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM contact_lists WHERE username = ?`, owner).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
