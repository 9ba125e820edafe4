package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
)

const userColumns = `username, email, password_hash, profile_photo, languages_fluent,
	languages_learning, verified, verification_token_hash, user_type, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`, languages_fluent_folded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username,
		u.Email,
		u.PasswordHash,
		nullString(u.ProfilePhoto),
		encodeSet(u.LanguagesFluent),
		encodeSet(u.LanguagesLearning),
		u.Verified,
		nullString(u.VerificationTokenHash),
		u.UserType,
		toMillis(u.CreatedAt),
		toMillis(u.UpdatedAt),
		encodeSet(domain.FoldLanguages(u.LanguagesFluent)),
	)
	if err != nil {
		return mapConstraint(err)
	}
	if len(u.Badges) > 0 {
		_, err = r.AddBadges(ctx, u.Username, u.Badges)
	}
	return err
}

func (r *usersRepo) GetUser(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *usersRepo) GetUserByVerificationTokenHash(ctx context.Context, hash string) (domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE verification_token_hash = ?`, hash)
}

func (r *usersRepo) getOne(ctx context.Context, query string, arg any) (domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	badges, err := r.loadBadges(ctx, []string{u.Username})
	if err != nil {
		return domain.User{}, err
	}
	u.Badges = badgesOrEmpty(badges[u.Username])
	return u, nil
}

func (r *usersRepo) MarkVerified(ctx context.Context, username, hash string) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE users
		SET verified = 1, verification_token_hash = NULL, updated_at = ?
		WHERE username = ? AND verification_token_hash = ? AND verified = 0`,
		toMillis(time.Now()), username, hash,
	))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE username = ?`,
		hash, toMillis(time.Now()), username,
	))
}

func (r *usersRepo) UpdateProfile(ctx context.Context, username string, p domain.ProfileUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{toMillis(time.Now())}

	if p.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *p.Email)
	}
	if p.ProfilePhoto != nil {
		sets = append(sets, "profile_photo = ?")
		args = append(args, nullString(*p.ProfilePhoto))
	}
	if p.LanguagesFluent != nil {
		sets = append(sets, "languages_fluent = ?", "languages_fluent_folded = ?")
		args = append(args, encodeSet(p.LanguagesFluent), encodeSet(domain.FoldLanguages(p.LanguagesFluent)))
	}
	if p.LanguagesLearning != nil {
		sets = append(sets, "languages_learning = ?")
		args = append(args, encodeSet(p.LanguagesLearning))
	}
	args = append(args, username)

	return requireRow(r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE username = ?`, args...))
}

// AddBadges relies on the (username, badge_id) key for set semantics.
func (r *usersRepo) AddBadges(ctx context.Context, username string, ids []string) ([]string, error) {
	now := toMillis(time.Now())
	for _, id := range ids {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO user_badges (username, badge_id, earned_at)
			VALUES (?, ?, ?)
			ON CONFLICT (username, badge_id) DO NOTHING`,
			username, id, now,
		)
		if err != nil {
			return nil, mapConstraint(err)
		}
	}

	badges, err := r.loadBadges(ctx, []string{username})
	if err != nil {
		return nil, err
	}
	return badgesOrEmpty(badges[username]), nil
}

func (r *usersRepo) ListByUsernames(ctx context.Context, usernames []string) ([]domain.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE username IN (SELECT value FROM json_each(?))
		ORDER BY username`,
		encodeSet(usernames),
	)
}

func (r *usersRepo) FindFluentIn(ctx context.Context, langs, exclude []string, limit int) ([]domain.User, error) {
	if len(langs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE EXISTS (
			SELECT 1 FROM json_each(users.languages_fluent_folded) f
			WHERE f.value IN (SELECT value FROM json_each(?))
		)
		AND username NOT IN (SELECT value FROM json_each(?))
		ORDER BY username
		LIMIT ?`,
		encodeSet(domain.FoldLanguages(langs)), encodeSet(exclude), limit,
	)
}

func (r *usersRepo) list(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return users, nil
	}

	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	badges, err := r.loadBadges(ctx, names)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Badges = badgesOrEmpty(badges[users[i].Username])
	}
	return users, nil
}

// loadBadges returns earned badges per user in earning order.
func (r *usersRepo) loadBadges(ctx context.Context, usernames []string) (map[string][]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT username, badge_id FROM user_badges
		WHERE username IN (SELECT value FROM json_each(?))
		ORDER BY earned_at, rowid`,
		encodeSet(usernames),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]string, len(usernames))
	for rows.Next() {
		var username, id string
		if err := rows.Scan(&username, &id); err != nil {
			return nil, err
		}
		out[username] = append(out[username], id)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u                domain.User
		photo, tokenHash sql.NullString
		fluent, learning string
		created, updated int64
	)
	err := row.Scan(
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&photo,
		&fluent,
		&learning,
		&u.Verified,
		&tokenHash,
		&u.UserType,
		&created,
		&updated,
	)
	if err != nil {
		return domain.User{}, err
	}

	if u.LanguagesFluent, err = decodeSet(fluent); err != nil {
		return domain.User{}, err
	}
	if u.LanguagesLearning, err = decodeSet(learning); err != nil {
		return domain.User{}, err
	}
	u.ProfilePhoto = photo.String
	u.VerificationTokenHash = tokenHash.String
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return u, nil
}

func badgesOrEmpty(b []string) []string {
	if b == nil {
		return []string{}
	}
	return b
}

