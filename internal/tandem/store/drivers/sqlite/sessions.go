package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return err
	}

	var code sql.NullString
	var codeExp sql.NullInt64
	if s.FormToken != nil {
		code = nullString(s.FormToken.Code)
		codeExp = sql.NullInt64{Int64: toMillis(s.FormToken.ExpiresAt), Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, username, data, expires_at, form_token_code, form_token_expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.TokenHash,
		s.Data.UserName,
		string(data),
		toMillis(s.ExpiresAt),
		code,
		codeExp,
		toMillis(s.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, tokenHash string) (domain.Session, error) {
	var (
		s       domain.Session
		data    string
		expires int64
		created int64
		code    sql.NullString
		codeExp sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT token_hash, data, expires_at, form_token_code, form_token_expires_at, created_at
		FROM sessions WHERE token_hash = ?`, tokenHash,
	).Scan(&s.TokenHash, &data, &expires, &code, &codeExp, &created)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	if err := json.Unmarshal([]byte(data), &s.Data); err != nil {
		return domain.Session{}, err
	}
	s.ExpiresAt = fromMillis(expires)
	s.CreatedAt = fromMillis(created)
	if code.Valid {
		s.FormToken = &domain.FormToken{Code: code.String, ExpiresAt: nullMillis(codeExp)}
	}
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	return err
}

func (r *sessionsRepo) SetFormToken(ctx context.Context, tokenHash string, ft domain.FormToken) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE sessions SET form_token_code = ?, form_token_expires_at = ?
		WHERE token_hash = ?`,
		ft.Code, toMillis(ft.ExpiresAt), tokenHash,
	))
}

// TakeFormToken reads the current code then clears it only if it is still
// the same code, so two concurrent takers cannot both receive it.
func (r *sessionsRepo) TakeFormToken(ctx context.Context, tokenHash string) (*domain.FormToken, error) {
	s, err := r.GetSession(ctx, tokenHash)
	if err != nil {
		return nil, err
	}
	if s.FormToken == nil {
		return nil, nil
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE sessions SET form_token_code = NULL, form_token_expires_at = NULL
		WHERE token_hash = ? AND form_token_code = ?`,
		tokenHash, s.FormToken.Code,
	)
	if err != nil {
		return nil, mapConstraint(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return s.FormToken, nil
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
