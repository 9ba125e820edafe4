package sqlite

import (
	"context"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
)

type badgesRepo struct {
	db dbtx
}

func (r *badgesRepo) UpsertBadge(ctx context.Context, b domain.Badge, position int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO badges (id, name, description, icon, criteria_kind, criteria_threshold, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			icon = excluded.icon,
			criteria_kind = excluded.criteria_kind,
			criteria_threshold = excluded.criteria_threshold,
			position = excluded.position`,
		b.ID, b.Name, b.Description, b.Icon, string(b.Criteria.Kind), b.Criteria.Threshold, position,
	)
	return err
}

func (r *badgesRepo) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, icon, criteria_kind, criteria_threshold
		FROM badges ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Badge
	for rows.Next() {
		var (
			b    domain.Badge
			kind string
		)
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &kind, &b.Criteria.Threshold); err != nil {
			return nil, err
		}
		b.Criteria.Kind = domain.CriteriaKind(kind)
		out = append(out, b)
	}
	return out, rows.Err()
}
