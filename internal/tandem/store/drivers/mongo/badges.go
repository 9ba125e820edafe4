package mongo

import (
	"context"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type badgesRepo struct {
	repos
}

func (r *badgesRepo) UpsertBadge(ctx context.Context, b domain.Badge, position int) error {
	doc := badgeDoc{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		Criteria:    b.Criteria,
		Position:    position,
	}
	return r.do(ctx, collBadges, func(ctx context.Context, c *mongo.Collection) error {
		_, err := c.ReplaceOne(ctx, bson.D{{Key: "_id", Value: b.ID}}, doc, options.Replace().SetUpsert(true))
		return err
	})
}

func (r *badgesRepo) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	var docs []badgeDoc
	err := r.do(ctx, collBadges, func(ctx context.Context, c *mongo.Collection) error {
		cur, err := c.Find(ctx, bson.D{},
			options.Find().SetSort(bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}
		docs = docs[:0]
		return cur.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Badge, len(docs))
	for i, d := range docs {
		out[i] = domain.Badge{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Icon:        d.Icon,
			Criteria:    d.Criteria,
		}
	}
	return out, nil
}
