package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type sessionsRepo struct {
	repos
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	doc := sessionDoc{
		TokenHash:     s.TokenHash,
		Data:          s.Data,
		SessionExpiry: s.ExpiresAt,
		FormToken:     s.FormToken,
		CreatedAt:     s.CreatedAt,
	}
	return r.do(ctx, collSessions, func(ctx context.Context, c *mongo.Collection) error {
		_, err := c.InsertOne(ctx, doc)
		return err
	})
}

func (r *sessionsRepo) GetSession(ctx context.Context, tokenHash string) (domain.Session, error) {
	var doc sessionDoc
	err := r.do(ctx, collSessions, func(ctx context.Context, c *mongo.Collection) error {
		return c.FindOne(ctx, bson.D{{Key: "_id", Value: tokenHash}}).Decode(&doc)
	})
	if err != nil {
		return domain.Session{}, err
	}
	return doc.domain(), nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, tokenHash string) error {
	return r.do(ctx, collSessions, func(ctx context.Context, c *mongo.Collection) error {
		_, err := c.DeleteOne(ctx, bson.D{{Key: "_id", Value: tokenHash}})
		return err
	})
}

func (r *sessionsRepo) SetFormToken(ctx context.Context, tokenHash string, ft domain.FormToken) error {
	return r.updateOne(ctx, collSessions,
		bson.D{{Key: "_id", Value: tokenHash}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "formToken", Value: ft}}}},
	)
}

// TakeFormToken unsets the field and returns the pre-image in one round trip.
func (r *sessionsRepo) TakeFormToken(ctx context.Context, tokenHash string) (*domain.FormToken, error) {
	var doc sessionDoc
	err := r.do(ctx, collSessions, func(ctx context.Context, c *mongo.Collection) error {
		return c.FindOneAndUpdate(ctx,
			bson.D{
				{Key: "_id", Value: tokenHash},
				{Key: "formToken", Value: bson.D{{Key: "$exists", Value: true}}},
			},
			bson.D{{Key: "$unset", Value: bson.D{{Key: "formToken", Value: ""}}}},
			options.FindOneAndUpdate().SetReturnDocument(options.Before),
		).Decode(&doc)
	})
	if errors.Is(err, store.ErrNotFound) {
		// Either no session or no code; only the former is an error.
		if _, err := r.GetSession(ctx, tokenHash); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.domain().FormToken, nil
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.do(ctx, collSessions, func(ctx context.Context, c *mongo.Collection) error {
		res, err := c.DeleteMany(ctx, bson.D{{Key: "sessionExpiry", Value: bson.D{{Key: "$lte", Value: now}}}})
		if err != nil {
			return err
		}
		n = res.DeletedCount
		return nil
	})
	return n, err
}
