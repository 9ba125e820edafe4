package mongo

import (
	"context"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type messagesRepo struct {
	repos
}

func (r *messagesRepo) CreateMessage(ctx context.Context, m domain.Message) error {
	doc := messageDoc{
		ID:        m.ID,
		Sender:    m.Sender,
		Receiver:  m.Receiver,
		Message:   m.Text,
		Timestamp: m.Timestamp,
	}
	return r.do(ctx, collMessages, func(ctx context.Context, c *mongo.Collection) error {
		_, err := c.InsertOne(ctx, doc)
		return err
	})
}

func (r *messagesRepo) ListConversation(ctx context.Context, a, b string) ([]domain.Message, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "sender", Value: a}, {Key: "receiver", Value: b}},
		bson.D{{Key: "sender", Value: b}, {Key: "receiver", Value: a}},
	}}}

	var docs []messageDoc
	err := r.do(ctx, collMessages, func(ctx context.Context, c *mongo.Collection) error {
		cur, err := c.Find(ctx, filter,
			options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}))
		if err != nil {
			return err
		}
		docs = docs[:0]
		return cur.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}

	msgs := make([]domain.Message, len(docs))
	for i, d := range docs {
		msgs[i] = domain.Message{
			ID:        d.ID,
			Sender:    d.Sender,
			Receiver:  d.Receiver,
			Text:      d.Message,
			Timestamp: d.Timestamp.UTC(),
		}
	}
	return msgs, nil
}

func (r *messagesRepo) CountSent(ctx context.Context, sender string) (int, error) {
	var n int64
	err := r.do(ctx, collMessages, func(ctx context.Context, c *mongo.Collection) error {
		var err error
		n, err = c.CountDocuments(ctx, bson.D{{Key: "sender", Value: sender}})
		return err
	})
	return int(n), err
}

// HasExchange looks for a reply from anyone username has written to.
func (r *messagesRepo) HasExchange(ctx context.Context, username string) (bool, error) {
	var found bool
	err := r.do(ctx, collMessages, func(ctx context.Context, c *mongo.Collection) error {
		var partners []string
		err := c.Distinct(ctx, "receiver", bson.D{{Key: "sender", Value: username}}).Decode(&partners)
		if err != nil || len(partners) == 0 {
			return err
		}

		n, err := c.CountDocuments(ctx,
			bson.D{
				{Key: "sender", Value: bson.D{{Key: "$in", Value: partners}}},
				{Key: "receiver", Value: username},
			},
			options.Count().SetLimit(1),
		)
		found = n > 0
		return err
	})
	return found, err
}
