package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ApplyMigrations creates the indexes the repositories rely on. Creating an
// existing index is a no-op.
func (s *Store) ApplyMigrations() error {
	db, err := s.database()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		collUsers: {
			{
				Keys:    bson.D{{Key: "verificationToken", Value: 1}},
				Options: options.Index().SetUnique(true).SetSparse(true),
			},
			{Keys: bson.D{{Key: "languagesFluentFolded", Value: 1}}},
		},
		collSessions: {
			// The server reaps expired sessions on its own; housekeeping
			// still sweeps so both backends behave the same.
			{
				Keys:    bson.D{{Key: "sessionExpiry", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0),
			},
		},
		collContacts: {
			{Keys: bson.D{{Key: "blocked", Value: 1}}},
		},
		collMessages: {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "receiver", Value: 1}, {Key: "timestamp", Value: 1}}},
			{Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "sender", Value: 1}}},
		},
		collBadges: {
			{Keys: bson.D{{Key: "position", Value: 1}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return mapErr(err)
		}
	}
	return nil
}
