package mongo

import (
	"context"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type contactsRepo struct {
	repos
}

func (r *contactsRepo) CreateContactList(ctx context.Context, username string) error {
	doc := contactsDoc{Username: username, Contacts: []string{}, Blocked: []string{}}
	err := r.do(ctx, collContacts, func(ctx context.Context, c *mongo.Collection) error {
		_, err := c.InsertOne(ctx, doc)
		return err
	})
	if err == nil {
		r.undo.insert(collContacts, username)
	}
	return err
}

func (r *contactsRepo) GetContactList(ctx context.Context, username string) (domain.ContactList, error) {
	var doc contactsDoc
	err := r.do(ctx, collContacts, func(ctx context.Context, c *mongo.Collection) error {
		return c.FindOne(ctx, bson.D{{Key: "_id", Value: username}}).Decode(&doc)
	})
	if err != nil {
		return domain.ContactList{}, err
	}
	return domain.ContactList{
		Username: doc.Username,
		Contacts: nonNil(doc.Contacts),
		Blocked:  nonNil(doc.Blocked),
	}, nil
}

// AddContact and Block each touch a single document, so $addToSet and $pull
// apply atomically together.
func (r *contactsRepo) AddContact(ctx context.Context, owner, target string) error {
	return r.move(ctx, owner, target, "contacts", "blocked")
}

func (r *contactsRepo) Block(ctx context.Context, owner, target string) error {
	return r.move(ctx, owner, target, "blocked", "contacts")
}

func (r *contactsRepo) RemoveContact(ctx context.Context, owner, target string) error {
	return r.pull(ctx, owner, target, "contacts")
}

func (r *contactsRepo) Unblock(ctx context.Context, owner, target string) error {
	return r.pull(ctx, owner, target, "blocked")
}

func (r *contactsRepo) ListBlockers(ctx context.Context, target string) ([]string, error) {
	var docs []contactsDoc
	err := r.do(ctx, collContacts, func(ctx context.Context, c *mongo.Collection) error {
		cur, err := c.Find(ctx,
			bson.D{{Key: "blocked", Value: target}},
			options.Find().
				SetProjection(bson.D{{Key: "_id", Value: 1}}).
				SetSort(bson.D{{Key: "_id", Value: 1}}),
		)
		if err != nil {
			return err
		}
		docs = docs[:0]
		return cur.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}

	owners := make([]string, len(docs))
	for i, d := range docs {
		owners[i] = d.Username
	}
	return owners, nil
}

func (r *contactsRepo) move(ctx context.Context, owner, target, into, outOf string) error {
	return r.updateOne(ctx, collContacts,
		bson.D{{Key: "_id", Value: owner}},
		bson.D{
			{Key: "$addToSet", Value: bson.D{{Key: into, Value: target}}},
			{Key: "$pull", Value: bson.D{{Key: outOf, Value: target}}},
		},
	)
}

func (r *contactsRepo) pull(ctx context.Context, owner, target, field string) error {
	return r.updateOne(ctx, collContacts,
		bson.D{{Key: "_id", Value: owner}},
		bson.D{{Key: "$pull", Value: bson.D{{Key: field, Value: target}}}},
	)
}
