package mongo

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type usersRepo struct {
	repos
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	err := r.do(ctx, collUsers, func(ctx context.Context, c *mongo.Collection) error {
		_, err := c.InsertOne(ctx, toUserDoc(u))
		return err
	})
	if err == nil {
		r.undo.insert(collUsers, u.Username)
	}
	return err
}

func (r *usersRepo) GetUser(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: username}})
}

func (r *usersRepo) GetUserByVerificationTokenHash(ctx context.Context, hash string) (domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "verificationToken", Value: hash}})
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.D) (domain.User, error) {
	var doc userDoc
	err := r.do(ctx, collUsers, func(ctx context.Context, c *mongo.Collection) error {
		return c.FindOne(ctx, filter).Decode(&doc)
	})
	if err != nil {
		return domain.User{}, err
	}
	return doc.domain(), nil
}

func (r *usersRepo) MarkVerified(ctx context.Context, username, hash string) error {
	filter := bson.D{
		{Key: "_id", Value: username},
		{Key: "verificationToken", Value: hash},
		{Key: "verified", Value: false},
	}
	update := bson.D{
		{Key: "$set", Value: bson.D{{Key: "verified", Value: true}, {Key: "updatedAt", Value: time.Now()}}},
		{Key: "$unset", Value: bson.D{{Key: "verificationToken", Value: ""}}},
	}
	return r.updateOne(ctx, collUsers, filter, update)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, username, hash string) error {
	return r.updateOne(ctx, collUsers,
		bson.D{{Key: "_id", Value: username}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "password", Value: hash},
			{Key: "updatedAt", Value: time.Now()},
		}}},
	)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, username string, p domain.ProfileUpdate) error {
	set := bson.D{{Key: "updatedAt", Value: time.Now()}}
	if p.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *p.Email})
	}
	if p.ProfilePhoto != nil {
		var photo any
		if *p.ProfilePhoto != "" {
			photo = *p.ProfilePhoto
		}
		set = append(set, bson.E{Key: "profilePhoto", Value: photo})
	}
	if p.LanguagesFluent != nil {
		set = append(set,
			bson.E{Key: "languagesFluent", Value: p.LanguagesFluent},
			bson.E{Key: "languagesFluentFolded", Value: domain.FoldLanguages(p.LanguagesFluent)},
		)
	}
	if p.LanguagesLearning != nil {
		set = append(set, bson.E{Key: "languagesLearning", Value: p.LanguagesLearning})
	}
	return r.updateOne(ctx, collUsers, bson.D{{Key: "_id", Value: username}}, bson.D{{Key: "$set", Value: set}})
}

func (r *usersRepo) AddBadges(ctx context.Context, username string, ids []string) ([]string, error) {
	var doc userDoc
	err := r.do(ctx, collUsers, func(ctx context.Context, c *mongo.Collection) error {
		return c.FindOneAndUpdate(ctx,
			bson.D{{Key: "_id", Value: username}},
			bson.D{{Key: "$addToSet", Value: bson.D{
				{Key: "badges", Value: bson.D{{Key: "$each", Value: nonNil(ids)}}},
			}}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&doc)
	})
	if err != nil {
		return nil, err
	}
	return nonNil(doc.Badges), nil
}

func (r *usersRepo) ListByUsernames(ctx context.Context, usernames []string) ([]domain.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	return r.find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: usernames}}}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
}

// FindFluentIn matches against the case-folded copy of the fluent set.
func (r *usersRepo) FindFluentIn(ctx context.Context, langs, exclude []string, limit int) ([]domain.User, error) {
	if len(langs) == 0 {
		return nil, nil
	}

	filter := bson.D{
		{Key: "languagesFluentFolded", Value: bson.D{{Key: "$in", Value: domain.FoldLanguages(langs)}}},
		{Key: "_id", Value: bson.D{{Key: "$nin", Value: nonNil(exclude)}}},
	}
	return r.find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(int64(limit)),
	)
}

func (r *usersRepo) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]domain.User, error) {
	var docs []userDoc
	err := r.do(ctx, collUsers, func(ctx context.Context, c *mongo.Collection) error {
		cur, err := c.Find(ctx, filter, opts)
		if err != nil {
			return err
		}
		docs = docs[:0]
		return cur.All(ctx, &docs)
	})
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, len(docs))
	for i, d := range docs {
		users[i] = d.domain()
	}
	return users, nil
}

// updateOne reports ErrNotFound when the filter matched nothing.
func (r repos) updateOne(ctx context.Context, coll string, filter, update bson.D) error {
	return r.do(ctx, coll, func(ctx context.Context, c *mongo.Collection) error {
		res, err := c.UpdateOne(ctx, filter, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}
