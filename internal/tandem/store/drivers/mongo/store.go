package mongo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	collUsers    = "users"
	collSessions = "sessions"
	collContacts = "contacts"
	collMessages = "messages"
	collBadges   = "badges"
)

type Config struct {
	URI      string
	Database string

	// Retry applies to operations outside a transaction.
	Retry store.RetryPolicy
}

// Store is a MongoDB backed store. The client is created on first use, once.
type Store struct {
	cfg Config

	once   sync.Once
	client *mongo.Client
	db     *mongo.Database
	err    error

	txMu        sync.Mutex
	txKnown     bool
	txSupported bool
}

var _ store.Store = (*Store)(nil)

func NewStore(cfg Config) *Store {
	if cfg.Database == "" {
		cfg.Database = "tandem"
	}
	if cfg.Retry == (store.RetryPolicy{}) {
		cfg.Retry = store.DefaultRetryPolicy
	}
	return &Store{cfg: cfg}
}

func (s *Store) database() (*mongo.Database, error) {
	s.once.Do(func() {
		opts := options.Client().
			ApplyURI(s.cfg.URI).
			SetServerSelectionTimeout(5 * time.Second)

		client, err := mongo.Connect(opts)
		if err != nil {
			s.err = err
			return
		}
		s.client = client
		s.db = client.Database(s.cfg.Database)
	})
	return s.db, s.err
}

func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.database(); err != nil {
		return err
	}
	return mapErr(s.client.Ping(ctx, readpref.Primary()))
}

func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// supportsTx reports whether the deployment is a replica set or sharded
// cluster. Standalone servers reject multi-document transactions. Only a
// successful probe is remembered.
func (s *Store) supportsTx(db *mongo.Database) (bool, error) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if s.txKnown {
		return s.txSupported, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		return false, mapErr(err)
	}
	s.txSupported = hello.SetName != "" || hello.Msg == "isdbgrid"
	s.txKnown = true
	return s.txSupported, nil
}

// WithTx runs fn inside a client session transaction when the deployment
// supports one. On a standalone server fn runs directly and, if it fails,
// the documents it inserted are deleted again.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	db, err := s.database()
	if err != nil {
		return err
	}
	ok, err := s.supportsTx(db)
	if err != nil {
		return err
	}
	if !ok {
		undo := &undoLog{}
		err := fn(repos{s: s, noRetry: true, undo: undo})
		if err == nil {
			return nil
		}
		// ctx may already be done.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if rerr := undo.rollback(rctx, db); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return mapErr(err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(repos{s: s, sess: sess})
	})
	return err
}

func (s *Store) Users() store.Users       { return repos{s: s}.Users() }
func (s *Store) Sessions() store.Sessions { return repos{s: s}.Sessions() }
func (s *Store) Contacts() store.Contacts { return repos{s: s}.Contacts() }
func (s *Store) Messages() store.Messages { return repos{s: s}.Messages() }
func (s *Store) Badges() store.Badges     { return repos{s: s}.Badges() }

// repos carries the optional transaction session into every repository.
type repos struct {
	s       *Store
	sess    *mongo.Session
	noRetry bool
	undo    *undoLog
}

type inserted struct {
	coll string
	id   string
}

// undoLog records inserts made by WithTx without a transaction.
type undoLog struct {
	mu   sync.Mutex
	docs []inserted
}

func (u *undoLog) insert(coll, id string) {
	if u == nil {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.docs = append(u.docs, inserted{coll: coll, id: id})
}

// rollback deletes the recorded documents, newest first.
func (u *undoLog) rollback(ctx context.Context, db *mongo.Database) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	var errs []error
	for i := len(u.docs) - 1; i >= 0; i-- {
		d := u.docs[i]
		if _, err := db.Collection(d.coll).DeleteOne(ctx, bson.D{{Key: "_id", Value: d.id}}); err != nil {
			errs = append(errs, mapErr(err))
		}
	}
	return errors.Join(errs...)
}

func (r repos) Users() store.Users       { return &usersRepo{r} }
func (r repos) Sessions() store.Sessions { return &sessionsRepo{r} }
func (r repos) Contacts() store.Contacts { return &contactsRepo{r} }
func (r repos) Messages() store.Messages { return &messagesRepo{r} }
func (r repos) Badges() store.Badges     { return &badgesRepo{r} }

// do runs op against the named collection. Inside a transaction op is bound
// to the session and not retried (WithTransaction retries as a whole).
func (r repos) do(ctx context.Context, coll string, op func(ctx context.Context, c *mongo.Collection) error) error {
	db, err := r.s.database()
	if err != nil {
		return err
	}
	c := db.Collection(coll)

	if r.sess != nil {
		return mapErr(op(mongo.NewSessionContext(ctx, r.sess), c))
	}
	if r.noRetry {
		return mapErr(op(ctx, c))
	}
	return store.Retry(ctx, r.s.cfg.Retry, func() error {
		return mapErr(op(ctx, c))
	})
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(store.ErrAlreadyExists, err)
	case mongo.IsNetworkError(err), mongo.IsTimeout(err):
		return store.Unavailable(err)
	}
	return err
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
