package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrUnavailable marks transient connectivity failures. Only errors
	// wrapping it are retried by Retry.
	ErrUnavailable = errors.New("store: unavailable")
)

// Repos groups the per-collection repositories.
type Repos interface {
	Users() Users
	Sessions() Sessions
	Contacts() Contacts
	Messages() Messages
	Badges() Badges
}

// Store is the root data access interface. Drivers (sqlite, mongo) implement
// it. Sub-repositories are reached through methods so a Tx cannot open a
// nested transaction.
type Store interface {
	Repos

	// ApplyMigrations brings the schema (tables or indexes) up to date.
	ApplyMigrations() error

	// WithTx runs fn atomically. If fn returns an error everything it wrote
	// is discarded.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transaction-scoped view of the repositories.
type Tx interface {
	Repos
}

type Users interface {
	// CreateUser inserts a user. ErrAlreadyExists on a duplicate username.
	CreateUser(ctx context.Context, u domain.User) error

	GetUser(ctx context.Context, username string) (domain.User, error)

	GetUserByVerificationTokenHash(ctx context.Context, hash string) (domain.User, error)

	// MarkVerified flips verified=true and clears the token, but only while
	// the stored token hash still equals hash. ErrNotFound otherwise.
	MarkVerified(ctx context.Context, username, hash string) error

	UpdatePasswordHash(ctx context.Context, username, hash string) error

	UpdateProfile(ctx context.Context, username string, p domain.ProfileUpdate) error

	// AddBadges set-adds ids to the user's badges and returns the resulting set.
	AddBadges(ctx context.Context, username string, ids []string) ([]string, error)

	// ListByUsernames returns the users that exist, in no particular order.
	ListByUsernames(ctx context.Context, usernames []string) ([]domain.User, error)

	// FindFluentIn returns users whose fluent set intersects langs, skipping
	// exclude, ordered by username, at most limit.
	FindFluentIn(ctx context.Context, langs, exclude []string, limit int) ([]domain.User, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	GetSession(ctx context.Context, tokenHash string) (domain.Session, error)

	// DeleteSession is idempotent.
	DeleteSession(ctx context.Context, tokenHash string) error

	// SetFormToken attaches ft, replacing any previous code.
	SetFormToken(ctx context.Context, tokenHash string, ft domain.FormToken) error

	// TakeFormToken atomically clears the form token and returns what was
	// there (nil if nothing).
	TakeFormToken(ctx context.Context, tokenHash string) (*domain.FormToken, error)

	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Contacts interface {
	CreateContactList(ctx context.Context, username string) error

	GetContactList(ctx context.Context, username string) (domain.ContactList, error)

	// AddContact set-adds target to contacts and removes it from blocked.
	AddContact(ctx context.Context, owner, target string) error

	RemoveContact(ctx context.Context, owner, target string) error

	// Block set-adds target to blocked and removes it from contacts.
	Block(ctx context.Context, owner, target string) error

	Unblock(ctx context.Context, owner, target string) error

	// ListBlockers returns the owners whose blocked set contains target.
	ListBlockers(ctx context.Context, target string) ([]string, error)
}

type Messages interface {
	CreateMessage(ctx context.Context, m domain.Message) error

	// ListConversation returns a→b and b→a ordered by timestamp then id.
	ListConversation(ctx context.Context, a, b string) ([]domain.Message, error)

	CountSent(ctx context.Context, sender string) (int, error)

	// HasExchange reports whether username both sent to and received from
	// some partner.
	HasExchange(ctx context.Context, username string) (bool, error)
}

type Badges interface {
	// UpsertBadge writes a badge definition at position.
	UpsertBadge(ctx context.Context, b domain.Badge, position int) error

	// ListBadges returns definitions in position order.
	ListBadges(ctx context.Context) ([]domain.Badge, error)
}
