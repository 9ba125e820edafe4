package store

import (
	"context"
	"errors"
)

// SessionBackend is a standalone Sessions implementation with its own
// connection, such as Redis.
type SessionBackend interface {
	Sessions
	Ping(ctx context.Context) error
	Close() error
}

// WithSessions serves Sessions from b and everything else from s.
func WithSessions(s Store, b SessionBackend) Store {
	return &sessionsOverlay{Store: s, backend: b}
}

type sessionsOverlay struct {
	Store
	backend SessionBackend
}

func (o *sessionsOverlay) Sessions() Sessions { return o.backend }

func (o *sessionsOverlay) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return o.Store.WithTx(ctx, func(tx Tx) error {
		return fn(txOverlay{Tx: tx, sessions: o.backend})
	})
}

func (o *sessionsOverlay) Ping(ctx context.Context) error {
	return errors.Join(o.Store.Ping(ctx), o.backend.Ping(ctx))
}

func (o *sessionsOverlay) Close() error {
	return errors.Join(o.backend.Close(), o.Store.Close())
}

type txOverlay struct {
	Tx
	sessions Sessions
}

func (t txOverlay) Sessions() Sessions { return t.sessions }
