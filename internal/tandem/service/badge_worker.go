package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tandem/internal/tandem/metrics"
)

// BadgeWorker runs AssignBadges off the request path. Publishers never
// wait: when the queue is full the event is dropped and logged.
type BadgeWorker struct {
	Badges  *BadgeService
	Logger  *slog.Logger
	Timeout time.Duration

	events chan Event
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgeWorker creates a worker with a queue of size buffer. Defaults are
// 256 events and a 10 second timeout per assignment.
func NewBadgeWorker(badges *BadgeService, logger *slog.Logger, buffer int, timeout time.Duration) *BadgeWorker {
	if buffer <= 0 {
		buffer = 256
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &BadgeWorker{
		Badges:  badges,
		Logger:  logger,
		Timeout: timeout,
		events:  make(chan Event, buffer),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

func (w *BadgeWorker) Publish(e Event) {
	if e.Username == "" {
		return
	}
	select {
	case w.events <- e:
	default:
		metrics.BadgeEvent("dropped")
		w.Logger.Warn("badge queue full, dropping event",
			slog.String("kind", string(e.Kind)),
			slog.String("username", e.Username),
		)
	}
}

func (w *BadgeWorker) Start() {
	go w.run()
	w.Logger.Info("badge worker started", "buffer", cap(w.events))
}

// Stop finishes queued events and returns once the worker has exited.
func (w *BadgeWorker) Stop() {
	close(w.stopCh)
	<-w.doneCh
	w.Logger.Info("badge worker stopped")
}

func (w *BadgeWorker) run() {
	defer close(w.doneCh)

	for {
		select {
		case e := <-w.events:
			w.handle(e)
		case <-w.stopCh:
			for {
				select {
				case e := <-w.events:
					w.handle(e)
				default:
					return
				}
			}
		}
	}
}

func (w *BadgeWorker) handle(e Event) {
	ctx, cancel := context.WithTimeout(context.Background(), w.Timeout)
	defer cancel()

	if _, err := w.Badges.AssignBadges(ctx, e.Username); err != nil {
		metrics.BadgeEvent("failed")
		w.Logger.Error("badge assignment failed",
			slog.String("kind", string(e.Kind)),
			slog.String("username", e.Username),
			slog.Any("error", err),
		)
		return
	}
	metrics.BadgeEvent("processed")
}
