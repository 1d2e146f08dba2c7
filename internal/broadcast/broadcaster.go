// Package broadcast drives the reconciliation engine: one cycle polls
// every shop for every event kind, sequentially, and records the cycle
// checkpoint. Cycles run back to back, never overlapping; that is what
// keeps the per-shop state sequentially consistent.
package broadcast

import (
	"context"
	"time"

	"wb-review-notifier/internal/engine"
	"wb-review-notifier/internal/notify"

	"github.com/rs/zerolog/log"
)

// Reconciler is the per-shop operation surface of the engine.
type Reconciler interface {
	NewReviews(ctx context.Context, acc engine.Account) []string
	NewAnswers(ctx context.Context, acc engine.Account) []string
	Overdue(ctx context.Context, acc engine.Account) []string
}

// CycleCheckpoint records when a full cycle finished; the engine's
// answer-time freshness gate reads it back.
type CycleCheckpoint interface {
	SetBroadcastLastCheck(ctx context.Context, ts int64) error
}

type Broadcaster struct {
	reconciler Reconciler
	store      CycleCheckpoint
	accounts   []engine.Account
	interval   time.Duration
	events     chan notify.Notification
	now        func() time.Time
}

func New(reconciler Reconciler, store CycleCheckpoint, accounts []engine.Account, interval time.Duration) *Broadcaster {
	return &Broadcaster{
		reconciler: reconciler,
		store:      store,
		accounts:   accounts,
		interval:   interval,
		events:     make(chan notify.Notification),
		now:        time.Now,
	}
}

// Notifications is the stream the publisher consumes. It closes when Run
// returns.
func (b *Broadcaster) Notifications() <-chan notify.Notification {
	return b.events
}

// Run executes cycles until the context is cancelled.
func (b *Broadcaster) Run(ctx context.Context) error {
	defer close(b.events)

	for {
		log.Info().Msg("--- start broadcast cycle ---")
		b.cycle(ctx)
		log.Info().Msg("--- end broadcast cycle ---")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.interval):
		}
	}
}

// cycle mirrors the fixed order of the original loop: new reviews for
// every shop, then new answers, then overdue checks, then the checkpoint.
func (b *Broadcaster) cycle(ctx context.Context) {
	for _, acc := range b.accounts {
		b.emit(ctx, notify.KindNewReview, acc, b.reconciler.NewReviews(ctx, acc))
	}
	for _, acc := range b.accounts {
		b.emit(ctx, notify.KindNewAnswer, acc, b.reconciler.NewAnswers(ctx, acc))
	}
	for _, acc := range b.accounts {
		b.emit(ctx, notify.KindOverdue, acc, b.reconciler.Overdue(ctx, acc))
	}

	if err := b.store.SetBroadcastLastCheck(ctx, b.now().Unix()); err != nil {
		log.Error().Err(err).Msg("broadcast: failed to store cycle checkpoint")
	}
}

func (b *Broadcaster) emit(ctx context.Context, kind notify.Kind, acc engine.Account, texts []string) {
	for _, text := range texts {
		select {
		case b.events <- notify.Notification{Kind: kind, Shop: acc.Shop, Text: text}:
		case <-ctx.Done():
			return
		}
	}
}
