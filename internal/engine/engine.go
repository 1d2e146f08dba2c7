// Package engine is the review-state reconciliation core. Each cycle it
// compares a fresh snapshot of the vendor's unanswered feedbacks against
// the persisted state and derives exactly the notifications that state
// change justifies: new reviews, received answers, overdue reviews.
//
// Nothing here is fatal. Every failure degrades to "no data this cycle"
// and the next cycle retries against the same persisted state.
package engine

import (
	"context"
	"time"

	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/repository/state"
)

// API is what the engine needs from the WB feedbacks client.
type API interface {
	Unanswered(ctx context.Context, shop model.Shop, token string) ([]model.Feedback, error)
	UnansweredSince(ctx context.Context, shop model.Shop, token string, dateFrom int64) ([]model.Feedback, error)
	FeedbackById(ctx context.Context, shop model.Shop, token string, id string) (*model.Feedback, error)
}

// Account pairs a shop with its API credential.
type Account struct {
	Shop  model.Shop
	Token string
}

type Config struct {
	// OverdueLimit is how long a review may stay unanswered before the
	// one-shot overdue alert fires.
	OverdueLimit time.Duration
	// MaxAnswerDelay bounds how stale the broadcast checkpoint may be for
	// "now" to still be a trustworthy estimate of when an answer arrived.
	MaxAnswerDelay time.Duration
	// WorkHoursOnly restricts overdue alerts to the 9-21 window. The
	// customer currently wants alerts around the clock, so it defaults
	// to off.
	WorkHoursOnly bool
	// OpenSetWarnSize is the unanswered-set size above which the full-set
	// comparison is logged as degrading.
	OpenSetWarnSize int
}

func DefaultConfig() Config {
	return Config{
		OverdueLimit:    time.Second * 600,
		MaxAnswerDelay:  time.Second * 120,
		WorkHoursOnly:   false,
		OpenSetWarnSize: 100,
	}
}

type Engine struct {
	api   API
	store state.IRepository
	cnf   Config

	// now is injectable so tests control the clock
	now func() time.Time
}

func New(api API, store state.IRepository, cnf Config) *Engine {
	return &Engine{
		api:   api,
		store: store,
		cnf:   cnf,
		now:   time.Now,
	}
}
