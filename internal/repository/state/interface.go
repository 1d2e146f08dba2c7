package state

import (
	"context"

	"wb-review-notifier/internal/model"
)

// IRepository is the durable-state capability of the reconciliation
// engine. Every operation is linearizable per key; the backing store
// provides that, callers add no locking of their own.
type IRepository interface {
	LastCheck(ctx context.Context, shop model.Shop, kind model.NotifType) (int64, error)
	SetLastCheck(ctx context.Context, shop model.Shop, kind model.NotifType, ts int64) error
	BroadcastLastCheck(ctx context.Context) (int64, error)
	SetBroadcastLastCheck(ctx context.Context, ts int64) error

	PastReviewIds(ctx context.Context, shop model.Shop) (map[string]struct{}, error)
	ReplacePastReviewIds(ctx context.Context, shop model.Shop, ids []string) error

	OpenReviewIds(ctx context.Context, shop model.Shop) ([]string, error)
	AddOpenReviews(ctx context.Context, shop model.Shop, ids []string) error
	RemoveOpenReview(ctx context.Context, shop model.Shop, id string) error
	NotifiedOverdue(ctx context.Context, shop model.Shop, id string) (bool, error)
	MarkNotifiedOverdue(ctx context.Context, shop model.Shop, id string) error
}
