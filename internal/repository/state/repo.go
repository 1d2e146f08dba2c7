package state

import (
	"context"
	"fmt"
	"time"

	"wb-review-notifier/internal/database"
	ierr "wb-review-notifier/internal/errors"
	"wb-review-notifier/internal/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type StateRepository struct {
	db database.Client
}

var _ IRepository = StateRepository{}

func New(db database.Client) StateRepository {
	return StateRepository{
		db: db,
	}
}

func checkpointKey(shop model.Shop, kind model.NotifType) string {
	return fmt.Sprintf("%s_%s", shop, kind)
}

func (r StateRepository) LastCheck(ctx context.Context, shop model.Shop, kind model.NotifType) (int64, error) {
	return r.checkpoint(ctx, checkpointKey(shop, kind))
}

func (r StateRepository) SetLastCheck(ctx context.Context, shop model.Shop, kind model.NotifType, ts int64) error {
	return r.setCheckpoint(ctx, checkpointKey(shop, kind), ts)
}

func (r StateRepository) BroadcastLastCheck(ctx context.Context) (int64, error) {
	return r.checkpoint(ctx, broadcastDoc)
}

func (r StateRepository) SetBroadcastLastCheck(ctx context.Context, ts int64) error {
	return r.setCheckpoint(ctx, broadcastDoc, ts)
}

// checkpoint returns 0 for a key that was never written, so a fresh
// deployment polls from the beginning of time.
func (r StateRepository) checkpoint(ctx context.Context, key string) (int64, error) {
	docRef := r.db.Collection(checkpointNode).Doc(key)
	docSnap, err := r.db.GetDoc(ctx, docRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, nil
		}
		return 0, fmt.Errorf("get checkpoint: %w, key: %s", err, key)
	}

	cp := model.Checkpoint{}
	if err := docSnap.DataTo(&cp); err != nil {
		return 0, fmt.Errorf("get checkpoint: %w, key: %s", err, key)
	}
	return cp.LastCheck, nil
}

func (r StateRepository) setCheckpoint(ctx context.Context, key string, ts int64) error {
	docRef := r.db.Collection(checkpointNode).Doc(key)
	_, err := r.db.SetDoc(ctx, docRef, model.Checkpoint{
		LastCheck: ts,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("set checkpoint: %w, key: %s", err, key)
	}
	return nil
}

func (r StateRepository) PastReviewIds(ctx context.Context, shop model.Shop) (map[string]struct{}, error) {
	docRef := r.db.Collection(pastReviewsNode).Doc(shop.String())
	docSnap, err := r.db.GetDoc(ctx, docRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("get past review ids: %w, shop: %s", err, shop)
	}

	past := model.PastReviews{}
	if err := docSnap.DataTo(&past); err != nil {
		return nil, fmt.Errorf("get past review ids: %w, shop: %s", err, shop)
	}

	ids := make(map[string]struct{}, len(past.Ids))
	for _, id := range past.Ids {
		ids[id] = struct{}{}
	}
	return ids, nil
}

// ReplacePastReviewIds overwrites the snapshot with exactly the given
// ids. A single doc write keeps the replace atomic.
func (r StateRepository) ReplacePastReviewIds(ctx context.Context, shop model.Shop, ids []string) error {
	docRef := r.db.Collection(pastReviewsNode).Doc(shop.String())
	_, err := r.db.SetDoc(ctx, docRef, model.PastReviews{
		Ids:       ids,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("replace past review ids: %w, shop: %s", err, shop)
	}
	return nil
}

func (r StateRepository) openColl(shop model.Shop) *firestore.CollectionRef {
	return r.db.Collection(openReviewsNode).Doc(shop.String()).Collection(reviewsNode)
}

func (r StateRepository) OpenReviewIds(ctx context.Context, shop model.Shop) ([]string, error) {
	ids := []string{}
	err := r.db.IterDocs(ctx, r.openColl(shop), func(ds *firestore.DocumentSnapshot) {
		ids = append(ids, ds.Ref.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("get open review ids: %w, shop: %s", err, shop)
	}
	return ids, nil
}

func (r StateRepository) AddOpenReviews(ctx context.Context, shop model.Shop, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	dataBatch := make([]database.DataBatch, 0, len(ids))
	for _, id := range ids {
		dataBatch = append(dataBatch, database.DataBatch{
			DocRef: r.openColl(shop).Doc(id),
			Data: model.OpenReview{
				Shop:            shop,
				NotifiedOverdue: false,
				CreatedAt:       time.Now().UTC(),
			},
		})
	}

	if _, err := r.db.SetDocs(ctx, dataBatch); err != nil {
		return fmt.Errorf("add open reviews: %w, shop: %s", err, shop)
	}
	return nil
}

func (r StateRepository) RemoveOpenReview(ctx context.Context, shop model.Shop, id string) error {
	if _, err := r.db.DeleteDoc(ctx, r.openColl(shop).Doc(id)); err != nil {
		return fmt.Errorf("remove open review: %w, id: %s", err, id)
	}
	return nil
}

func (r StateRepository) NotifiedOverdue(ctx context.Context, shop model.Shop, id string) (bool, error) {
	docRef := r.openColl(shop).Doc(id)
	docSnap, err := r.db.GetDoc(ctx, docRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, ierr.NotFound
		}
		return false, fmt.Errorf("get notified flag: %w, id: %s", err, id)
	}

	open := model.OpenReview{}
	if err := docSnap.DataTo(&open); err != nil {
		return false, fmt.Errorf("get notified flag: %w, id: %s", err, id)
	}
	return open.NotifiedOverdue, nil
}

// MarkNotifiedOverdue is monotonic: it only ever writes true.
func (r StateRepository) MarkNotifiedOverdue(ctx context.Context, shop model.Shop, id string) error {
	docRef := r.openColl(shop).Doc(id)
	_, err := r.db.UpdateDoc(ctx, docRef, []firestore.Update{{
		Path:  NotifiedOverdueFieldPath,
		Value: true,
	}})
	if err != nil {
		return fmt.Errorf("mark notified overdue: %w, id: %s", err, id)
	}
	return nil
}
