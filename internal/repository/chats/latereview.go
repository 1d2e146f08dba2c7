package chats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"wb-review-notifier/internal/database"
	ierr "wb-review-notifier/internal/errors"
	"wb-review-notifier/internal/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LateReviewRepository stores the late-review bot's subscribers. The flow
// is add-once: Toggle only reports the current state, it never flips it.
type LateReviewRepository struct {
	db database.Client
}

var _ IRegistry = LateReviewRepository{}

func NewLateReview(db database.Client) LateReviewRepository {
	return LateReviewRepository{
		db: db,
	}
}

func (r LateReviewRepository) Subscribed(ctx context.Context, kind model.NotifType) ([]int64, error) {
	if kind != model.NotifAnswers {
		return []int64{}, nil
	}

	chatIds := []int64{}
	err := r.db.IterDocs(ctx, r.db.Collection(lateReviewChatNode), func(ds *firestore.DocumentSnapshot) {
		chat := model.LateReviewChat{}
		if err := ds.DataTo(&chat); err != nil {
			return
		}
		if !chat.AnswerNotif {
			return
		}

		id, err := strconv.ParseInt(ds.Ref.ID, 10, 64)
		if err != nil {
			return
		}
		chatIds = append(chatIds, id)
	})
	if err != nil {
		return nil, fmt.Errorf("get late review chats: %w", err)
	}
	return chatIds, nil
}

func (r LateReviewRepository) Exists(ctx context.Context, chatId int64) (bool, error) {
	docRef := r.db.Collection(lateReviewChatNode).Doc(chatDocId(chatId))
	_, err := r.db.GetDoc(ctx, docRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("get late review chat: %w, id: %d", err, chatId)
	}
	return true, nil
}

func (r LateReviewRepository) Add(ctx context.Context, chatId int64, kind model.NotifType) error {
	docRef := r.db.Collection(lateReviewChatNode).Doc(chatDocId(chatId))
	_, err := r.db.SetDoc(ctx, docRef, model.LateReviewChat{
		AnswerNotif: kind == model.NotifAnswers,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("add late review chat: %w, id: %d", err, chatId)
	}
	return nil
}

func (r LateReviewRepository) Remove(ctx context.Context, chatId int64) error {
	docRef := r.db.Collection(lateReviewChatNode).Doc(chatDocId(chatId))
	if _, err := r.db.DeleteDoc(ctx, docRef); err != nil {
		return fmt.Errorf("remove late review chat: %w, id: %d", err, chatId)
	}
	return nil
}

func (r LateReviewRepository) Toggle(ctx context.Context, chatId int64, kind model.NotifType) (bool, error) {
	exists, err := r.Exists(ctx, chatId)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, ierr.NotFound
	}
	return kind == model.NotifAnswers, nil
}
