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

// ChatRepository stores the review bot's subscribers, one doc per chat,
// with a toggle per notification category.
type ChatRepository struct {
	db database.Client
}

var _ IRegistry = ChatRepository{}

func New(db database.Client) ChatRepository {
	return ChatRepository{
		db: db,
	}
}

func chatDocId(chatId int64) string {
	return strconv.FormatInt(chatId, 10)
}

func fieldPath(kind model.NotifType) string {
	switch kind {
	case model.NotifReviews:
		return ReviewNotifFieldPath
	case model.NotifAnswers:
		return AnswerNotifFieldPath
	case model.NotifDevelop:
		return DevelopNotifFieldPath
	}
	return kind.String()
}

func (r ChatRepository) Subscribed(ctx context.Context, kind model.NotifType) ([]int64, error) {
	chatIds := []int64{}
	err := r.db.IterDocs(ctx, r.db.Collection(chatNode), func(ds *firestore.DocumentSnapshot) {
		chat := model.Chat{}
		if err := ds.DataTo(&chat); err != nil {
			return
		}
		if !chat.Notif(kind) {
			return
		}

		id, err := strconv.ParseInt(ds.Ref.ID, 10, 64)
		if err != nil {
			return
		}
		chatIds = append(chatIds, id)
	})
	if err != nil {
		return nil, fmt.Errorf("get subscribed chats: %w, kind: %s", err, kind)
	}
	return chatIds, nil
}

func (r ChatRepository) Exists(ctx context.Context, chatId int64) (bool, error) {
	_, err := r.get(ctx, chatId)
	if err == ierr.NotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r ChatRepository) Add(ctx context.Context, chatId int64, kind model.NotifType) error {
	chat := model.Chat{CreatedAt: time.Now().UTC()}
	switch kind {
	case model.NotifReviews:
		chat.ReviewNotif = true
	case model.NotifAnswers:
		chat.AnswerNotif = true
	case model.NotifDevelop:
		chat.DevelopNotif = true
	}

	docRef := r.db.Collection(chatNode).Doc(chatDocId(chatId))
	if _, err := r.db.SetDoc(ctx, docRef, chat); err != nil {
		return fmt.Errorf("add chat: %w, id: %d", err, chatId)
	}
	return nil
}

func (r ChatRepository) Remove(ctx context.Context, chatId int64) error {
	docRef := r.db.Collection(chatNode).Doc(chatDocId(chatId))
	if _, err := r.db.DeleteDoc(ctx, docRef); err != nil {
		return fmt.Errorf("remove chat: %w, id: %d", err, chatId)
	}
	return nil
}

// Toggle inverts the chat's flag for the given kind and returns the new
// value.
func (r ChatRepository) Toggle(ctx context.Context, chatId int64, kind model.NotifType) (bool, error) {
	chat, err := r.get(ctx, chatId)
	if err != nil {
		return false, err
	}

	next := !chat.Notif(kind)
	docRef := r.db.Collection(chatNode).Doc(chatDocId(chatId))
	_, err = r.db.UpdateDoc(ctx, docRef, []firestore.Update{{
		Path:  fieldPath(kind),
		Value: next,
	}})
	if err != nil {
		return false, fmt.Errorf("toggle chat: %w, id: %d", err, chatId)
	}
	return next, nil
}

func (r ChatRepository) get(ctx context.Context, chatId int64) (*model.Chat, error) {
	docRef := r.db.Collection(chatNode).Doc(chatDocId(chatId))
	docSnap, err := r.db.GetDoc(ctx, docRef)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ierr.NotFound
		}
		return nil, fmt.Errorf("get chat: %w, id: %d", err, chatId)
	}

	chat := &model.Chat{}
	if err := docSnap.DataTo(chat); err != nil {
		return nil, fmt.Errorf("get chat: %w, id: %d", err, chatId)
	}
	return chat, nil
}
