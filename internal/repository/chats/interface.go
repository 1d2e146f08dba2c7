package chats

import (
	"context"

	"wb-review-notifier/internal/model"
)

// IRegistry is what a bot needs from its subscriber store: who gets a
// given notification kind, and enough mutation to run the subscribe flow
// and drop chats that blocked the bot.
type IRegistry interface {
	Subscribed(ctx context.Context, kind model.NotifType) ([]int64, error)
	Exists(ctx context.Context, chatId int64) (bool, error)
	Add(ctx context.Context, chatId int64, kind model.NotifType) error
	Remove(ctx context.Context, chatId int64) error
	Toggle(ctx context.Context, chatId int64, kind model.NotifType) (bool, error)
}
