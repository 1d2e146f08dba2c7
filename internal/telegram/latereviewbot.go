package telegram

import (
	"context"
	"strings"

	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/notify"
	"wb-review-notifier/internal/repository/chats"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// NewLateReviewBot delivers only overdue alerts. Its subscription flow is
// add-once: the first code phrase subscribes, nothing toggles.
func NewLateReviewBot(api *tgbotapi.BotAPI, registry chats.IRegistry) *Bot {
	kinds := map[notify.Kind]model.NotifType{
		notify.KindOverdue: model.NotifAnswers,
	}
	return newBot("late_review_bot", api, registry, kinds, handleLateReviewBotMessage)
}

func handleLateReviewBotMessage(ctx context.Context, b *Bot, msg *tgbotapi.Message) {
	switch strings.ToLower(msg.Text) {
	case "/start":
		log.Info().Msgf("%s: chat %d called /start", b.name, msg.Chat.ID)

	case phraseAnswers:
		log.Info().Msgf("%s: chat %d called %q", b.name, msg.Chat.ID, phraseAnswers)

		exists, err := b.registry.Exists(ctx, msg.Chat.ID)
		if err != nil {
			log.Error().Err(err).Msgf("%s: failed to look up chat %d", b.name, msg.Chat.ID)
			return
		}
		if exists {
			return
		}

		if err := b.registry.Add(ctx, msg.Chat.ID, model.NotifAnswers); err != nil {
			log.Error().Err(err).Msgf("%s: failed to add chat %d", b.name, msg.Chat.ID)
			return
		}
		b.reply(msg.Chat.ID, replyLateSubscribed)

	default:
		log.Info().Msgf("%s: chat %d messaged: %s", b.name, msg.Chat.ID, msg.Text)
	}
}
