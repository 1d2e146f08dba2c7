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

// NewReviewBot is the main bot: it delivers new-review and new-answer
// notifications and lets a chat toggle either subscription with a code
// phrase.
func NewReviewBot(api *tgbotapi.BotAPI, registry chats.IRegistry) *Bot {
	kinds := map[notify.Kind]model.NotifType{
		notify.KindNewReview: model.NotifReviews,
		notify.KindNewAnswer: model.NotifAnswers,
	}
	return newBot("review_bot", api, registry, kinds, handleReviewBotMessage)
}

func handleReviewBotMessage(ctx context.Context, b *Bot, msg *tgbotapi.Message) {
	switch strings.ToLower(msg.Text) {
	case "/start":
		log.Info().Msgf("%s: chat %d called /start", b.name, msg.Chat.ID)

	case phraseReviews:
		log.Info().Msgf("%s: chat %d called %q", b.name, msg.Chat.ID, phraseReviews)
		b.toggleOrSubscribe(ctx, msg.Chat.ID, model.NotifReviews,
			replyReviewsEnabled, replyReviewsDisabled, replyReviewsSubscribed)

	case phraseAnswers:
		log.Info().Msgf("%s: chat %d called %q", b.name, msg.Chat.ID, phraseAnswers)
		b.toggleOrSubscribe(ctx, msg.Chat.ID, model.NotifAnswers,
			replyAnswersEnabled, replyAnswersDisabled, replyAnswersSubscribed)

	case phraseProbe:
		b.reply(msg.Chat.ID, replyProbe)

	default:
		log.Info().Msgf("%s: chat %d messaged: %s", b.name, msg.Chat.ID, msg.Text)
	}
}

// toggleOrSubscribe flips the flag for a known chat, or registers the
// chat with only that flag set.
func (b *Bot) toggleOrSubscribe(ctx context.Context, chatId int64, kind model.NotifType,
	enabledReply, disabledReply, subscribedReply string) {

	exists, err := b.registry.Exists(ctx, chatId)
	if err != nil {
		log.Error().Err(err).Msgf("%s: failed to look up chat %d", b.name, chatId)
		return
	}

	if !exists {
		if err := b.registry.Add(ctx, chatId, kind); err != nil {
			log.Error().Err(err).Msgf("%s: failed to add chat %d", b.name, chatId)
			return
		}
		b.reply(chatId, subscribedReply)
		return
	}

	enabled, err := b.registry.Toggle(ctx, chatId, kind)
	if err != nil {
		log.Error().Err(err).Msgf("%s: failed to toggle chat %d", b.name, chatId)
		return
	}

	if enabled {
		b.reply(chatId, enabledReply)
	} else {
		b.reply(chatId, disabledReply)
	}
}
