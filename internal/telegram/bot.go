// Package telegram delivers composed notifications to subscribed chats
// and runs the subscription command flow. Delivery concerns (pacing,
// blocked-bot cleanup) live here; deciding what to send does not.
package telegram

import (
	"context"
	"errors"
	"time"

	"wb-review-notifier/internal/eventpublisher"
	"wb-review-notifier/internal/eventpublisher/event"
	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/notify"
	"wb-review-notifier/internal/repository/chats"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// sendDelay paces deliveries so the bot stays under Telegram's rate limit.
const sendDelay = 500 * time.Millisecond

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	name     string
	api      *tgbotapi.BotAPI
	sender   sender
	registry chats.IRegistry

	// kinds maps a notification kind this bot delivers to the registry
	// flag selecting its audience
	kinds map[notify.Kind]model.NotifType

	handle func(ctx context.Context, b *Bot, msg *tgbotapi.Message)

	subscription event.EventChannel
	delay        time.Duration
	sleep        func(time.Duration)
}

func newBot(name string, api *tgbotapi.BotAPI, registry chats.IRegistry,
	kinds map[notify.Kind]model.NotifType,
	handle func(context.Context, *Bot, *tgbotapi.Message)) *Bot {

	return &Bot{
		name:         name,
		api:          api,
		sender:       api,
		registry:     registry,
		kinds:        kinds,
		handle:       handle,
		subscription: make(event.EventChannel),
		delay:        sendDelay,
		sleep:        time.Sleep,
	}
}

// ConsumeNotifications subscribes to the publisher and fans every
// matching notification out to the bot's audience until the publisher
// closes the subscription or the context ends.
func (b *Bot) ConsumeNotifications(ctx context.Context, publisher eventpublisher.Publisher) error {
	publisher.Subscribe((chan event.Event)(b.subscription))
	defer publisher.Unsubscribe((chan event.Event)(b.subscription))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-b.subscription:
			if !ok {
				return nil
			}
			if e.Err != nil {
				log.Error().Err(e.Err).Msgf("%s: error reading notifications", b.name)
				return e.Err
			}
			b.deliver(ctx, e.Notification)
		}
	}
}

func (b *Bot) deliver(ctx context.Context, n notify.Notification) {
	flag, consumed := b.kinds[n.Kind]
	if !consumed {
		return
	}

	chatIds, err := b.registry.Subscribed(ctx, flag)
	if err != nil {
		log.Error().Err(err).Msgf("%s: failed to read subscribers", b.name)
		return
	}

	for _, chatId := range chatIds {
		b.sendHTML(ctx, chatId, n.Text)
		b.sleep(b.delay)
	}
}

func (b *Bot) sendHTML(ctx context.Context, chatId int64, text string) {
	msg := tgbotapi.NewMessage(chatId, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := b.sender.Send(msg); err != nil {
		if isBlockedByUser(err) {
			log.Info().Msgf("%s: chat %d blocked the bot, unsubscribing", b.name, chatId)
			if err := b.registry.Remove(ctx, chatId); err != nil {
				log.Error().Err(err).Msgf("%s: failed to remove chat %d", b.name, chatId)
			}
			return
		}
		log.Warn().Err(err).Msgf("%s: couldn't send msg to chat %d", b.name, chatId)
	}
}

func (b *Bot) reply(chatId int64, text string) {
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatId, text)); err != nil {
		log.Warn().Err(err).Msgf("%s: couldn't reply to chat %d", b.name, chatId)
	}
}

// HandleUpdates runs the long-polling command loop.
func (b *Bot) HandleUpdates(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handle(ctx, b, update.Message)
		}
	}
}

// isBlockedByUser matches Telegram's 403 for a user that blocked the bot.
func isBlockedByUser(err error) bool {
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		return tgErr.Code == 403
	}
	return false
}
