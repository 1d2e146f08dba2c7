package telegram

import (
	"context"
	"testing"
	"time"

	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeRegistry struct {
	subscribed map[model.NotifType][]int64
	existing   map[int64]bool
	added      map[int64]model.NotifType
	removed    []int64
	toggled    bool
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		subscribed: map[model.NotifType][]int64{},
		existing:   map[int64]bool{},
		added:      map[int64]model.NotifType{},
	}
}

func (r *fakeRegistry) Subscribed(_ context.Context, kind model.NotifType) ([]int64, error) {
	return r.subscribed[kind], nil
}

func (r *fakeRegistry) Exists(_ context.Context, chatId int64) (bool, error) {
	return r.existing[chatId], nil
}

func (r *fakeRegistry) Add(_ context.Context, chatId int64, kind model.NotifType) error {
	r.added[chatId] = kind
	return nil
}

func (r *fakeRegistry) Remove(_ context.Context, chatId int64) error {
	r.removed = append(r.removed, chatId)
	return nil
}

func (r *fakeRegistry) Toggle(_ context.Context, _ int64, _ model.NotifType) (bool, error) {
	r.toggled = !r.toggled
	return r.toggled, nil
}

type fakeSender struct {
	sent    []tgbotapi.MessageConfig
	failFor map[int64]error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, ok := c.(tgbotapi.MessageConfig)
	if !ok {
		return tgbotapi.Message{}, nil
	}
	if err, fail := s.failFor[msg.ChatID]; fail {
		return tgbotapi.Message{}, err
	}
	s.sent = append(s.sent, msg)
	return tgbotapi.Message{}, nil
}

func testBot(registry *fakeRegistry, sender *fakeSender) *Bot {
	b := NewReviewBot(nil, registry)
	b.sender = sender
	b.sleep = func(time.Duration) {}
	return b
}

func TestDeliverFansOutAsHTML(t *testing.T) {
	registry := newFakeRegistry()
	registry.subscribed[model.NotifReviews] = []int64{1, 2}
	sender := &fakeSender{}
	b := testBot(registry, sender)

	b.deliver(context.Background(), notify.Notification{
		Kind: notify.KindNewReview,
		Shop: model.ShopKD,
		Text: "<b>msg</b>",
	})

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sender.sent))
	}
	for _, msg := range sender.sent {
		if msg.ParseMode != tgbotapi.ModeHTML {
			t.Errorf("parse mode = %q, want HTML", msg.ParseMode)
		}
		if msg.Text != "<b>msg</b>" {
			t.Errorf("text = %q", msg.Text)
		}
	}
}

func TestDeliverIgnoresForeignKinds(t *testing.T) {
	registry := newFakeRegistry()
	registry.subscribed[model.NotifAnswers] = []int64{1}
	sender := &fakeSender{}
	b := testBot(registry, sender)

	// the review bot does not deliver overdue alerts
	b.deliver(context.Background(), notify.Notification{Kind: notify.KindOverdue, Text: "x"})

	if len(sender.sent) != 0 {
		t.Errorf("sent %d messages, want none", len(sender.sent))
	}
}

func TestBlockedChatIsRemoved(t *testing.T) {
	registry := newFakeRegistry()
	registry.subscribed[model.NotifReviews] = []int64{1, 2}
	sender := &fakeSender{
		failFor: map[int64]error{2: &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}},
	}
	b := testBot(registry, sender)

	b.deliver(context.Background(), notify.Notification{Kind: notify.KindNewReview, Text: "x"})

	if len(sender.sent) != 1 || sender.sent[0].ChatID != 1 {
		t.Errorf("sent = %+v, want only chat 1", sender.sent)
	}
	if len(registry.removed) != 1 || registry.removed[0] != 2 {
		t.Errorf("removed = %v, want [2]", registry.removed)
	}
}

func TestReviewBotSubscribesUnknownChat(t *testing.T) {
	registry := newFakeRegistry()
	sender := &fakeSender{}
	b := testBot(registry, sender)

	handleReviewBotMessage(context.Background(), b, &tgbotapi.Message{
		Text: "отзывы",
		Chat: &tgbotapi.Chat{ID: 5},
	})

	if registry.added[5] != model.NotifReviews {
		t.Errorf("added = %v, want chat 5 with review_notif", registry.added)
	}
	if len(sender.sent) != 1 || sender.sent[0].Text != replyReviewsSubscribed {
		t.Errorf("reply = %+v, want subscription confirmation", sender.sent)
	}
}

func TestReviewBotTogglesKnownChat(t *testing.T) {
	registry := newFakeRegistry()
	registry.existing[5] = true
	sender := &fakeSender{}
	b := testBot(registry, sender)

	handleReviewBotMessage(context.Background(), b, &tgbotapi.Message{
		Text: "ответы",
		Chat: &tgbotapi.Chat{ID: 5},
	})

	if len(registry.added) != 0 {
		t.Errorf("added = %v, want no new registration", registry.added)
	}
	if len(sender.sent) != 1 || sender.sent[0].Text != replyAnswersEnabled {
		t.Errorf("reply = %+v, want enabled confirmation", sender.sent)
	}
}

func TestLateReviewBotSubscribesOnce(t *testing.T) {
	registry := newFakeRegistry()
	sender := &fakeSender{}
	b := NewLateReviewBot(nil, registry)
	b.sender = sender
	b.sleep = func(time.Duration) {}

	msg := &tgbotapi.Message{Text: "ответы", Chat: &tgbotapi.Chat{ID: 9}}
	handleLateReviewBotMessage(context.Background(), b, msg)

	if registry.added[9] != model.NotifAnswers {
		t.Errorf("added = %v, want chat 9", registry.added)
	}

	// a second code phrase from a known chat is silent
	registry.existing[9] = true
	sender.sent = nil
	handleLateReviewBotMessage(context.Background(), b, msg)
	if len(sender.sent) != 0 {
		t.Errorf("sent = %+v, want nothing on repeat subscribe", sender.sent)
	}
}
