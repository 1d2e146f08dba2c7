package notification

import (
	"context"
	"testing"
	"time"

	"wb-review-notifier/internal/eventpublisher/event"
	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/notify"
)

func TestPublisherFansOutToAllSubscribers(t *testing.T) {
	source := make(chan notify.Notification)
	p := New(source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := make(event.EventChannel, 1)
	b := make(event.EventChannel, 1)
	p.Subscribe((chan event.Event)(a))
	p.Subscribe((chan event.Event)(b))

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Start(ctx)
	}()

	want := notify.Notification{Kind: notify.KindNewReview, Shop: model.ShopKD, Text: "msg"}
	source <- want
	close(source)
	<-done

	for name, ch := range map[string]event.EventChannel{"a": a, "b": b} {
		select {
		case got := <-ch:
			if got.Notification != want {
				t.Errorf("subscriber %s got %+v, want %+v", name, got.Notification, want)
			}
		case <-time.After(time.Second):
			t.Errorf("subscriber %s received nothing", name)
		}
	}
}

func TestPublisherClosesSubscribersOnSourceClose(t *testing.T) {
	source := make(chan notify.Notification)
	p := New(source)

	sub := make(event.EventChannel) // unbuffered, never read
	p.Subscribe((chan event.Event)(sub))

	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Start(context.Background())
	}()

	close(source)
	<-done

	select {
	case _, ok := <-sub:
		if ok {
			t.Error("expected the subscriber channel to be closed without events")
		}
	case <-time.After(time.Second):
		t.Error("subscriber channel was not closed")
	}
}
