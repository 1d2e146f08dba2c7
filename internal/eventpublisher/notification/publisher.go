// Package notification fans composed notifications out from the
// broadcaster to the bot subscribers. A subscriber that keeps missing the
// write timeout is unsubscribed and its channel closed, so one stuck bot
// cannot stall the broadcast cycle.
package notification

import (
	"context"
	"sync"
	"time"

	"wb-review-notifier/internal/eventpublisher"
	"wb-review-notifier/internal/eventpublisher/event"
	"wb-review-notifier/internal/notify"

	"github.com/rs/zerolog/log"
)

const (
	writeTimeout          = time.Second
	writeFailureThreshold = 3
)

type NotificationPublisher interface {
	eventpublisher.Publisher
	Start(ctx context.Context) error
}

type publisher struct {
	source <-chan notify.Notification

	mu           sync.Mutex
	subscribers  map[event.EventWChannel]struct{}
	failureCount map[event.EventWChannel]int
}

// New wraps a notification source, typically the broadcaster's output.
func New(source <-chan notify.Notification) NotificationPublisher {
	return &publisher{
		source:       source,
		subscribers:  make(map[event.EventWChannel]struct{}),
		failureCount: make(map[event.EventWChannel]int),
	}
}

func (p *publisher) Subscribe(subscriber event.EventWChannel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers[subscriber] = struct{}{}
}

func (p *publisher) Unsubscribe(subscriber event.EventWChannel) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unsubscribeLocked(subscriber)
}

func (p *publisher) unsubscribeLocked(subscriber event.EventWChannel) {
	if _, ok := p.subscribers[subscriber]; !ok {
		return
	}
	delete(p.subscribers, subscriber)
	delete(p.failureCount, subscriber)
	close(subscriber)
}

// Start consumes the source until it closes or the context is cancelled.
func (p *publisher) Start(ctx context.Context) error {
	defer p.unsubscribeAll()

	for {
		select {
		case <-ctx.Done():
			log.Error().Err(ctx.Err()).Msg("notification publisher stopped")
			return ctx.Err()
		case n, ok := <-p.source:
			if !ok {
				return nil
			}
			log.Debug().Msgf("publish %s notification for %s", n.Kind, n.Shop)
			p.publish(ctx, n)
		}
	}
}

func (p *publisher) publish(ctx context.Context, n notify.Notification) {
	for _, subscriber := range p.snapshot() {
		if delivered := p.write(ctx, subscriber, event.Event{Notification: n}); delivered {
			continue
		}

		p.mu.Lock()
		p.failureCount[subscriber]++
		if p.failureCount[subscriber] >= writeFailureThreshold {
			log.Warn().Msg("subscriber exceeded the write failure threshold, unsubscribing")
			p.unsubscribeLocked(subscriber)
		}
		p.mu.Unlock()
	}
}

func (p *publisher) write(ctx context.Context, subscriber event.EventWChannel, e event.Event) bool {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	select {
	case subscriber <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// snapshot copies the subscriber set so publish can mutate it on failure
// without holding the lock across channel writes.
func (p *publisher) snapshot() []event.EventWChannel {
	p.mu.Lock()
	defer p.mu.Unlock()

	subs := make([]event.EventWChannel, 0, len(p.subscribers))
	for subscriber := range p.subscribers {
		subs = append(subs, subscriber)
	}
	return subs
}

func (p *publisher) unsubscribeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for subscriber := range p.subscribers {
		p.unsubscribeLocked(subscriber)
	}
}
