package event

import "wb-review-notifier/internal/notify"

type (
	// Event is what bot subscribers receive: a composed notification, or
	// the error that ended the stream.
	Event struct {
		Notification notify.Notification
		Err          error
	}

	EventChannel  chan Event
	EventWChannel chan<- Event
)
