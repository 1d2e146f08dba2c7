package utils

import (
	"time"

	"github.com/rs/zerolog/log"
)

// RetryHandler re-runs an operation a fixed number of times with a fixed
// delay between attempts. The last error wins; a nil return stops early.
type RetryHandler struct {
	delay      time.Duration
	maxRetries int
	sleep      func(time.Duration)
}

func NewRetryHandler(delay time.Duration, maxRetries int) *RetryHandler {
	return &RetryHandler{
		delay:      delay,
		maxRetries: maxRetries,
		sleep:      time.Sleep,
	}
}

// WithSleep overrides the delay function. Tests use this to avoid real waits.
func (r *RetryHandler) WithSleep(sleep func(time.Duration)) *RetryHandler {
	r.sleep = sleep
	return r
}

// Do runs fn up to maxRetries+1 times and returns the error of the last
// attempt, or nil as soon as an attempt succeeds.
func (r *RetryHandler) Do(fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		if attempt >= r.maxRetries {
			return err
		}

		log.Warn().Err(err).Msgf("attempt %d failed, retrying in %s", attempt+1, r.delay)
		r.sleep(r.delay)
	}
}
