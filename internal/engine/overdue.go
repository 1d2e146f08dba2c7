package engine

import (
	"context"

	"wb-review-notifier/internal/notify"
	"wb-review-notifier/internal/wbtime"

	ierr "wb-review-notifier/internal/errors"

	"github.com/rs/zerolog/log"
)

// Overdue alerts once per review that has stayed unanswered past the
// configured limit. The notified flag is monotonic: once set, the review
// is never alerted again no matter how long it remains open.
func (e *Engine) Overdue(ctx context.Context, acc Account) []string {
	log.Debug().Msgf("start: Overdue for %s", acc.Shop)

	msgs := []string{}

	feedbacks, err := e.api.Unanswered(ctx, acc.Shop, acc.Token)
	if err != nil {
		log.Warn().Err(err).Msgf("overdue: no data this cycle, shop: %s", acc.Shop)
		return msgs
	}

	openIds, err := e.store.OpenReviewIds(ctx, acc.Shop)
	if err != nil {
		log.Error().Err(err).Msgf("overdue: failed to read open set, shop: %s", acc.Shop)
		return msgs
	}
	openSet := make(map[string]struct{}, len(openIds))
	for _, id := range openIds {
		openSet[id] = struct{}{}
	}

	// createdAt below carries the vendor's +3h frame; now must carry the
	// same frame or every alert runs three hours late
	now := wbtime.ToVendor(e.now())
	for _, fb := range feedbacks {
		createdAt, err := wbtime.Parse(fb.CreatedDate)
		if err != nil {
			log.Warn().Err(err).Msgf("overdue: unparseable created date %q, id: %s", fb.CreatedDate, fb.Id)
			continue
		}

		if !createdAt.Add(e.cnf.OverdueLimit).Before(now) {
			continue
		}
		if _, known := openSet[fb.Id]; !known {
			continue
		}
		if e.cnf.WorkHoursOnly && !wbtime.WithinWorkingHours(createdAt) {
			continue
		}

		notified, err := e.store.NotifiedOverdue(ctx, acc.Shop, fb.Id)
		if err != nil {
			if err != ierr.NotFound {
				log.Error().Err(err).Msgf("overdue: failed to read notified flag, id: %s", fb.Id)
			}
			continue
		}
		if notified {
			continue
		}

		msgs = append(msgs, notify.Overdue(fb, e.cnf.OverdueLimit))

		if err := e.store.MarkNotifiedOverdue(ctx, acc.Shop, fb.Id); err != nil {
			log.Error().Err(err).Msgf("overdue: failed to mark notified, id: %s", fb.Id)
		}
	}

	log.Debug().Msgf("end: Overdue for %s, %d messages", acc.Shop, len(msgs))
	return msgs
}
