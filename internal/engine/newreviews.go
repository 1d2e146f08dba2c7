package engine

import (
	"context"

	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/notify"

	"github.com/rs/zerolog/log"
)

// NewReviews polls for reviews created since the shop's last successful
// check and returns one message per review not already seen. On success
// the past-id snapshot is replaced with exactly the ids just fetched and
// the checkpoint advances; on a failed fetch neither moves, so the next
// cycle retries the same window.
func (e *Engine) NewReviews(ctx context.Context, acc Account) []string {
	log.Debug().Msgf("start: NewReviews for %s", acc.Shop)

	msgs := []string{}

	lastCheck, err := e.store.LastCheck(ctx, acc.Shop, model.NotifReviews)
	if err != nil {
		log.Error().Err(err).Msgf("new reviews: failed to read checkpoint, shop: %s", acc.Shop)
		return msgs
	}

	curTime := e.now().Unix()
	feedbacks, err := e.api.UnansweredSince(ctx, acc.Shop, acc.Token, lastCheck)
	if err != nil {
		// checkpoint untouched so the same window is retried next cycle
		log.Warn().Err(err).Msgf("new reviews: no data this cycle, shop: %s", acc.Shop)
		return msgs
	}

	if len(feedbacks) == 0 {
		if err := e.store.SetLastCheck(ctx, acc.Shop, model.NotifReviews, curTime); err != nil {
			log.Error().Err(err).Msgf("new reviews: failed to advance checkpoint, shop: %s", acc.Shop)
		}
		return msgs
	}

	pastIds, err := e.store.PastReviewIds(ctx, acc.Shop)
	if err != nil {
		log.Error().Err(err).Msgf("new reviews: failed to read past ids, shop: %s", acc.Shop)
		return msgs
	}

	// the vendor occasionally repeats an entry, both across polls and
	// within one batch; both kinds are suppressed here
	seen := make(map[string]struct{}, len(feedbacks))
	fetchedIds := make([]string, 0, len(feedbacks))
	for _, fb := range feedbacks {
		if _, ok := seen[fb.Id]; ok {
			log.Warn().Msgf("duplicated feedback within batch was dropped, id: %s", fb.Id)
			continue
		}
		seen[fb.Id] = struct{}{}
		fetchedIds = append(fetchedIds, fb.Id)

		if _, ok := pastIds[fb.Id]; ok {
			log.Warn().Msgf("duplicated feedback was dropped, id: %s", fb.Id)
			continue
		}

		msgs = append(msgs, notify.NewReview(fb))
	}

	// wholesale replace: the snapshot is a one-cycle duplicate window,
	// not a history
	if err := e.store.ReplacePastReviewIds(ctx, acc.Shop, fetchedIds); err != nil {
		log.Error().Err(err).Msgf("new reviews: failed to replace past ids, shop: %s", acc.Shop)
	}

	if err := e.store.SetLastCheck(ctx, acc.Shop, model.NotifReviews, curTime); err != nil {
		log.Error().Err(err).Msgf("new reviews: failed to advance checkpoint, shop: %s", acc.Shop)
	}

	log.Debug().Msgf("end: NewReviews for %s, %d messages", acc.Shop, len(msgs))
	return msgs
}
