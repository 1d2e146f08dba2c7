package engine

import (
	"context"
	"time"

	"wb-review-notifier/internal/notify"

	"github.com/rs/zerolog/log"
)

// NewAnswers reconciles the persisted open set against the vendor's
// current unanswered set. A review that left the unanswered set either
// got an answer (message + record removed) or was deleted by the vendor
// (record removed silently); the single re-fetch decides which. Reviews
// newly observed unanswered get an open record.
func (e *Engine) NewAnswers(ctx context.Context, acc Account) []string {
	log.Debug().Msgf("start: NewAnswers for %s", acc.Shop)

	msgs := []string{}

	feedbacks, err := e.api.Unanswered(ctx, acc.Shop, acc.Token)
	if err != nil {
		log.Warn().Err(err).Msgf("new answers: no data this cycle, shop: %s", acc.Shop)
		return msgs
	}

	if len(feedbacks) > e.cnf.OpenSetWarnSize {
		log.Warn().Msgf("too many unprocessed reviews: %d, full-set comparison degrades, shop: %s", len(feedbacks), acc.Shop)
	}

	previousIds, err := e.store.OpenReviewIds(ctx, acc.Shop)
	if err != nil {
		log.Error().Err(err).Msgf("new answers: failed to read open set, shop: %s", acc.Shop)
		return msgs
	}

	currentIds := make(map[string]struct{}, len(feedbacks))
	for _, fb := range feedbacks {
		currentIds[fb.Id] = struct{}{}
	}

	for _, oldId := range previousIds {
		if _, stillOpen := currentIds[oldId]; stillOpen {
			continue
		}

		feedback, err := e.api.FeedbackById(ctx, acc.Shop, acc.Token, oldId)
		if err != nil || feedback == nil {
			// the record stays and is reconciled next cycle
			log.Warn().Err(err).Msgf("new answers: could not re-fetch review %s, shop: %s", oldId, acc.Shop)
			continue
		}

		if !feedback.Answered() {
			// gone from the unanswered set without an answer: the vendor
			// deleted it
			if err := e.store.RemoveOpenReview(ctx, acc.Shop, oldId); err != nil {
				log.Error().Err(err).Msgf("new answers: failed to remove deleted review %s", oldId)
				continue
			}
			log.Info().Msgf("review %s was removed because it no longer exists in wb", oldId)
			continue
		}

		msgs = append(msgs, notify.NewAnswer(*feedback, e.answerReceivedAt(ctx)))

		if err := e.store.RemoveOpenReview(ctx, acc.Shop, oldId); err != nil {
			log.Error().Err(err).Msgf("new answers: failed to remove answered review %s", oldId)
		}
	}

	previousSet := make(map[string]struct{}, len(previousIds))
	for _, id := range previousIds {
		previousSet[id] = struct{}{}
	}

	newlyOpen := []string{}
	for _, fb := range feedbacks {
		if _, known := previousSet[fb.Id]; !known {
			newlyOpen = append(newlyOpen, fb.Id)
		}
	}
	if err := e.store.AddOpenReviews(ctx, acc.Shop, newlyOpen); err != nil {
		log.Error().Err(err).Msgf("new answers: failed to add open reviews, shop: %s", acc.Shop)
	}

	log.Debug().Msgf("end: NewAnswers for %s, %d messages", acc.Shop, len(msgs))
	return msgs
}

// answerReceivedAt estimates when an answer appeared. If the previous
// broadcast cycle finished within MaxAnswerDelay, the answer must have
// arrived since then and "now" is an honest estimate; otherwise nil, and
// the message states the time could not be determined.
func (e *Engine) answerReceivedAt(ctx context.Context) *time.Time {
	broadcastLastCheck, err := e.store.BroadcastLastCheck(ctx)
	if err != nil {
		log.Error().Err(err).Msg("new answers: failed to read broadcast checkpoint")
		return nil
	}

	now := e.now()
	if broadcastLastCheck+int64(e.cnf.MaxAnswerDelay.Seconds()) > now.Unix() {
		return &now
	}
	return nil
}
