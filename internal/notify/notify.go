// Package notify renders reconciliation events into the Telegram HTML
// messages operators receive. Rendering is pure; nothing here touches the
// network or the store.
package notify

import (
	"fmt"
	"time"

	"wb-review-notifier/internal/model"
	"wb-review-notifier/internal/wbtime"
)

// Kind tells the bots which audience a notification is for.
type Kind int

const (
	KindNewReview Kind = iota
	KindNewAnswer
	KindOverdue
)

func (k Kind) String() string {
	switch k {
	case KindNewReview:
		return "new_review"
	case KindNewAnswer:
		return "new_answer"
	case KindOverdue:
		return "overdue"
	}
	return "unknown"
}

// Notification is one composed message ready for delivery.
type Notification struct {
	Kind Kind
	Shop model.Shop
	Text string
}

// NewReview renders the "new review appeared" message.
func NewReview(fb model.Feedback) string {
	text := fb.Text
	if text == "" {
		text = absentPlaceholder
	}

	return fmt.Sprintf(newReviewTemplate,
		fb.ProductDetails.BrandName,
		fb.ProductValuation,
		text,
		wbtime.FormatAPIDate(fb.CreatedDate),
		fb.Id,
	)
}

// NewAnswer renders the "review got an answer" message. receivedAt is the
// engine's estimate (a real instant) of when the answer appeared; nil
// means the engine could not justify one and the message says so instead
// of fabricating a timestamp. Display shifts it into the vendor frame so
// it reads in the same clock as the created date next to it.
func NewAnswer(fb model.Feedback, receivedAt *time.Time) string {
	received := undeterminedPlaceholder
	if receivedAt != nil {
		received = wbtime.Format(wbtime.ToVendor(*receivedAt))
	}

	answer := absentPlaceholderItalic
	if fb.Answer != nil && fb.Answer.Text != "" {
		answer = "\n<i>" + fb.Answer.Text + "</i>"
	}

	return fmt.Sprintf(newAnswerTemplate,
		fb.ProductDetails.BrandName,
		fb.ProductValuation,
		italicOrAbsent(fb.Text),
		answer,
		wbtime.FormatAPIDate(fb.CreatedDate),
		received,
		fb.ProductDetails.NmId,
		fb.Id,
	)
}

// Overdue renders the "review unanswered too long" message.
func Overdue(fb model.Feedback, limit time.Duration) string {
	return fmt.Sprintf(overdueTemplate,
		int(limit.Minutes()),
		fb.ProductDetails.BrandName,
		fb.ProductValuation,
		italicOrAbsent(fb.Text),
		wbtime.FormatAPIDate(fb.CreatedDate),
		fb.ProductDetails.NmId,
		fb.Id,
	)
}

func italicOrAbsent(text string) string {
	if text == "" {
		return absentPlaceholderItalic
	}
	return "\n<i>" + text + "</i>"
}
