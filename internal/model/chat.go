package model

import "time"

// Chat is a subscriber of the main review bot with one toggle per
// notification category.
type Chat struct {
	ReviewNotif  bool      `firestore:"review_notif"`
	AnswerNotif  bool      `firestore:"answer_notif"`
	DevelopNotif bool      `firestore:"develop_notif"`
	CreatedAt    time.Time `firestore:"createdAt,omitempty"`
}

// Notif returns the toggle for the given category.
func (c Chat) Notif(kind NotifType) bool {
	switch kind {
	case NotifReviews:
		return c.ReviewNotif
	case NotifAnswers:
		return c.AnswerNotif
	case NotifDevelop:
		return c.DevelopNotif
	}
	return false
}

// LateReviewChat is a subscriber of the late-review bot. Subscription is
// add-once; there is no toggle flow.
type LateReviewChat struct {
	AnswerNotif bool      `firestore:"answer_notif"`
	CreatedAt   time.Time `firestore:"createdAt,omitempty"`
}
