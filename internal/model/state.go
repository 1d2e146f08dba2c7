package model

import "time"

// Checkpoint is the unix-seconds timestamp of the last successful poll of
// one kind for one shop, plus the single broadcast_loop checkpoint the
// answer-time freshness gate reads.
type Checkpoint struct {
	LastCheck int64     `firestore:"lastCheck" json:"lastCheck"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// PastReviews is the set of review ids seen in the most recent successful
// new-reviews poll for a shop. It is replaced wholesale on every
// successful poll and acts as a one-cycle duplicate filter, not a history.
type PastReviews struct {
	Ids       []string  `firestore:"ids" json:"ids"`
	UpdatedAt time.Time `firestore:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// OpenReview marks a review currently believed unanswered. NotifiedOverdue
// flips false to true exactly once and is never reset while the record
// exists.
type OpenReview struct {
	Shop            Shop      `firestore:"shop" json:"shop"`
	NotifiedOverdue bool      `firestore:"notifiedOverdue" json:"notifiedOverdue"`
	CreatedAt       time.Time `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
}
