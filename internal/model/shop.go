package model

// Shop is one of the seller accounts the notifier watches. All persisted
// state (checkpoints, past review ids, open reviews) is partitioned by shop.
type Shop string

const (
	ShopKD Shop = "KD"
	ShopOB Shop = "OB"
)

// AllShops is the processing order of a broadcast cycle.
var AllShops = []Shop{ShopOB, ShopKD}

func (s Shop) String() string {
	return string(s)
}

// NotifType names a notification category. The values double as the
// per-chat flag names in the chat registry and as the checkpoint key
// suffix, so they must stay stable.
type NotifType string

const (
	NotifReviews NotifType = "review_notif"
	NotifAnswers NotifType = "answer_notif"
	NotifDevelop NotifType = "develop_notif"
)

func (n NotifType) String() string {
	return string(n)
}
