package state

const (
	// collection names
	checkpointNode  string = "checkpoints"
	pastReviewsNode string = "pastReviews"
	openReviewsNode string = "openReviews"
	reviewsNode     string = "reviews"

	// Fields' name and path
	NotifiedOverdueFieldPath string = "notifiedOverdue"

	// doc id of the whole-cycle checkpoint
	broadcastDoc string = "broadcast_loop"
)
