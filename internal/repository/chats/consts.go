package chats

const (
	// collection names
	chatNode           string = "chats"
	lateReviewChatNode string = "lateReviewChats"

	// Fields' name and path
	ReviewNotifFieldPath  string = "review_notif"
	AnswerNotifFieldPath  string = "answer_notif"
	DevelopNotifFieldPath string = "develop_notif"
)
