package telegram

const (
	// code phrases the bots react to
	phraseReviews = "отзывы"
	phraseAnswers = "ответы"
	phraseProbe   = "work?"

	replyProbe = "yes"

	replyReviewsEnabled    = "Уведомления для отзывов включены"
	replyReviewsDisabled   = "Уведомления для отзывов отключены"
	replyReviewsSubscribed = "Вы подписались на уведомления о новых отзывах!"

	replyAnswersEnabled    = "Уведомления для ответов включены"
	replyAnswersDisabled   = "Уведомления для ответов отключены"
	replyAnswersSubscribed = "Вы подписались на уведомления о новых ответах!"

	replyLateSubscribed = "Вы подписались на уведомления об ответах с 10-ти минутной задержкой!"
)
