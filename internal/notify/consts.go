package notify

const (
	absentPlaceholder       = "отсутствует"
	absentPlaceholderItalic = "<i>отсутствует</i>"
	undeterminedPlaceholder = "<i>не удалось установить</i>"

	newReviewTemplate = "<b><u>Добавлен новый отзыв!</u></b>" +
		"\n\n<b>Магазин:</b> %s" +
		"\n\n<b>Оценка:</b> %d" +
		"\n<b>Комментарий:</b><i> %s</i>" +
		"\n\n<b>Отзыв оставлен: </b>%s" +
		"\n<b>ID:</b> %s"

	newAnswerTemplate = "<b><u>Добавлен новый ответ!</u></b>" +
		"\n\n<b>Магазин:</b> %s" +
		"\n\n<b>Оценка:</b> %d" +
		"\n<b>Комментарий:</b> %s" +
		"\n\n<b>Ответ продавца:</b> %s" +
		"\n\n<b>Отзыв оставлен:</b> %s" +
		"\n<b>Ответ получен:</b> %s" +
		"\n\n<b>Артикул:</b> %d" +
		"\n<b>ID:</b> %s"

	overdueTemplate = "<b><u>На отзыв нет ответа более %d минут</u></b>" +
		"\n\n<b>Магазин:</b> %s" +
		"\n\n<b>Оценка:</b> %d" +
		"\n<b>Комментарий:</b> %s" +
		"\n\n<b>Отзыв оставлен:</b> %s" +
		"\n\n<b>Артикул:</b> %d" +
		"\n<b>ID:</b> %s"
)
