package wb

import "wb-review-notifier/internal/model"

type feedbacksResponse struct {
	Data struct {
		Feedbacks []model.Feedback `json:"feedbacks"`
	} `json:"data"`
}

type feedbackResponse struct {
	Data *model.Feedback `json:"data"`
}

// errorResponse is the vendor's error envelope. ErrorText is where a 422
// names the review id it rejected; the raw body is kept as a fallback
// because the envelope shape has changed before.
type errorResponse struct {
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
}
