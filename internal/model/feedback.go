package model

// Feedback is a buyer review as returned by the WB feedbacks API. It is
// never persisted verbatim; every poll rebuilds it from the response.
type Feedback struct {
	Id               string         `json:"id"`
	Text             string         `json:"text"`
	ProductValuation int            `json:"productValuation"`
	ProductDetails   ProductDetails `json:"productDetails"`
	CreatedDate      string         `json:"createdDate"`
	Answer           *Answer        `json:"answer"`
}

type ProductDetails struct {
	BrandName string `json:"brandName"`
	NmId      int64  `json:"nmId"`
}

// Answer is the seller's reply to a feedback. A nil Answer on a Feedback
// means the review is still open.
type Answer struct {
	Text string `json:"text"`
}

// Answered reports whether the seller has replied to the feedback.
func (f Feedback) Answered() bool {
	return f.Answer != nil
}
