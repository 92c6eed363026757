package dto

// SubmitRatingRequestBody defines a request body for SubmitRating service.
type SubmitRatingRequestBody struct {
	Score int8 `json:"score"`
}
