package dto

import "github.com/chiedu/wayfarer/data"

// CreateReviewRequestBody defines a request body for CreateReview service.
type CreateReviewRequestBody struct {
	OverallScore   int8                       `json:"overall_score"`
	Title          string                     `json:"title"`
	Body           string                     `json:"body"`
	CategoryScores map[data.CategoryName]int8 `json:"category_scores"`
	WouldRecommend bool                       `json:"would_recommend"`
}

// UpdateReviewRequestBody defines a request body for UpdateReview service.
type UpdateReviewRequestBody struct {
	OverallScore *int8   `json:"overall_score"`
	Title        *string `json:"title"`
	Body         *string `json:"body"`
}

// ModerateReviewRequestBody defines a request body for ModerateReview service.
type ModerateReviewRequestBody struct {
	Visibility data.Visibility `json:"visibility"`
	Verified   bool            `json:"verified"`
}

// QsListReviews defines the query strings used for listing reviews.
type QsListReviews struct {
	Filters data.Filters
}
