package data

import (
	"time"

	"github.com/chiedu/wayfarer/internal/validator"
)

// CompletionStatus is the lifecycle state of a booking between service
// delivery and review. The lifecycle is linear and never regresses.
type CompletionStatus string

const (
	StatusCompleted       CompletionStatus = "completed"
	StatusGuideConfirmed  CompletionStatus = "guide_confirmed"
	StatusReviewSent      CompletionStatus = "review_sent"
	StatusReviewCompleted CompletionStatus = "review_completed"
)

// completionOrder ranks statuses along the lifecycle. A transition is legal
// only between explicitly allowed adjacent ranks, never backwards.
var completionOrder = map[CompletionStatus]int{
	StatusCompleted:       0,
	StatusGuideConfirmed:  1,
	StatusReviewSent:      2,
	StatusReviewCompleted: 3,
}

// IsValid returns true if the status is one of the known lifecycle states.
func (s CompletionStatus) IsValid() bool {
	_, ok := completionOrder[s]
	return ok
}

// Before returns true if the status sits earlier in the lifecycle than other.
func (s CompletionStatus) Before(other CompletionStatus) bool {
	return completionOrder[s] < completionOrder[other]
}

// TourCompletion tracks one booking's completion and confirmation lifecycle.
// It is created when the booking system records that the service period has
// ended and it gates whether the traveler may leave a review.
type TourCompletion struct {
	BookingID        string           `json:"booking_id"`
	GuideID          int64            `json:"guide_id"`
	TravelerID       int64            `json:"traveler_id"`
	TourID           string           `json:"tour_id"`
	Status           CompletionStatus `json:"status"`
	Notes            string           `json:"notes,omitempty"`
	CompletedAt      time.Time        `json:"completed_at"`
	GuideConfirmedAt *time.Time       `json:"guide_confirmed_at,omitempty"`
	ReviewID         *int64           `json:"review_id,omitempty"`
	Version          int32            `json:"-"`
}

// CanReview reports whether the given user may leave a review for this
// booking: they must be the traveler on the booking, the guide must have
// confirmed delivery, and no review may have been recorded yet. The
// predicate is pure and safe to evaluate repeatedly.
func (c *TourCompletion) CanReview(raterID int64) bool {
	if c.TravelerID != raterID {
		return false
	}
	if c.ReviewID != nil {
		return false
	}
	return c.Status == StatusGuideConfirmed || c.Status == StatusReviewSent
}

func ValidateCompletion(v *validator.Validator, completion *TourCompletion) {
	v.Check(completion.BookingID != "", "booking_id", "must be provided")
	v.Check(completion.TourID != "", "tour_id", "must be provided")
	v.Check(completion.GuideID > 0, "guide_id", "must be provided")
	v.Check(completion.TravelerID > 0, "traveler_id", "must be provided")
	v.Check(completion.GuideID != completion.TravelerID, "guide_id", "must not be the traveler")
	v.Check(completion.Status.IsValid(), "status", "must be a valid lifecycle status")
}
