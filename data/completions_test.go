package data

import (
	"testing"
	"time"

	"github.com/chiedu/wayfarer/internal/validator"
)

func TestCompletionStatusBefore(t *testing.T) {
	ordered := []CompletionStatus{
		StatusCompleted,
		StatusGuideConfirmed,
		StatusReviewSent,
		StatusReviewCompleted,
	}
	for i := 0; i < len(ordered)-1; i++ {
		if !ordered[i].Before(ordered[i+1]) {
			t.Errorf("expected %s to come before %s", ordered[i], ordered[i+1])
		}
		if ordered[i+1].Before(ordered[i]) {
			t.Errorf("expected %s not to come before %s", ordered[i+1], ordered[i])
		}
	}
}

func TestTourCompletionCanReview(t *testing.T) {
	reviewID := int64(7)
	tests := []struct {
		name       string
		status     CompletionStatus
		reviewID   *int64
		raterID    int64
		expectedOK bool
	}{
		{"traveler after guide confirmation", StatusGuideConfirmed, nil, 2, true},
		{"traveler after invitation sent", StatusReviewSent, nil, 2, true},
		{"traveler before guide confirmation", StatusCompleted, nil, 2, false},
		{"traveler after review recorded", StatusReviewCompleted, &reviewID, 2, false},
		{"review attached but status stale", StatusGuideConfirmed, &reviewID, 2, false},
		{"guide on own booking", StatusGuideConfirmed, nil, 1, false},
		{"unrelated user", StatusGuideConfirmed, nil, 99, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completion := &TourCompletion{
				BookingID:   "b_1",
				GuideID:     1,
				TravelerID:  2,
				TourID:      "t_1",
				Status:      tt.status,
				CompletedAt: time.Now(),
				ReviewID:    tt.reviewID,
			}
			if got := completion.CanReview(tt.raterID); got != tt.expectedOK {
				t.Errorf("expected CanReview=%t; got %t", tt.expectedOK, got)
			}
		})
	}
}

func TestValidateCompletion(t *testing.T) {
	tests := []struct {
		name       string
		completion TourCompletion
		valid      bool
	}{
		{"valid completion", TourCompletion{BookingID: "b_1", TourID: "t_1", GuideID: 1, TravelerID: 2, Status: StatusCompleted}, true},
		{"missing booking id", TourCompletion{TourID: "t_1", GuideID: 1, TravelerID: 2, Status: StatusCompleted}, false},
		{"missing tour id", TourCompletion{BookingID: "b_1", GuideID: 1, TravelerID: 2, Status: StatusCompleted}, false},
		{"guide is the traveler", TourCompletion{BookingID: "b_1", TourID: "t_1", GuideID: 1, TravelerID: 1, Status: StatusCompleted}, false},
		{"unknown status", TourCompletion{BookingID: "b_1", TourID: "t_1", GuideID: 1, TravelerID: 2, Status: "cancelled"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateCompletion(v, &tt.completion)
			if v.Valid() != tt.valid {
				t.Errorf("expected valid=%t; got %t (%v)", tt.valid, v.Valid(), v.Errors)
			}
		})
	}
}
