package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/chiedu/wayfarer/data"
)

func fullCategoryScores() map[data.CategoryName]int8 {
	return map[data.CategoryName]int8{
		data.CategoryCommunication: 5,
		data.CategoryKnowledge:     4,
		data.CategoryPunctuality:   5,
		data.CategoryFriendliness:  5,
		data.CategoryOverall:       5,
	}
}

// confirmedBooking seeds a completion that has passed guide confirmation, so
// traveler 2 is review-eligible for booking b_1 on tour t_1 with guide 1.
func confirmedBooking(t *testing.T, s *service) {
	t.Helper()
	_, err := s.CreateCompletion("b_1", "t_1", 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.ConfirmDelivery("b_1", 1, "")
	if err != nil {
		t.Fatal(err)
	}
}

func TestCreateReview(t *testing.T) {
	t.Run("requires a score for every category", func(t *testing.T) {
		s := newTestService(newMockRepository())
		confirmedBooking(t, s)
		scores := fullCategoryScores()
		delete(scores, data.CategoryPunctuality)
		_, err := s.CreateReview("b_1", 2, 5, "A fantastic day out", "Our guide showed us parts of the city we'd never have found alone.", scores, true)
		if !errors.Is(err, ErrIncompleteRating) {
			t.Fatalf("expected ErrIncompleteRating; got %v", err)
		}
		if !strings.Contains(err.Error(), "punctuality") {
			t.Errorf("expected the missing category to be named; got %q", err.Error())
		}
	})

	t.Run("unknown booking", func(t *testing.T) {
		s := newTestService(newMockRepository())
		_, err := s.CreateReview("b_missing", 2, 5, "A fantastic day out", "Our guide showed us parts of the city we'd never have found alone.", fullCategoryScores(), true)
		if !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound; got %v", err)
		}
	})

	t.Run("not eligible before guide confirmation", func(t *testing.T) {
		s := newTestService(newMockRepository())
		_, err := s.CreateCompletion("b_1", "t_1", 1, 2)
		if err != nil {
			t.Fatal(err)
		}
		_, err = s.CreateReview("b_1", 2, 5, "A fantastic day out", "Our guide showed us parts of the city we'd never have found alone.", fullCategoryScores(), true)
		if !errors.Is(err, ErrNotEligible) {
			t.Errorf("expected ErrNotEligible; got %v", err)
		}
	})

	t.Run("only the traveler on the booking may review", func(t *testing.T) {
		s := newTestService(newMockRepository())
		confirmedBooking(t, s)
		_, err := s.CreateReview("b_1", 99, 5, "A fantastic day out", "Our guide showed us parts of the city we'd never have found alone.", fullCategoryScores(), true)
		if !errors.Is(err, ErrNotEligible) {
			t.Errorf("expected ErrNotEligible; got %v", err)
		}
	})

	t.Run("rejects review text that fails validation", func(t *testing.T) {
		s := newTestService(newMockRepository())
		confirmedBooking(t, s)
		_, err := s.CreateReview("b_1", 2, 5, "A fantastic day out", "Too short.", fullCategoryScores(), true)
		if !errors.Is(err, ErrFailedValidation) {
			t.Errorf("expected ErrFailedValidation; got %v", err)
		}
	})

	t.Run("records the review and closes the lifecycle", func(t *testing.T) {
		s := newTestService(newMockRepository())
		confirmedBooking(t, s)
		review, err := s.CreateReview("b_1", 2, 5, "A fantastic day out", "Our guide showed us parts of the city we'd never have found alone.", fullCategoryScores(), true)
		if err != nil {
			t.Fatal(err)
		}
		if review.ID == 0 {
			t.Error("expected review to be assigned an id")
		}
		if review.GuideID != 1 || review.TourID != "t_1" {
			t.Errorf("expected guide and tour to be copied from the booking; got guide %d tour %s", review.GuideID, review.TourID)
		}
		if review.Visibility != data.VisibilityPending {
			t.Errorf("expected new review to be pending; got %s", review.Visibility)
		}
		if review.Verified {
			t.Error("expected new review to be unverified")
		}
		completion, err := s.GetCompletion("b_1")
		if err != nil {
			t.Fatal(err)
		}
		if completion.Status != data.StatusReviewCompleted {
			t.Errorf("expected status %s; got %s", data.StatusReviewCompleted, completion.Status)
		}
		if completion.ReviewID == nil || *completion.ReviewID != review.ID {
			t.Error("expected the completion to reference the review")
		}

		// The booking's review slot is spent now.
		_, err = s.CreateReview("b_1", 2, 4, "Second thoughts now", "Actually I wanted to write a completely different review here.", fullCategoryScores(), false)
		if !errors.Is(err, ErrAlreadyReviewed) {
			t.Errorf("expected ErrAlreadyReviewed; got %v", err)
		}
	})
}

func TestUpdateReview(t *testing.T) {
	s := newTestService(newMockRepository())
	confirmedBooking(t, s)
	review, err := s.CreateReview("b_1", 2, 5, "A fantastic day out", "Our guide showed us parts of the city we'd never have found alone.", fullCategoryScores(), true)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("patches only the provided fields", func(t *testing.T) {
		score := int8(4)
		updated, err := s.UpdateReview(review.ID, &score, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if updated.OverallScore != 4 {
			t.Errorf("expected overall score 4; got %d", updated.OverallScore)
		}
		if updated.Title != review.Title {
			t.Errorf("expected title to be unchanged; got %q", updated.Title)
		}
	})

	t.Run("rejects an update that fails validation", func(t *testing.T) {
		title := "No"
		_, err := s.UpdateReview(review.ID, nil, &title, nil)
		if !errors.Is(err, ErrFailedValidation) {
			t.Errorf("expected ErrFailedValidation; got %v", err)
		}
	})

	t.Run("unknown review", func(t *testing.T) {
		_, err := s.UpdateReview(999, nil, nil, nil)
		if !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound; got %v", err)
		}
	})
}

func TestDeleteReview(t *testing.T) {
	s := newTestService(newMockRepository())
	confirmedBooking(t, s)
	review, err := s.CreateReview("b_1", 2, 5, "A fantastic day out", "Our guide showed us parts of the city we'd never have found alone.", fullCategoryScores(), true)
	if err != nil {
		t.Fatal(err)
	}
	err = s.DeleteReview(review.ID)
	if err != nil {
		t.Fatal(err)
	}
	// Deletion does not reopen eligibility: the booking stays reviewed.
	canReview, err := s.CanReview("b_1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if canReview {
		t.Error("expected the booking to stay unreviewable after deletion")
	}
}

func TestModerateReview(t *testing.T) {
	s := newTestService(newMockRepository())
	confirmedBooking(t, s)
	review, err := s.CreateReview("b_1", 2, 5, "A fantastic day out", "Our guide showed us parts of the city we'd never have found alone.", fullCategoryScores(), true)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("rejects an unknown visibility", func(t *testing.T) {
		_, err := s.ModerateReview(review.ID, "hidden", false)
		if !errors.Is(err, ErrFailedValidation) {
			t.Errorf("expected ErrFailedValidation; got %v", err)
		}
	})

	t.Run("applies the moderation decision", func(t *testing.T) {
		moderated, err := s.ModerateReview(review.ID, data.VisibilityApproved, true)
		if err != nil {
			t.Fatal(err)
		}
		if moderated.Visibility != data.VisibilityApproved {
			t.Errorf("expected visibility %s; got %s", data.VisibilityApproved, moderated.Visibility)
		}
		if !moderated.Verified {
			t.Error("expected review to be marked verified")
		}
	})
}

func TestGetGuideReviewStats(t *testing.T) {
	s := newTestService(newMockRepository())
	confirmedBooking(t, s)
	review, err := s.CreateReview("b_1", 2, 5, "A fantastic day out", "Our guide showed us parts of the city we'd never have found alone.", fullCategoryScores(), true)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("pending reviews are excluded", func(t *testing.T) {
		stats, err := s.GetGuideReviewStats(1)
		if err != nil {
			t.Fatal(err)
		}
		if stats.TotalReviews != 0 {
			t.Errorf("expected 0 reviews; got %d", stats.TotalReviews)
		}
	})

	t.Run("approved reviews are counted", func(t *testing.T) {
		_, err := s.ModerateReview(review.ID, data.VisibilityApproved, true)
		if err != nil {
			t.Fatal(err)
		}
		stats, err := s.GetGuideReviewStats(1)
		if err != nil {
			t.Fatal(err)
		}
		if stats.TotalReviews != 1 {
			t.Errorf("expected 1 review; got %d", stats.TotalReviews)
		}
		if stats.FiveStars != 1 {
			t.Errorf("expected 1 five-star review; got %d", stats.FiveStars)
		}
		if stats.AverageRating != 5 {
			t.Errorf("expected average 5; got %g", stats.AverageRating)
		}
	})
}
