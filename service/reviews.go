package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chiedu/wayfarer/clients"
	"github.com/chiedu/wayfarer/data"
	"github.com/chiedu/wayfarer/internal/validator"
	"github.com/chiedu/wayfarer/repository"
)

type reviews interface {
	CreateReview(bookingID string, raterID int64, overallScore int8, title string, body string, categoryScores map[data.CategoryName]int8, wouldRecommend bool) (*data.Review, error)
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(reviewID int64, overallScore *int8, title *string, body *string) (*data.Review, error)
	DeleteReview(reviewID int64) error
	ModerateReview(reviewID int64, visibility data.Visibility, verified bool) (*data.Review, error)
	GetGuideReviewStats(guideID int64) (data.ReviewStats, error)
	GetTourReviews(tourID string, limit int) ([]*data.Review, error)
	ListTourReviews(tourID string, filters data.Filters) ([]*data.Review, data.Metadata, error)
}

// CreateReview service creates a guide review for a booking. The review is
// gated on the completion lifecycle: the caller must be the traveler on the
// booking, the guide must have confirmed delivery, and the booking must not
// have been reviewed already. Every category in the fixed set must carry a
// score. On success the completion advances to review_completed.
func (s *service) CreateReview(bookingID string, raterID int64, overallScore int8, title string, body string, categoryScores map[data.CategoryName]int8, wouldRecommend bool) (*data.Review, error) {
	scores, missing := data.CategoryScoresFromMap(categoryScores)
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i := range missing {
			names[i] = string(missing[i])
		}
		return nil, fmt.Errorf("%w: missing %s", ErrIncompleteRating, strings.Join(names, ", "))
	}
	completion, err := s.repo.GetCompletion(bookingID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if completion.ReviewID != nil || completion.Status == data.StatusReviewCompleted {
		return nil, ErrAlreadyReviewed
	}
	if !completion.CanReview(raterID) {
		return nil, ErrNotEligible
	}
	review := &data.Review{
		BookingID:      bookingID,
		GuideID:        completion.GuideID,
		RaterID:        raterID,
		TourID:         completion.TourID,
		OverallScore:   overallScore,
		Title:          title,
		Body:           body,
		CategoryScores: scores,
		WouldRecommend: wouldRecommend,
		Verified:       false,
		Visibility:     data.VisibilityPending,
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.CreateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyReviewed):
			return nil, ErrAlreadyReviewed
		default:
			return nil, err
		}
	}
	// Queue the review for screening. The moderation tool reports back
	// through the moderation endpoint, so a failed ping just means the
	// review waits in pending a little longer.
	if s.config.Moderation.WebhookURL != "" {
		s.background(func() {
			notifier := clients.NewModerationNotifier(s.config.Moderation.WebhookURL)
			err := notifier.Notify(review.ID, review.BookingID, review.GuideID)
			if err != nil {
				s.logger.PrintError(err, map[string]string{"booking_id": review.BookingID})
			}
		})
	}
	return review, nil
}

// GetReview service retrieves the details of a review.
func (s *service) GetReview(reviewID int64) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// UpdateReview service updates the score and text of a review. Ownership is
// enforced by the handler layer; the completion lifecycle is unaffected.
func (s *service) UpdateReview(reviewID int64, overallScore *int8, title *string, body *string) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if overallScore != nil {
		review.OverallScore = *overallScore
	}
	if title != nil {
		review.Title = *title
	}
	if body != nil {
		review.Body = *body
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return review, nil
}

// DeleteReview service deletes a review. The booking's completion keeps its
// review budget spent, so deletion does not reopen review eligibility.
func (s *service) DeleteReview(reviewID int64) error {
	err := s.repo.DeleteReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ModerateReview service applies a moderation decision supplied by the
// external moderation collaborator. No transition policy is enforced here.
func (s *service) ModerateReview(reviewID int64, visibility data.Visibility, verified bool) (*data.Review, error) {
	v := validator.New()
	v.Check(visibility.IsValid(), "visibility", "must be pending, approved or rejected")
	if !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err := s.repo.ModerateReview(reviewID, visibility, verified)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return s.GetReview(reviewID)
}

// GetGuideReviewStats service retrieves the summary statistics over a
// guide's approved reviews, recomputed from the current review set.
func (s *service) GetGuideReviewStats(guideID int64) (data.ReviewStats, error) {
	return s.repo.GetGuideReviewStats(guideID)
}

// GetTourReviews service retrieves a tour's most recent approved reviews.
func (s *service) GetTourReviews(tourID string, limit int) ([]*data.Review, error) {
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.GetTourReviews(tourID, limit)
}

// ListTourReviews service retrieves a paginated list of a tour's approved reviews.
func (s *service) ListTourReviews(tourID string, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	return s.repo.GetAllTourReviews(tourID, filters)
}
