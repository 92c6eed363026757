package service

import (
	"errors"

	"github.com/chiedu/wayfarer/data"
	"github.com/chiedu/wayfarer/internal/validator"
	"github.com/chiedu/wayfarer/repository"
)

type ratings interface {
	SubmitRating(kind data.TargetKind, targetID string, userID int64, score int8) error
	RemoveRating(kind data.TargetKind, targetID string, userID int64) error
	GetRatingStats(kind data.TargetKind, targetID string) (data.RatingStats, error)
	GetUserRating(kind data.TargetKind, targetID string, userID int64) (int8, error)
}

// SubmitRating service creates or replaces the caller's rating for a target.
// A rater holds at most one rating per target; re-rating adjusts the
// aggregate by the score delta without growing the count.
func (s *service) SubmitRating(kind data.TargetKind, targetID string, userID int64, score int8) error {
	rating := &data.Rating{
		Kind:     kind,
		TargetID: targetID,
		UserID:   userID,
		Score:    score,
	}
	v := validator.New()
	if data.ValidateRating(v, rating); !v.Valid() {
		return s.failedValidation(v.Errors)
	}
	err := s.repo.SubmitRating(kind, targetID, userID, score)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// RemoveRating service withdraws the caller's rating for a target.
func (s *service) RemoveRating(kind data.TargetKind, targetID string, userID int64) error {
	v := validator.New()
	v.Check(kind.IsValid(), "kind", "must be tour or content")
	v.Check(targetID != "", "target_id", "must be provided")
	if !v.Valid() {
		return s.failedValidation(v.Errors)
	}
	err := s.repo.RemoveRating(kind, targetID, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		case errors.Is(err, repository.ErrEditConflict):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// GetRatingStats service retrieves the aggregate rating for a target. A
// target nobody has rated yields zero-value stats.
func (s *service) GetRatingStats(kind data.TargetKind, targetID string) (data.RatingStats, error) {
	return s.repo.GetRatingStats(kind, targetID)
}

// GetUserRating service retrieves the caller's own score for a target, 0 if none.
func (s *service) GetUserRating(kind data.TargetKind, targetID string, userID int64) (int8, error) {
	return s.repo.GetUserRating(kind, targetID, userID)
}
