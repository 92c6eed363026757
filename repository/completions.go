package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chiedu/wayfarer/data"
)

type completions interface {
	CreateCompletion(completion *data.TourCompletion) error
	GetCompletion(bookingID string) (*data.TourCompletion, error)
	UpdateCompletion(completion *data.TourCompletion) error
	MarkReviewSent(bookingID string) error
}

// CreateCompletion creates a completion record for a booking whose service
// period has ended. Each booking has exactly one completion.
func (r *repository) CreateCompletion(completion *data.TourCompletion) error {
	query := `
		INSERT INTO completions (booking_id, guide_id, traveler_id, tour_id, status, notes, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING version`
	args := []interface{}{
		completion.BookingID,
		completion.GuideID,
		completion.TravelerID,
		completion.TourID,
		completion.Status,
		completion.Notes,
		completion.CompletedAt,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&completion.Version)
	if err != nil {
		switch {
		case err.Error() == `pq: duplicate key value violates unique constraint "completions_pkey"`:
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetCompletion retrieves the completion record for a booking.
func (r *repository) GetCompletion(bookingID string) (*data.TourCompletion, error) {
	query := `
		SELECT booking_id, guide_id, traveler_id, tour_id, status, notes, completed_at, guide_confirmed_at, review_id, version
		FROM completions
		WHERE booking_id = $1`
	var completion data.TourCompletion
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&completion.BookingID,
		&completion.GuideID,
		&completion.TravelerID,
		&completion.TourID,
		&completion.Status,
		&completion.Notes,
		&completion.CompletedAt,
		&completion.GuideConfirmedAt,
		&completion.ReviewID,
		&completion.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &completion, nil
}

// UpdateCompletion updates a completion record, guarded by the version the
// caller read so a concurrent transition cannot be silently overwritten.
func (r *repository) UpdateCompletion(completion *data.TourCompletion) error {
	query := `
		UPDATE completions
		SET status = $1, notes = $2, guide_confirmed_at = $3, review_id = $4, version = version + 1
		WHERE booking_id = $5 AND version = $6
		RETURNING version`
	args := []interface{}{
		completion.Status,
		completion.Notes,
		completion.GuideConfirmedAt,
		completion.ReviewID,
		completion.BookingID,
		completion.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&completion.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// MarkReviewSent advances a completion from guide_confirmed to review_sent
// once the review invitation has been dispatched. Calling it when the
// completion has already moved on is a no-op, not an error.
func (r *repository) MarkReviewSent(bookingID string) error {
	query := `
		UPDATE completions
		SET status = $1, version = version + 1
		WHERE booking_id = $2 AND status = $3`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, data.StatusReviewSent, bookingID, data.StatusGuideConfirmed)
	return err
}
