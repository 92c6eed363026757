package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/chiedu/wayfarer/data"
	"github.com/lib/pq"
)

type reviews interface {
	CreateReview(review *data.Review) error
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(review *data.Review) error
	DeleteReview(reviewID int64) error
	ModerateReview(reviewID int64, visibility data.Visibility, verified bool) error
	GetGuideReviewStats(guideID int64) (data.ReviewStats, error)
	GetTourReviews(tourID string, limit int) ([]*data.Review, error)
	GetAllTourReviews(tourID string, filters data.Filters) ([]*data.Review, data.Metadata, error)
}

// CreateReview creates a review record and marks the owning completion
// review_completed in a single transaction. The completion update is
// guarded by the version the service read when it checked eligibility, and
// additionally by the review slot still being empty, so two racing
// submissions can never both attach a review to one booking.
func (r *repository) CreateReview(review *data.Review) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO reviews (booking_id, guide_id, rater_id, tour_id, overall_score, title, body,
				score_communication, score_knowledge, score_punctuality, score_friendliness, score_overall,
				would_recommend, verified, visibility)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id, created_at, updated_at, version`
		args := []interface{}{
			review.BookingID,
			review.GuideID,
			review.RaterID,
			review.TourID,
			review.OverallScore,
			review.Title,
			review.Body,
			review.CategoryScores.Score(data.CategoryCommunication),
			review.CategoryScores.Score(data.CategoryKnowledge),
			review.CategoryScores.Score(data.CategoryPunctuality),
			review.CategoryScores.Score(data.CategoryFriendliness),
			review.CategoryScores.Score(data.CategoryOverall),
			review.WouldRecommend,
			review.Verified,
			review.Visibility,
		}
		err := tx.QueryRowContext(ctx, query, args...).Scan(
			&review.ID,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Version,
		)
		if err != nil {
			var pqErr *pq.Error
			switch {
			case errors.As(err, &pqErr) && pqErr.Constraint == "reviews_booking_id_key":
				return ErrAlreadyReviewed
			default:
				return err
			}
		}
		query = `
			UPDATE completions
			SET status = $1, review_id = $2, version = version + 1
			WHERE booking_id = $3 AND review_id IS NULL AND status = ANY($4)`
		eligible := pq.Array([]string{string(data.StatusGuideConfirmed), string(data.StatusReviewSent)})
		result, err := tx.ExecContext(ctx, query, data.StatusReviewCompleted, review.ID, review.BookingID, eligible)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrAlreadyReviewed
		}
		return nil
	})
}

// GetReview retrieves a review record.
func (r *repository) GetReview(reviewID int64) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT reviews.id, reviews.booking_id, reviews.guide_id, reviews.rater_id, users.name, reviews.tour_id,
			reviews.overall_score, reviews.title, reviews.body,
			reviews.score_communication, reviews.score_knowledge, reviews.score_punctuality,
			reviews.score_friendliness, reviews.score_overall,
			reviews.would_recommend, reviews.verified, reviews.visibility,
			reviews.created_at, reviews.updated_at, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.rater_id = users.id
		WHERE reviews.id = $1`
	var review data.Review
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, reviewID).Scan(
		&review.ID,
		&review.BookingID,
		&review.GuideID,
		&review.RaterID,
		&review.RaterName,
		&review.TourID,
		&review.OverallScore,
		&review.Title,
		&review.Body,
		&review.CategoryScores[0],
		&review.CategoryScores[1],
		&review.CategoryScores[2],
		&review.CategoryScores[3],
		&review.CategoryScores[4],
		&review.WouldRecommend,
		&review.Verified,
		&review.Visibility,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &review, nil
}

// UpdateReview updates a review record's score and text fields.
func (r *repository) UpdateReview(review *data.Review) error {
	query := `
		UPDATE reviews
		SET overall_score = $1, title = $2, body = $3, updated_at = now(), version = version + 1
		WHERE id = $4 AND version = $5
		RETURNING version`
	args := []interface{}{review.OverallScore, review.Title, review.Body, review.ID, review.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.Version)
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

// DeleteReview deletes a review record. The owning completion keeps its
// review_id so the booking's one-review budget stays spent.
func (r *repository) DeleteReview(reviewID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM reviews
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, reviewID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ModerateReview sets the moderation fields of a review. The transition
// policy belongs to the external moderation collaborator.
func (r *repository) ModerateReview(reviewID int64, visibility data.Visibility, verified bool) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	query := `
		UPDATE reviews
		SET visibility = $1, verified = $2, updated_at = now(), version = version + 1
		WHERE id = $3`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, visibility, verified, reviewID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetGuideReviewStats recomputes summary statistics over a guide's approved
// reviews at read time. A guide with no approved reviews yields all-zero
// stats rather than an error.
func (r *repository) GetGuideReviewStats(guideID int64) (data.ReviewStats, error) {
	query := `
		SELECT overall_score,
			score_communication, score_knowledge, score_punctuality, score_friendliness, score_overall
		FROM reviews
		WHERE guide_id = $1 AND visibility = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, guideID, data.VisibilityApproved)
	if err != nil {
		return data.ReviewStats{}, err
	}
	defer rows.Close()
	stats := data.ReviewStats{
		CategoryAverages: make(map[data.CategoryName]float64, len(data.Categories)),
		LastUpdated:      time.Now(),
	}
	sumOverall := int64(0)
	var sumCategories [len(data.Categories)]int64
	for rows.Next() {
		var overall int8
		var scores data.CategoryScores
		err := rows.Scan(
			&overall,
			&scores[0],
			&scores[1],
			&scores[2],
			&scores[3],
			&scores[4],
		)
		if err != nil {
			return data.ReviewStats{}, err
		}
		stats.AddToBreakdown(overall)
		sumOverall += int64(overall)
		for i := range scores {
			sumCategories[i] += int64(scores[i])
		}
		stats.TotalReviews++
	}
	if err = rows.Err(); err != nil {
		return data.ReviewStats{}, err
	}
	for i := range data.Categories {
		stats.CategoryAverages[data.Categories[i]] = 0
	}
	if stats.TotalReviews == 0 {
		return stats, nil
	}
	avgString := fmt.Sprintf("%.1f", float64(sumOverall)/float64(stats.TotalReviews))
	avg, err := strconv.ParseFloat(avgString, 64)
	if err != nil {
		return data.ReviewStats{}, err
	}
	// Guard against NaN so that JSON encoding of the stats never fails.
	if !math.IsNaN(avg) {
		stats.AverageRating = avg
	}
	for i := range data.Categories {
		stats.CategoryAverages[data.Categories[i]] = float64(sumCategories[i]) / float64(stats.TotalReviews)
	}
	return stats, nil
}

// GetTourReviews retrieves a tour's approved reviews, newest first, bounded
// by limit.
func (r *repository) GetTourReviews(tourID string, limit int) ([]*data.Review, error) {
	query := `
		SELECT reviews.id, reviews.booking_id, reviews.guide_id, reviews.rater_id, users.name, reviews.tour_id,
			reviews.overall_score, reviews.title, reviews.body,
			reviews.score_communication, reviews.score_knowledge, reviews.score_punctuality,
			reviews.score_friendliness, reviews.score_overall,
			reviews.would_recommend, reviews.verified, reviews.visibility,
			reviews.created_at, reviews.updated_at, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.rater_id = users.id
		WHERE reviews.tour_id = $1 AND reviews.visibility = $2
		ORDER BY reviews.created_at DESC, reviews.id DESC
		LIMIT $3`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, tourID, data.VisibilityApproved, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows, nil)
}

// GetAllTourReviews retrieves a paginated list of a tour's approved reviews.
func (r *repository) GetAllTourReviews(tourID string, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), reviews.id, reviews.booking_id, reviews.guide_id, reviews.rater_id, users.name, reviews.tour_id,
			reviews.overall_score, reviews.title, reviews.body,
			reviews.score_communication, reviews.score_knowledge, reviews.score_punctuality,
			reviews.score_friendliness, reviews.score_overall,
			reviews.would_recommend, reviews.verified, reviews.visibility,
			reviews.created_at, reviews.updated_at, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.rater_id = users.id
		WHERE reviews.tour_id = $1 AND reviews.visibility = $2
		ORDER BY %s %s, id DESC
		LIMIT $3 OFFSET $4`,
		filters.SortColumn(), filters.SortDirection())
	args := []interface{}{tourID, data.VisibilityApproved, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	reviews, err := scanReviews(rows, &totalRecords)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return reviews, metadata, nil
}

// scanReviews collects review rows. A non-nil totalRecords means the query
// selected count(*) OVER() as its first column.
func scanReviews(rows *sql.Rows, totalRecords *int) ([]*data.Review, error) {
	reviews := []*data.Review{}
	for rows.Next() {
		var review data.Review
		dest := []interface{}{
			&review.ID,
			&review.BookingID,
			&review.GuideID,
			&review.RaterID,
			&review.RaterName,
			&review.TourID,
			&review.OverallScore,
			&review.Title,
			&review.Body,
			&review.CategoryScores[0],
			&review.CategoryScores[1],
			&review.CategoryScores[2],
			&review.CategoryScores[3],
			&review.CategoryScores[4],
			&review.WouldRecommend,
			&review.Verified,
			&review.Visibility,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Version,
		}
		if totalRecords != nil {
			dest = append([]interface{}{totalRecords}, dest...)
		}
		err := rows.Scan(dest...)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, &review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
