package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/chiedu/wayfarer/data"
)

type ratings interface {
	SubmitRating(kind data.TargetKind, targetID string, userID int64, score int8) error
	RemoveRating(kind data.TargetKind, targetID string, userID int64) error
	GetRatingStats(kind data.TargetKind, targetID string) (data.RatingStats, error)
	GetUserRating(kind data.TargetKind, targetID string, userID int64) (int8, error)
}

// SubmitRating creates or replaces a user's rating for a target and updates
// the target's aggregate in the same transaction. The aggregate row carries
// a version column; a concurrent writer bumps the version, the guarded
// update writes no rows, and the whole transaction is re-run against fresh
// state. Targets are independent: writers on different targets never touch
// the same rows.
func (r *repository) SubmitRating(kind data.TargetKind, targetID string, userID int64, score int8) error {
	return retryOnConflict(maxTxnAttempts, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return r.withTx(ctx, func(tx *sql.Tx) error {
			prior, err := getUserRatingTx(ctx, tx, kind, targetID, userID)
			if err != nil {
				return err
			}
			stats, found, err := getRatingStatsTx(ctx, tx, kind, targetID)
			if err != nil {
				return err
			}
			next := stats.ApplyRating(prior, score)
			query := `
				INSERT INTO ratings (kind, target_id, user_id, score)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (kind, target_id, user_id)
				DO UPDATE SET score = EXCLUDED.score, updated_at = now()`
			_, err = tx.ExecContext(ctx, query, kind, targetID, userID, score)
			if err != nil {
				return err
			}
			return writeRatingStatsTx(ctx, tx, kind, targetID, found, next)
		})
	})
}

// RemoveRating deletes a user's rating for a target and decrements the
// aggregate in the same transaction.
func (r *repository) RemoveRating(kind data.TargetKind, targetID string, userID int64) error {
	return retryOnConflict(maxTxnAttempts, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		return r.withTx(ctx, func(tx *sql.Tx) error {
			prior, err := getUserRatingTx(ctx, tx, kind, targetID, userID)
			if err != nil {
				return err
			}
			if prior == nil {
				return ErrRecordNotFound
			}
			stats, found, err := getRatingStatsTx(ctx, tx, kind, targetID)
			if err != nil {
				return err
			}
			if !found {
				return ErrRecordNotFound
			}
			next := stats.RemoveRating(*prior)
			query := `
				DELETE FROM ratings
				WHERE kind = $1 AND target_id = $2 AND user_id = $3`
			_, err = tx.ExecContext(ctx, query, kind, targetID, userID)
			if err != nil {
				return err
			}
			return writeRatingStatsTx(ctx, tx, kind, targetID, found, next)
		})
	})
}

// GetRatingStats retrieves the aggregate for a target. A target nobody has
// rated yet yields zero-value stats, not an error.
func (r *repository) GetRatingStats(kind data.TargetKind, targetID string) (data.RatingStats, error) {
	query := `
		SELECT average_rating, rating_count, last_updated, version
		FROM rating_stats
		WHERE kind = $1 AND target_id = $2`
	var stats data.RatingStats
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, kind, targetID).Scan(
		&stats.AverageRating,
		&stats.RatingCount,
		&stats.LastUpdated,
		&stats.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return data.RatingStats{LastUpdated: time.Now()}, nil
		default:
			return data.RatingStats{}, err
		}
	}
	return stats, nil
}

// GetUserRating retrieves a user's own score for a target, or 0 if the user
// hasn't rated it.
func (r *repository) GetUserRating(kind data.TargetKind, targetID string, userID int64) (int8, error) {
	query := `
		SELECT score
		FROM ratings
		WHERE kind = $1 AND target_id = $2 AND user_id = $3`
	var score int8
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, kind, targetID, userID).Scan(&score)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return 0, nil
		default:
			return 0, err
		}
	}
	return score, nil
}

// getUserRatingTx reads the user's current score inside a transaction,
// returning nil when the user has no rating for the target.
func getUserRatingTx(ctx context.Context, tx *sql.Tx, kind data.TargetKind, targetID string, userID int64) (*int8, error) {
	query := `
		SELECT score
		FROM ratings
		WHERE kind = $1 AND target_id = $2 AND user_id = $3`
	var score int8
	err := tx.QueryRowContext(ctx, query, kind, targetID, userID).Scan(&score)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &score, nil
}

// getRatingStatsTx reads the aggregate row inside a transaction. The second
// return value reports whether the row exists yet.
func getRatingStatsTx(ctx context.Context, tx *sql.Tx, kind data.TargetKind, targetID string) (data.RatingStats, bool, error) {
	query := `
		SELECT average_rating, rating_count, last_updated, version
		FROM rating_stats
		WHERE kind = $1 AND target_id = $2`
	var stats data.RatingStats
	err := tx.QueryRowContext(ctx, query, kind, targetID).Scan(
		&stats.AverageRating,
		&stats.RatingCount,
		&stats.LastUpdated,
		&stats.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return data.RatingStats{}, false, nil
		default:
			return data.RatingStats{}, false, err
		}
	}
	return stats, true, nil
}

// writeRatingStatsTx writes the recomputed aggregate back. For an existing
// row the update is guarded by the version read earlier in the transaction;
// for a new target the insert loses to a concurrent first writer. Either
// collision reports ErrEditConflict so the caller re-runs the transaction.
func writeRatingStatsTx(ctx context.Context, tx *sql.Tx, kind data.TargetKind, targetID string, found bool, stats data.RatingStats) error {
	if !found {
		query := `
			INSERT INTO rating_stats (kind, target_id, average_rating, rating_count, last_updated)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (kind, target_id) DO NOTHING`
		result, err := tx.ExecContext(ctx, query, kind, targetID, stats.AverageRating, stats.RatingCount)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return ErrEditConflict
		}
		return nil
	}
	query := `
		UPDATE rating_stats
		SET average_rating = $1, rating_count = $2, last_updated = now(), version = version + 1
		WHERE kind = $3 AND target_id = $4 AND version = $5`
	result, err := tx.ExecContext(ctx, query, stats.AverageRating, stats.RatingCount, kind, targetID, stats.Version)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrEditConflict
	}
	return nil
}
