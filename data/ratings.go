package data

import (
	"math"
	"time"

	"github.com/chiedu/wayfarer/internal/validator"
)

// TargetKind identifies the kind of entity a rating is attached to. Ratings
// on tours and on content posts share one store, keyed by kind rather than
// by a free-form collection name.
type TargetKind string

const (
	TargetTour    TargetKind = "tour"
	TargetContent TargetKind = "content"
)

// IsValid returns true if the target kind is one of the known kinds.
func (k TargetKind) IsValid() bool {
	return k == TargetTour || k == TargetContent
}

// Rating defines a single user's rating of a target entity. At most one
// rating exists per (kind, target, user).
type Rating struct {
	Kind      TargetKind `json:"kind"`
	TargetID  string     `json:"target_id"`
	UserID    int64      `json:"user_id"`
	Score     int8       `json:"score"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RatingStats defines the running aggregate for a target entity. The
// invariant is that AverageRating * RatingCount equals the sum of all live
// rating scores for the target, and a zero count implies a zero average.
type RatingStats struct {
	AverageRating float64   `json:"average_rating"`
	RatingCount   int64     `json:"rating_count"`
	LastUpdated   time.Time `json:"last_updated"`
	Version       int32     `json:"-"`
}

// total reconstructs the score sum from the stored average and count.
// Scores are integers, so rounding removes any accumulated float error.
func (s RatingStats) total() float64 {
	return math.Round(s.AverageRating * float64(s.RatingCount))
}

// ApplyRating returns the stats after a user submits a score. A non-nil
// prior is the score the same user previously held: the sum is adjusted by
// the delta and the count is unchanged. Otherwise the count grows by one.
func (s RatingStats) ApplyRating(prior *int8, score int8) RatingStats {
	total := s.total()
	count := s.RatingCount
	if prior != nil {
		total += float64(score) - float64(*prior)
	} else {
		total += float64(score)
		count++
	}
	return RatingStats{
		AverageRating: total / float64(count),
		RatingCount:   count,
		LastUpdated:   time.Now(),
		Version:       s.Version,
	}
}

// RemoveRating returns the stats after a user's score is withdrawn. The
// count and sum are floored at zero so a stray removal can never drive the
// aggregate negative.
func (s RatingStats) RemoveRating(score int8) RatingStats {
	total := s.total() - float64(score)
	count := s.RatingCount - 1
	if count <= 0 {
		return RatingStats{LastUpdated: time.Now(), Version: s.Version}
	}
	if total < 0 {
		total = 0
	}
	return RatingStats{
		AverageRating: total / float64(count),
		RatingCount:   count,
		LastUpdated:   time.Now(),
		Version:       s.Version,
	}
}

func ValidateRating(v *validator.Validator, rating *Rating) {
	v.Check(rating.Kind.IsValid(), "kind", "must be tour or content")
	v.Check(rating.TargetID != "", "target_id", "must be provided")
	v.Check(rating.Score >= 1, "score", "must be at least one")
	v.Check(rating.Score <= 5, "score", "must not be greater than five")
}
