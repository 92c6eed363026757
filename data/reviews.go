package data

import (
	"encoding/json"
	"time"

	"github.com/chiedu/wayfarer/internal/validator"
)

// CategoryName is one of the fixed set of named sub-ratings inside a guide
// review. The set is closed: a review must score every category.
type CategoryName string

const (
	CategoryCommunication CategoryName = "communication"
	CategoryKnowledge     CategoryName = "knowledge"
	CategoryPunctuality   CategoryName = "punctuality"
	CategoryFriendliness  CategoryName = "friendliness"
	CategoryOverall       CategoryName = "overall"
)

// Categories lists every category in its canonical order. CategoryScores
// and category averages are indexed by position in this list.
var Categories = [...]CategoryName{
	CategoryCommunication,
	CategoryKnowledge,
	CategoryPunctuality,
	CategoryFriendliness,
	CategoryOverall,
}

// CategoryScores holds one score per category, indexed by the position of
// the category in Categories. A fixed-size array makes "missing category"
// a shape error at construction time rather than a runtime key lookup.
type CategoryScores [len(Categories)]int8

// Score returns the score held for a named category, or 0 for an unknown name.
func (cs CategoryScores) Score(name CategoryName) int8 {
	for i := range Categories {
		if Categories[i] == name {
			return cs[i]
		}
	}
	return 0
}

// MarshalJSON encodes the scores as an object keyed by category name.
func (cs CategoryScores) MarshalJSON() ([]byte, error) {
	m := make(map[CategoryName]int8, len(Categories))
	for i := range Categories {
		m[Categories[i]] = cs[i]
	}
	return json.Marshal(m)
}

// CategoryScoresFromMap builds fixed category scores from a request map.
// The second return value lists the categories absent from the map.
func CategoryScoresFromMap(m map[CategoryName]int8) (CategoryScores, []CategoryName) {
	var cs CategoryScores
	var missing []CategoryName
	for i := range Categories {
		score, ok := m[Categories[i]]
		if !ok {
			missing = append(missing, Categories[i])
			continue
		}
		cs[i] = score
	}
	return cs, missing
}

// Visibility is the moderation state of a review. Transitions are owned by
// the external moderation collaborator, not by this app.
type Visibility string

const (
	VisibilityPending  Visibility = "pending"
	VisibilityApproved Visibility = "approved"
	VisibilityRejected Visibility = "rejected"
)

// IsValid returns true if the visibility is one of the known states.
func (v Visibility) IsValid() bool {
	return v == VisibilityPending || v == VisibilityApproved || v == VisibilityRejected
}

// Review defines a traveler's review of a guide for a specific booking.
// At most one review exists per booking.
type Review struct {
	ID             int64          `json:"id"`
	BookingID      string         `json:"booking_id"`
	GuideID        int64          `json:"guide_id"`
	RaterID        int64          `json:"rater_id"`
	RaterName      string         `json:"rater_name,omitempty"`
	TourID         string         `json:"tour_id"`
	OverallScore   int8           `json:"overall_score"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	CategoryScores CategoryScores `json:"category_scores"`
	WouldRecommend bool           `json:"would_recommend"`
	Verified       bool           `json:"verified"`
	Visibility     Visibility     `json:"visibility"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Version        int32          `json:"-"`
}

// ReviewStats defines the derived summary statistics over a guide's
// approved reviews. It is recomputed at read time, never stored.
type ReviewStats struct {
	TotalReviews     int64                    `json:"total_reviews"`
	AverageRating    float64                  `json:"average_rating"`
	FiveStars        int64                    `json:"fivestars"`
	FourStars        int64                    `json:"fourstars"`
	ThreeStars       int64                    `json:"threestars"`
	TwoStars         int64                    `json:"twostars"`
	OneStar          int64                    `json:"onestar"`
	CategoryAverages map[CategoryName]float64 `json:"category_averages"`
	LastUpdated      time.Time                `json:"last_updated"`
}

// AddToBreakdown increments the star bucket matching an overall score.
func (st *ReviewStats) AddToBreakdown(score int8) {
	switch score {
	case 5:
		st.FiveStars++
	case 4:
		st.FourStars++
	case 3:
		st.ThreeStars++
	case 2:
		st.TwoStars++
	case 1:
		st.OneStar++
	}
}

func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(review.Title != "", "title", "must be provided")
	v.Check(len(review.Title) >= 5, "title", "must be at least 5 bytes long")
	v.Check(len(review.Title) <= 200, "title", "must not be more than 200 bytes long")
	v.Check(review.Body != "", "body", "must be provided")
	v.Check(len(review.Body) >= 20, "body", "must be at least 20 bytes long")
	v.Check(len(review.Body) <= 2000, "body", "must not be more than 2000 bytes long")
	v.Check(review.OverallScore >= 1, "overall_score", "must be at least one")
	v.Check(review.OverallScore <= 5, "overall_score", "must not be greater than five")
	for i := range Categories {
		score := review.CategoryScores[i]
		v.Check(score >= 1 && score <= 5, string(Categories[i]), "must be a score between one and five")
	}
}
