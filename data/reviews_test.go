package data

import (
	"strings"
	"testing"

	"github.com/chiedu/wayfarer/internal/validator"
)

func validTestReview() *Review {
	return &Review{
		BookingID:      "b_1",
		GuideID:        1,
		RaterID:        2,
		TourID:         "t_1",
		OverallScore:   5,
		Title:          "A fantastic day out",
		Body:           "Our guide showed us parts of the city we'd never have found alone.",
		CategoryScores: CategoryScores{5, 4, 5, 5, 5},
		WouldRecommend: true,
		Visibility:     VisibilityPending,
	}
}

func TestCategoryScoresFromMap(t *testing.T) {
	t.Run("complete map", func(t *testing.T) {
		scores, missing := CategoryScoresFromMap(map[CategoryName]int8{
			CategoryCommunication: 5,
			CategoryKnowledge:     4,
			CategoryPunctuality:   3,
			CategoryFriendliness:  2,
			CategoryOverall:       1,
		})
		if len(missing) != 0 {
			t.Fatalf("expected no missing categories; got %v", missing)
		}
		if scores.Score(CategoryKnowledge) != 4 {
			t.Errorf("expected knowledge score 4; got %d", scores.Score(CategoryKnowledge))
		}
		if scores.Score(CategoryOverall) != 1 {
			t.Errorf("expected overall score 1; got %d", scores.Score(CategoryOverall))
		}
	})

	t.Run("missing categories are reported in canonical order", func(t *testing.T) {
		_, missing := CategoryScoresFromMap(map[CategoryName]int8{
			CategoryKnowledge:    4,
			CategoryFriendliness: 5,
		})
		if len(missing) != 3 {
			t.Fatalf("expected 3 missing categories; got %d", len(missing))
		}
		expected := []CategoryName{CategoryCommunication, CategoryPunctuality, CategoryOverall}
		for i := range expected {
			if missing[i] != expected[i] {
				t.Errorf("expected missing[%d] to be %s; got %s", i, expected[i], missing[i])
			}
		}
	})

	t.Run("unknown keys are ignored", func(t *testing.T) {
		_, missing := CategoryScoresFromMap(map[CategoryName]int8{
			CategoryCommunication: 5,
			CategoryKnowledge:     5,
			CategoryPunctuality:   5,
			CategoryFriendliness:  5,
			CategoryOverall:       5,
			"value_for_money":     5,
		})
		if len(missing) != 0 {
			t.Errorf("expected no missing categories; got %v", missing)
		}
	})
}

func TestValidateReview(t *testing.T) {
	t.Run("valid review", func(t *testing.T) {
		v := validator.New()
		ValidateReview(v, validTestReview())
		if !v.Valid() {
			t.Errorf("expected review to be valid; got %v", v.Errors)
		}
	})

	t.Run("title too short", func(t *testing.T) {
		review := validTestReview()
		review.Title = "Ok"
		v := validator.New()
		ValidateReview(v, review)
		if v.Valid() {
			t.Error("expected validation to fail")
		}
		if _, ok := v.Errors["title"]; !ok {
			t.Errorf("expected a title error; got %v", v.Errors)
		}
	})

	t.Run("body too long", func(t *testing.T) {
		review := validTestReview()
		review.Body = strings.Repeat("a", 2001)
		v := validator.New()
		ValidateReview(v, review)
		if v.Valid() {
			t.Error("expected validation to fail")
		}
		if _, ok := v.Errors["body"]; !ok {
			t.Errorf("expected a body error; got %v", v.Errors)
		}
	})

	t.Run("category score out of range", func(t *testing.T) {
		review := validTestReview()
		review.CategoryScores = CategoryScores{5, 0, 5, 5, 5}
		v := validator.New()
		ValidateReview(v, review)
		if v.Valid() {
			t.Error("expected validation to fail")
		}
		if _, ok := v.Errors["knowledge"]; !ok {
			t.Errorf("expected a knowledge error; got %v", v.Errors)
		}
	})
}

func TestReviewStatsAddToBreakdown(t *testing.T) {
	var stats ReviewStats
	for _, score := range []int8{5, 5, 4, 3, 1} {
		stats.AddToBreakdown(score)
	}
	if stats.FiveStars != 2 {
		t.Errorf("expected 2 five-star reviews; got %d", stats.FiveStars)
	}
	if stats.FourStars != 1 {
		t.Errorf("expected 1 four-star review; got %d", stats.FourStars)
	}
	if stats.ThreeStars != 1 {
		t.Errorf("expected 1 three-star review; got %d", stats.ThreeStars)
	}
	if stats.TwoStars != 0 {
		t.Errorf("expected 0 two-star reviews; got %d", stats.TwoStars)
	}
	if stats.OneStar != 1 {
		t.Errorf("expected 1 one-star review; got %d", stats.OneStar)
	}
}
