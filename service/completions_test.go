package service

import (
	"errors"
	"testing"

	"github.com/chiedu/wayfarer/data"
)

func TestCreateCompletion(t *testing.T) {
	repo := newMockRepository()
	s := newTestService(repo)

	t.Run("starts the lifecycle in the completed state", func(t *testing.T) {
		completion, err := s.CreateCompletion("b_1", "t_1", 1, 2)
		if err != nil {
			t.Fatal(err)
		}
		if completion.Status != data.StatusCompleted {
			t.Errorf("expected status %s; got %s", data.StatusCompleted, completion.Status)
		}
		if completion.CompletedAt.IsZero() {
			t.Error("expected completed_at to be set")
		}
	})

	t.Run("rejects a second completion for the same booking", func(t *testing.T) {
		_, err := s.CreateCompletion("b_1", "t_1", 1, 2)
		if !errors.Is(err, ErrDuplicateRecord) {
			t.Errorf("expected ErrDuplicateRecord; got %v", err)
		}
	})

	t.Run("rejects a guide reviewing their own booking", func(t *testing.T) {
		_, err := s.CreateCompletion("b_2", "t_1", 1, 1)
		if !errors.Is(err, ErrFailedValidation) {
			t.Errorf("expected ErrFailedValidation; got %v", err)
		}
	})
}

func TestConfirmDelivery(t *testing.T) {
	repo := newMockRepository()
	s := newTestService(repo)
	_, err := s.CreateCompletion("b_1", "t_1", 1, 2)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("unknown booking", func(t *testing.T) {
		_, err := s.ConfirmDelivery("b_missing", 1, "")
		if !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound; got %v", err)
		}
	})

	t.Run("only the booking's guide may confirm", func(t *testing.T) {
		_, err := s.ConfirmDelivery("b_1", 2, "")
		if !errors.Is(err, ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted; got %v", err)
		}
	})

	t.Run("guide confirmation advances the lifecycle", func(t *testing.T) {
		completion, err := s.ConfirmDelivery("b_1", 1, "great group")
		if err != nil {
			t.Fatal(err)
		}
		if completion.Status != data.StatusGuideConfirmed {
			t.Errorf("expected status %s; got %s", data.StatusGuideConfirmed, completion.Status)
		}
		if completion.GuideConfirmedAt == nil {
			t.Error("expected guide_confirmed_at to be set")
		}
		if completion.Notes != "great group" {
			t.Errorf("expected notes to be recorded; got %q", completion.Notes)
		}
	})

	t.Run("confirming twice is an invalid transition", func(t *testing.T) {
		_, err := s.ConfirmDelivery("b_1", 1, "")
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition; got %v", err)
		}
	})
}

func TestCanReview(t *testing.T) {
	repo := newMockRepository()
	s := newTestService(repo)
	_, err := s.CreateCompletion("b_1", "t_1", 1, 2)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("unknown booking is simply not reviewable", func(t *testing.T) {
		canReview, err := s.CanReview("b_missing", 2)
		if err != nil {
			t.Fatal(err)
		}
		if canReview {
			t.Error("expected can_review to be false")
		}
	})

	t.Run("not reviewable before guide confirmation", func(t *testing.T) {
		canReview, err := s.CanReview("b_1", 2)
		if err != nil {
			t.Fatal(err)
		}
		if canReview {
			t.Error("expected can_review to be false")
		}
	})

	t.Run("reviewable by the traveler after confirmation", func(t *testing.T) {
		_, err := s.ConfirmDelivery("b_1", 1, "")
		if err != nil {
			t.Fatal(err)
		}
		canReview, err := s.CanReview("b_1", 2)
		if err != nil {
			t.Fatal(err)
		}
		if !canReview {
			t.Error("expected can_review to be true")
		}
	})

	t.Run("never reviewable by the guide", func(t *testing.T) {
		canReview, err := s.CanReview("b_1", 1)
		if err != nil {
			t.Fatal(err)
		}
		if canReview {
			t.Error("expected can_review to be false")
		}
	})
}
