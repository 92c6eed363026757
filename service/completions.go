package service

import (
	"errors"
	"strings"
	"time"

	"github.com/chiedu/wayfarer/data"
	"github.com/chiedu/wayfarer/internal/mailer"
	"github.com/chiedu/wayfarer/internal/validator"
	"github.com/chiedu/wayfarer/repository"
)

type completions interface {
	CreateCompletion(bookingID string, tourID string, guideID int64, travelerID int64) (*data.TourCompletion, error)
	GetCompletion(bookingID string) (*data.TourCompletion, error)
	ConfirmDelivery(bookingID string, confirmerID int64, notes string) (*data.TourCompletion, error)
	CanReview(bookingID string, raterID int64) (bool, error)
}

// CreateCompletion service records that a booking's service period has
// ended. It is invoked by the external booking system and starts the
// completion lifecycle in the completed state.
func (s *service) CreateCompletion(bookingID string, tourID string, guideID int64, travelerID int64) (*data.TourCompletion, error) {
	completion := &data.TourCompletion{
		BookingID:   bookingID,
		TourID:      tourID,
		GuideID:     guideID,
		TravelerID:  travelerID,
		Status:      data.StatusCompleted,
		CompletedAt: time.Now(),
	}
	v := validator.New()
	if data.ValidateCompletion(v, completion); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err := s.repo.CreateCompletion(completion)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return completion, nil
}

// GetCompletion service retrieves the lifecycle record for a booking.
func (s *service) GetCompletion(bookingID string) (*data.TourCompletion, error) {
	completion, err := s.repo.GetCompletion(bookingID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return completion, nil
}

// ConfirmDelivery service records the guide's attestation that the booked
// service was delivered. It is legal only from the completed state and only
// for the booking's own guide. Confirmation unlocks review eligibility and
// triggers the review invitation email to the traveler; once the invitation
// is dispatched the completion advances to review_sent.
func (s *service) ConfirmDelivery(bookingID string, confirmerID int64, notes string) (*data.TourCompletion, error) {
	completion, err := s.repo.GetCompletion(bookingID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if completion.GuideID != confirmerID {
		return nil, ErrNotPermitted
	}
	if completion.Status != data.StatusCompleted {
		return nil, ErrInvalidTransition
	}
	now := time.Now()
	completion.Status = data.StatusGuideConfirmed
	completion.GuideConfirmedAt = &now
	if notes != "" {
		completion.Notes = notes
	}
	err = s.repo.UpdateCompletion(completion)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	// Invitation delivery happens off the request path. The review_sent
	// transition is recorded only after the email goes out, and it is
	// idempotent, so a crashed dispatch leaves the completion at
	// guide_confirmed where the traveler is already review-eligible.
	s.background(func() {
		s.sendReviewInvitation(completion)
	})
	return completion, nil
}

// sendReviewInvitation emails the traveler on a confirmed booking and then
// marks the completion review_sent.
func (s *service) sendReviewInvitation(completion *data.TourCompletion) {
	traveler, err := s.repo.GetUserByID(completion.TravelerID)
	if err != nil {
		s.logger.PrintError(err, map[string]string{"booking_id": completion.BookingID})
		return
	}
	guide, err := s.repo.GetUserByID(completion.GuideID)
	if err != nil {
		s.logger.PrintError(err, map[string]string{"booking_id": completion.BookingID})
		return
	}
	payload := map[string]string{
		"travelerName": strings.Split(traveler.Name, " ")[0],
		"guideName":    guide.Name,
		"bookingID":    completion.BookingID,
		"tourID":       completion.TourID,
	}
	mailer := mailer.New(s.config.SMTP.Host, s.config.SMTP.Port, s.config.SMTP.Username, s.config.SMTP.Password, s.config.SMTP.Sender)
	err = mailer.Send(traveler.Email, "review_invitation.tmpl", payload)
	if err != nil {
		s.logger.PrintError(err, map[string]string{"booking_id": completion.BookingID})
		return
	}
	err = s.repo.MarkReviewSent(completion.BookingID)
	if err != nil {
		s.logger.PrintError(err, map[string]string{"booking_id": completion.BookingID})
	}
}

// CanReview service reports whether a user may currently leave a review for
// a booking. It is side-effect-free and safe to call repeatedly; an unknown
// booking is simply not reviewable.
func (s *service) CanReview(bookingID string, raterID int64) (bool, error) {
	completion, err := s.repo.GetCompletion(bookingID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return false, nil
		default:
			return false, err
		}
	}
	return completion.CanReview(raterID), nil
}
