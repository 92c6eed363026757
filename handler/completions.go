package handler

import (
	"errors"
	"net/http"

	"github.com/chiedu/wayfarer/data/dto"
	"github.com/chiedu/wayfarer/service"
)

// createCompletion godoc
// @Summary Record a tour completion
// @Description Record that a booking's service period has ended. Reserved for the booking system.
// @Tags completions
// @Accept json
// @Produce json
// @Param body body dto.CreateCompletionRequestBody true "Request body"
// @Success 201 {object} data.TourCompletion
// @Failure 400 {string} string "Bad request"
// @Failure 401 {string} string "Unauthorized"
// @Failure 409 {string} string "Duplicate booking"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Security BasicAuth
// @Router /completions [post]
func (h *Handler) createCompletion(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateCompletionRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	completion, err := h.service.CreateCompletion(body.BookingID, body.TourID, body.GuideID, body.TravelerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.recordAlreadyExistsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"completion": completion}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showCompletion godoc
// @Summary Show a tour completion
// @Description Show the lifecycle record for a booking
// @Tags completions
// @Produce json
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} data.TourCompletion
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /bookings/{bookingId}/completion [get]
func (h *Handler) showCompletion(w http.ResponseWriter, r *http.Request) {
	bookingID, err := h.readStringParam(r, "bookingId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	completion, err := h.service.GetCompletion(bookingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	// Lifecycle records are visible only to the parties on the booking.
	user := h.contextGetUser(r)
	if user.ID != completion.GuideID && user.ID != completion.TravelerID {
		h.notPermittedResponse(w, r)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"completion": completion}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// confirmDelivery godoc
// @Summary Confirm tour delivery
// @Description Record the guide's attestation that the booked service was delivered
// @Tags completions
// @Accept json
// @Produce json
// @Param bookingId path string true "Booking ID"
// @Param body body dto.ConfirmDeliveryRequestBody true "Request body"
// @Success 200 {object} data.TourCompletion
// @Failure 400 {string} string "Bad request"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Invalid transition"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /bookings/{bookingId}/confirm-delivery [post]
func (h *Handler) confirmDelivery(w http.ResponseWriter, r *http.Request) {
	bookingID, err := h.readStringParam(r, "bookingId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var body dto.ConfirmDeliveryRequestBody
	err = h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	completion, err := h.service.ConfirmDelivery(bookingID, user.ID, body.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		case errors.Is(err, service.ErrInvalidTransition):
			h.invalidTransitionResponse(w, r)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"completion": completion}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showCanReview godoc
// @Summary Check review eligibility
// @Description Report whether the caller may currently review a booking
// @Tags completions
// @Produce json
// @Param bookingId path string true "Booking ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /bookings/{bookingId}/can-review [get]
func (h *Handler) showCanReview(w http.ResponseWriter, r *http.Request) {
	bookingID, err := h.readStringParam(r, "bookingId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	canReview, err := h.service.CanReview(bookingID, user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"can_review": canReview}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
