package handler

import (
	"errors"
	"net/http"

	"github.com/chiedu/wayfarer/data/dto"
	"github.com/chiedu/wayfarer/internal/validator"
	"github.com/chiedu/wayfarer/service"
)

// createReview godoc
// @Summary Create a review
// @Description Submit a category-scored review for a confirmed booking
// @Tags reviews
// @Accept json
// @Produce json
// @Param bookingId path string true "Booking ID"
// @Param body body dto.CreateReviewRequestBody true "Request body"
// @Success 201 {object} data.Review
// @Failure 400 {string} string "Bad request"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Not eligible"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Already reviewed"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /bookings/{bookingId}/review [post]
func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	bookingID, err := h.readStringParam(r, "bookingId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var body dto.CreateReviewRequestBody
	err = h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user := h.contextGetUser(r)
	review, err := h.service.CreateReview(bookingID, user.ID, body.OverallScore, body.Title, body.Body, body.CategoryScores, body.WouldRecommend)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIncompleteRating):
			h.incompleteRatingResponse(w, r, err)
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrAlreadyReviewed):
			h.alreadyReviewedResponse(w, r)
		case errors.Is(err, service.ErrNotEligible):
			h.notEligibleResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"review": review}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showReview godoc
// @Summary Show a review
// @Description Show the details of a specific review
// @Tags reviews
// @Produce json
// @Param reviewId path int true "Review ID"
// @Success 200 {object} data.Review
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal server error"
// @Router /reviews/{reviewId} [get]
func (h *Handler) showReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	review, err := h.service.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// updateReview godoc
// @Summary Update a review
// @Description Update the score, title or body of the caller's own review
// @Tags reviews
// @Accept json
// @Produce json
// @Param reviewId path int true "Review ID"
// @Param body body dto.UpdateReviewRequestBody true "Request body"
// @Success 200 {object} data.Review
// @Failure 400 {string} string "Bad request"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Edit conflict"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /reviews/{reviewId} [patch]
func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var body dto.UpdateReviewRequestBody
	err = h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	review, err := h.service.UpdateReview(reviewID, body.OverallScore, body.Title, body.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// deleteReview godoc
// @Summary Delete a review
// @Description Delete the caller's own review. The booking stays reviewed.
// @Tags reviews
// @Produce json
// @Param reviewId path int true "Review ID"
// @Success 200 {string} string "review successfully deleted"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /reviews/{reviewId} [delete]
func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "review successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// moderateReview godoc
// @Summary Moderate a review
// @Description Apply a moderation decision from the trusted moderation tool
// @Tags reviews
// @Accept json
// @Produce json
// @Param reviewId path int true "Review ID"
// @Param body body dto.ModerateReviewRequestBody true "Request body"
// @Success 200 {object} data.Review
// @Failure 400 {string} string "Bad request"
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Security BasicAuth
// @Router /reviews/{reviewId}/moderation [put]
func (h *Handler) moderateReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var body dto.ModerateReviewRequestBody
	err = h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	review, err := h.service.ModerateReview(reviewID, body.Visibility, body.Verified)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showGuideReviewStats godoc
// @Summary Show guide review stats
// @Description Show summary statistics over a guide's approved reviews
// @Tags reviews
// @Produce json
// @Param guideId path int true "Guide ID"
// @Success 200 {object} data.ReviewStats
// @Failure 500 {string} string "Internal server error"
// @Router /guides/{guideId}/reviews/stats [get]
func (h *Handler) showGuideReviewStats(w http.ResponseWriter, r *http.Request) {
	guideID, err := h.readIDParam(r, "guideId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	stats, err := h.service.GetGuideReviewStats(guideID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"stats": stats}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showRecentTourReviews godoc
// @Summary Show recent tour reviews
// @Description Show a tour's most recent approved reviews, newest first
// @Tags reviews
// @Produce json
// @Param tourId path string true "Tour ID"
// @Param limit query int false "Maximum number of reviews"
// @Success 200 {array} data.Review
// @Failure 500 {string} string "Internal server error"
// @Router /tours/{tourId}/reviews/recent [get]
func (h *Handler) showRecentTourReviews(w http.ResponseWriter, r *http.Request) {
	tourID, err := h.readStringParam(r, "tourId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	v := validator.New()
	limit := h.readInt(r.URL.Query(), "limit", 10, v)
	if !v.Valid() {
		h.failedValidationResponse(w, r, validationError(v))
		return
	}
	reviews, err := h.service.GetTourReviews(tourID, limit)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"reviews": reviews}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// listTourReviews godoc
// @Summary List tour reviews
// @Description Show a paginated list of a tour's approved reviews
// @Tags reviews
// @Produce json
// @Param tourId path string true "Tour ID"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param sort query string false "Sort field"
// @Success 200 {array} data.Review
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Router /tours/{tourId}/reviews [get]
func (h *Handler) listTourReviews(w http.ResponseWriter, r *http.Request) {
	tourID, err := h.readStringParam(r, "tourId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var qs dto.QsListReviews
	v := validator.New()
	query := r.URL.Query()
	qs.Filters.Page = h.readInt(query, "page", 1, v)
	qs.Filters.PageSize = h.readInt(query, "page_size", 20, v)
	qs.Filters.Sort = h.readString(query, "sort", "-created_at")
	qs.Filters.SortSafeList = []string{"created_at", "overall_score", "-created_at", "-overall_score"}
	if !v.Valid() {
		h.failedValidationResponse(w, r, validationError(v))
		return
	}
	reviews, metadata, err := h.service.ListTourReviews(tourID, qs.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"reviews": reviews, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
