package handler

import (
	"errors"
	"net/http"

	"github.com/chiedu/wayfarer/data"
	"github.com/chiedu/wayfarer/data/dto"
	"github.com/chiedu/wayfarer/service"
)

// submitRating godoc
// @Summary Submit a rating
// @Description Create or replace the caller's 1 to 5 star rating for a target
// @Tags ratings
// @Accept json
// @Produce json
// @Param targetId path string true "Target ID"
// @Param body body dto.SubmitRatingRequestBody true "Request body"
// @Success 200 {object} data.RatingStats
// @Failure 401 {string} string "Unauthorized"
// @Failure 409 {string} string "Edit conflict"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /{kind}/{targetId}/rating [post]
func (h *Handler) submitRating(kind data.TargetKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, err := h.readStringParam(r, param)
		if err != nil {
			h.notFoundResponse(w, r)
			return
		}
		var body dto.SubmitRatingRequestBody
		err = h.decodeJSON(w, r, &body)
		if err != nil {
			h.badRequestResponse(w, r, err)
			return
		}
		user := h.contextGetUser(r)
		err = h.service.SubmitRating(kind, targetID, user.ID, body.Score)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrFailedValidation):
				h.failedValidationResponse(w, r, err)
			case errors.Is(err, service.ErrEditConflict):
				h.editConflictResponse(w, r)
			default:
				h.serverErrorResponse(w, r, err)
			}
			return
		}
		stats, err := h.service.GetRatingStats(kind, targetID)
		if err != nil {
			h.serverErrorResponse(w, r, err)
			return
		}
		err = h.encodeJSON(w, http.StatusOK, envelope{"stats": stats}, nil)
		if err != nil {
			h.serverErrorResponse(w, r, err)
		}
	}
}

// removeRating godoc
// @Summary Remove a rating
// @Description Withdraw the caller's rating for a target and shrink the aggregate
// @Tags ratings
// @Produce json
// @Param targetId path string true "Target ID"
// @Success 200 {object} data.RatingStats
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Edit conflict"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /{kind}/{targetId}/rating [delete]
func (h *Handler) removeRating(kind data.TargetKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, err := h.readStringParam(r, param)
		if err != nil {
			h.notFoundResponse(w, r)
			return
		}
		user := h.contextGetUser(r)
		err = h.service.RemoveRating(kind, targetID, user.ID)
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
		stats, err := h.service.GetRatingStats(kind, targetID)
		if err != nil {
			h.serverErrorResponse(w, r, err)
			return
		}
		err = h.encodeJSON(w, http.StatusOK, envelope{"stats": stats}, nil)
		if err != nil {
			h.serverErrorResponse(w, r, err)
		}
	}
}

// showRatingStats godoc
// @Summary Show rating stats
// @Description Show the aggregate rating for a target, plus the caller's own score when authenticated
// @Tags ratings
// @Produce json
// @Param targetId path string true "Target ID"
// @Success 200 {object} data.RatingStats
// @Failure 500 {string} string "Internal server error"
// @Router /{kind}/{targetId}/rating [get]
func (h *Handler) showRatingStats(kind data.TargetKind, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		targetID, err := h.readStringParam(r, param)
		if err != nil {
			h.notFoundResponse(w, r)
			return
		}
		stats, err := h.service.GetRatingStats(kind, targetID)
		if err != nil {
			h.serverErrorResponse(w, r, err)
			return
		}
		env := envelope{"stats": stats}
		user := h.contextGetUser(r)
		if !user.IsAnonymous() {
			userRating, err := h.service.GetUserRating(kind, targetID, user.ID)
			if err != nil {
				h.serverErrorResponse(w, r, err)
				return
			}
			env["user_rating"] = userRating
		}
		err = h.encodeJSON(w, http.StatusOK, env, nil)
		if err != nil {
			h.serverErrorResponse(w, r, err)
		}
	}
}
