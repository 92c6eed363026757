package handler

import (
	"errors"
	"net/http"

	"github.com/chiedu/wayfarer/data/dto"
	"github.com/chiedu/wayfarer/service"
)

// registerUser godoc
// @Summary Register user
// @Description Register a new traveler or guide account
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.RegisterUserRequestBody true "Request body"
// @Success 202 {object} data.User
// @Failure 400 {string} string "Bad request"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Router /users [post]
func (h *Handler) registerUser(w http.ResponseWriter, r *http.Request) {
	var body dto.RegisterUserRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.service.RegisterUser(body.Name, body.Email, body.Password, body.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusAccepted, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// activateUser godoc
// @Summary Activate user
// @Description Activate a newly registered account with an activation token
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.ActivateUserRequestBody true "Request body"
// @Success 200 {object} data.User
// @Failure 400 {string} string "Bad request"
// @Failure 409 {string} string "Edit conflict"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Router /users/activated [put]
func (h *Handler) activateUser(w http.ResponseWriter, r *http.Request) {
	var body dto.ActivateUserRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	user, err := h.service.ActivateUser(body.Token)
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
	err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// resetUserPassword godoc
// @Summary Reset user password
// @Description Reset an account's password with a valid password reset token
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.ResetUserPasswordRequestBody true "Request body"
// @Success 200 {string} string "your password was successfully reset"
// @Failure 400 {string} string "Bad request"
// @Failure 409 {string} string "Edit conflict"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Router /users/password [put]
func (h *Handler) resetUserPassword(w http.ResponseWriter, r *http.Request) {
	var body dto.ResetUserPasswordRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	err = h.service.ResetUserPassword(body.Password, body.Token)
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
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "your password was successfully reset"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// showCurrentUser godoc
// @Summary Show current user
// @Description Show the authenticated user's own account
// @Tags users
// @Produce json
// @Success 200 {object} data.User
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /users/me [get]
func (h *Handler) showCurrentUser(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	err := h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
