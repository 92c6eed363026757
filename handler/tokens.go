package handler

import (
	"errors"
	"net/http"

	"github.com/chiedu/wayfarer/data/dto"
	"github.com/chiedu/wayfarer/service"
)

// createActivationToken godoc
// @Summary Create activation token
// @Description Send a fresh activation token to a not yet activated account
// @Tags tokens
// @Accept json
// @Produce json
// @Param body body dto.CreateActivationTokenRequestBody true "Request body"
// @Success 202 {string} string "an email will be sent to you containing activation instructions"
// @Failure 400 {string} string "Bad request"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Router /tokens/activation [post]
func (h *Handler) createActivationToken(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateActivationTokenRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	err = h.service.CreateActivationToken(body.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	env := envelope{"message": "an email will be sent to you containing activation instructions"}
	err = h.encodeJSON(w, http.StatusAccepted, env, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// createAuthenticationToken godoc
// @Summary Create authentication token
// @Description Exchange email and password credentials for a bearer token
// @Tags tokens
// @Accept json
// @Produce json
// @Param body body dto.CreateAuthenticationTokenRequestBody true "Request body"
// @Success 201 {object} data.Token
// @Failure 400 {string} string "Bad request"
// @Failure 401 {string} string "Invalid credentials"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Router /tokens/authentication [post]
func (h *Handler) createAuthenticationToken(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateAuthenticationTokenRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	token, err := h.service.CreateAuthenticationToken(body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrInvalidCredentials):
			h.invalidCredentialsResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"authentication_token": token}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// createPasswordResetToken godoc
// @Summary Create password reset token
// @Description Send a password reset token to an activated account
// @Tags tokens
// @Accept json
// @Produce json
// @Param body body dto.CreatePasswordResetTokenRequestBody true "Request body"
// @Success 202 {string} string "an email will be sent to you containing password reset instructions"
// @Failure 400 {string} string "Bad request"
// @Failure 422 {string} string "Unprocessable entity"
// @Failure 500 {string} string "Internal server error"
// @Router /tokens/password-reset [post]
func (h *Handler) createPasswordResetToken(w http.ResponseWriter, r *http.Request) {
	var body dto.CreatePasswordResetTokenRequestBody
	err := h.decodeJSON(w, r, &body)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	err = h.service.CreatePasswordResetToken(body.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	env := envelope{"message": "an email will be sent to you containing password reset instructions"}
	err = h.encodeJSON(w, http.StatusAccepted, env, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// deleteAuthenticationToken godoc
// @Summary Delete authentication tokens
// @Description Log the caller out by deleting all of their authentication tokens
// @Tags tokens
// @Produce json
// @Success 200 {string} string "tokens successfully deleted"
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {string} string "Internal server error"
// @Security Bearer
// @Router /tokens/authentication [delete]
func (h *Handler) deleteAuthenticationToken(w http.ResponseWriter, r *http.Request) {
	user := h.contextGetUser(r)
	err := h.service.DeleteAuthenticationToken(user.ID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "tokens successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
