package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/chiedu/wayfarer/service"
)

// logError logs error messages.
func (h *Handler) logError(r *http.Request, err error) {
	h.logger.PrintError(err, map[string]string{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
	})
}

// errorResponse sends JSON-formatted error messages to client with a given status code.
func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := envelope{"error": message}
	err := h.encodeJSON(w, status, env, nil)
	if err != nil {
		h.logError(r, err)
		w.WriteHeader(500)
	}
}

// serverErrorResponse sends 500 Internal Server Error status code and JSON response to the client.
func (h *Handler) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.logError(r, err)
	message := "the server encountered a problem and could not process your request"
	h.errorResponse(w, r, http.StatusInternalServerError, message)
}

// notFoundResponse sends 404 Not Found status code and JSON response to the client.
func (h *Handler) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	h.errorResponse(w, r, http.StatusNotFound, message)
}

// methodNotAllowedResponse sends 405 Method Not Allowed status code and JSON response to the client.
func (h *Handler) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	h.errorResponse(w, r, http.StatusMethodNotAllowed, message)
}

// badRequestResponse sends 400 Bad Request status code and JSON response to the client.
func (h *Handler) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

// failedValidationResponse sends 422 Unprocessable Entity status code and JSON
// response to the client. The validation failures are carried in the error message,
// keyed by field.
func (h *Handler) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	message := strings.TrimPrefix(err.Error(), service.ErrFailedValidation.Error()+": ")
	h.errorResponse(w, r, http.StatusUnprocessableEntity, message)
}

// editConflictResponse sends 409 Conflict status code and JSON response to the client.
func (h *Handler) editConflictResponse(w http.ResponseWriter, r *http.Request) {
	message := "unable to update the record due to an edit conflict, please try again"
	h.errorResponse(w, r, http.StatusConflict, message)
}

// recordAlreadyExistsResponse sends 409 Conflict status code and JSON response to the client.
func (h *Handler) recordAlreadyExistsResponse(w http.ResponseWriter, r *http.Request) {
	message := "a record for this booking already exists"
	h.errorResponse(w, r, http.StatusConflict, message)
}

// invalidTransitionResponse sends 409 Conflict status code and JSON response to the client.
func (h *Handler) invalidTransitionResponse(w http.ResponseWriter, r *http.Request) {
	message := "this tour completion is not in a state that allows the requested change"
	h.errorResponse(w, r, http.StatusConflict, message)
}

// alreadyReviewedResponse sends 409 Conflict status code and JSON response to the client.
func (h *Handler) alreadyReviewedResponse(w http.ResponseWriter, r *http.Request) {
	message := "a review has already been submitted for this booking"
	h.errorResponse(w, r, http.StatusConflict, message)
}

// notEligibleResponse sends 403 Forbidden status code and JSON response to the client.
func (h *Handler) notEligibleResponse(w http.ResponseWriter, r *http.Request) {
	message := "you are not eligible to review this booking until the guide confirms the tour was delivered"
	h.errorResponse(w, r, http.StatusForbidden, message)
}

// incompleteRatingResponse sends 422 Unprocessable Entity status code and JSON response to the client.
func (h *Handler) incompleteRatingResponse(w http.ResponseWriter, r *http.Request, err error) {
	h.errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

// rateLimitExceededResponse sends 429 Too Many Requests status code and JSON response to the client.
func (h *Handler) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	message := "rate limit exceeded"
	h.errorResponse(w, r, http.StatusTooManyRequests, message)
}

// invalidCredentialsResponse sends 401 Unauthorized status code and JSON response to the client.
func (h *Handler) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	message := "invalid authentication credentials"
	h.errorResponse(w, r, http.StatusUnauthorized, message)
}

// invalidAuthenticationTokenResponse sends 401 Unauthorized status code and JSON response to the client.
func (h *Handler) invalidAuthenticationTokenResponse(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	message := "invalid or missing authentication token"
	h.errorResponse(w, r, http.StatusUnauthorized, message)
}

// authenticationRequiredResponse sends 401 Unauthorized status code and JSON response to the client.
func (h *Handler) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	message := "you must be authenticated to access this resource"
	h.errorResponse(w, r, http.StatusUnauthorized, message)
}

// inactiveAccountResponse sends 403 Forbidden status code and JSON response to the client.
func (h *Handler) inactiveAccountResponse(w http.ResponseWriter, r *http.Request) {
	message := "your user account must be activated to access this resource"
	h.errorResponse(w, r, http.StatusForbidden, message)
}

// notPermittedResponse sends 403 Forbidden status code and JSON response to the client.
func (h *Handler) notPermittedResponse(w http.ResponseWriter, r *http.Request) {
	message := "your user account doesn't have the necessary permissions to access this resource"
	h.errorResponse(w, r, http.StatusForbidden, message)
}
