package handler

import (
	"expvar"
	"net/http"

	"github.com/chiedu/wayfarer/data"
	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowedResponse)

	// Star ratings for tours and editorial content. Reads are public, the
	// caller's own score rides along when authenticated.
	router.HandlerFunc(http.MethodGet, "/v1/tours/:tourId/rating", h.showRatingStats(data.TargetTour, "tourId"))
	router.HandlerFunc(http.MethodPost, "/v1/tours/:tourId/rating", h.requireActivatedUser(h.submitRating(data.TargetTour, "tourId")))
	router.HandlerFunc(http.MethodDelete, "/v1/tours/:tourId/rating", h.requireActivatedUser(h.removeRating(data.TargetTour, "tourId")))
	router.HandlerFunc(http.MethodGet, "/v1/content/:contentId/rating", h.showRatingStats(data.TargetContent, "contentId"))
	router.HandlerFunc(http.MethodPost, "/v1/content/:contentId/rating", h.requireActivatedUser(h.submitRating(data.TargetContent, "contentId")))
	router.HandlerFunc(http.MethodDelete, "/v1/content/:contentId/rating", h.requireActivatedUser(h.removeRating(data.TargetContent, "contentId")))

	// Approved reviews for a tour.
	router.HandlerFunc(http.MethodGet, "/v1/tours/:tourId/reviews", h.listTourReviews)
	router.HandlerFunc(http.MethodGet, "/v1/tours/:tourId/reviews/recent", h.showRecentTourReviews)

	router.HandlerFunc(http.MethodGet, "/v1/reviews/:reviewId", h.showReview)
	router.HandlerFunc(http.MethodPatch, "/v1/reviews/:reviewId", h.requireReviewOwnerPermission(h.updateReview))
	router.HandlerFunc(http.MethodDelete, "/v1/reviews/:reviewId", h.requireReviewOwnerPermission(h.deleteReview))
	router.HandlerFunc(http.MethodPut, "/v1/reviews/:reviewId/moderation", h.basicAuth(h.moderateReview))

	router.HandlerFunc(http.MethodGet, "/v1/guides/:guideId/reviews/stats", h.showGuideReviewStats)

	// Completion lifecycle. Creation is reserved for the booking system.
	router.HandlerFunc(http.MethodPost, "/v1/completions", h.basicAuth(h.createCompletion))
	router.HandlerFunc(http.MethodGet, "/v1/bookings/:bookingId/completion", h.requireActivatedUser(h.showCompletion))
	router.HandlerFunc(http.MethodPost, "/v1/bookings/:bookingId/confirm-delivery", h.requireActivatedUser(h.confirmDelivery))
	router.HandlerFunc(http.MethodGet, "/v1/bookings/:bookingId/can-review", h.requireActivatedUser(h.showCanReview))
	router.HandlerFunc(http.MethodPost, "/v1/bookings/:bookingId/review", h.requireActivatedUser(h.createReview))

	router.HandlerFunc(http.MethodPost, "/v1/users", h.registerUser)
	router.HandlerFunc(http.MethodPut, "/v1/users/activated", h.activateUser)
	router.HandlerFunc(http.MethodPut, "/v1/users/password", h.resetUserPassword)
	router.HandlerFunc(http.MethodGet, "/v1/users/me", h.requireAuthenticatedUser(h.showCurrentUser))

	router.HandlerFunc(http.MethodPost, "/v1/tokens/activation", h.createActivationToken)
	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", h.createAuthenticationToken)
	router.HandlerFunc(http.MethodDelete, "/v1/tokens/authentication", h.requireAuthenticatedUser(h.deleteAuthenticationToken))
	router.HandlerFunc(http.MethodPost, "/v1/tokens/password-reset", h.createPasswordResetToken)

	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))
	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheck)

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	chain := h.recoverPanic(h.enableCORS(h.rateLimit(h.authenticate(router))))
	if h.config.Metrics.Enabled {
		chain = h.metrics(chain)
	}
	return chain
}
