package dto

// CreateCompletionRequestBody defines a request body for CreateCompletion
// service. It is posted by the external booking system when a booking's
// service period ends.
type CreateCompletionRequestBody struct {
	BookingID  string `json:"booking_id"`
	TourID     string `json:"tour_id"`
	GuideID    int64  `json:"guide_id"`
	TravelerID int64  `json:"traveler_id"`
}

// ConfirmDeliveryRequestBody defines a request body for ConfirmDelivery service.
type ConfirmDeliveryRequestBody struct {
	Notes string `json:"notes"`
}
