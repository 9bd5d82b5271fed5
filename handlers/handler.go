package handlers

import (
	booking "saludagenda/services/booking"
	userService "saludagenda/services/user"
)

// Handler groups the endpoint handlers over the injected services.
type Handler struct {
	Booking booking.Service
	Users   userService.Service
}

// NewHandler constructs the handler bundle.
func NewHandler(bookingSvc booking.Service, userSvc userService.Service) *Handler {
	return &Handler{Booking: bookingSvc, Users: userSvc}
}
