package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/repository"
	"dispatch/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RideResponse is the HTTP representation of a ride.
type RideResponse struct {
	ID             string `json:"id"`
	RiderID        string `json:"rider_id"`
	DriverID       string `json:"driver_id,omitempty"`
	PickupLocation string `json:"pickup_location"`
	DropLocation   string `json:"drop_location"`
	Status         string `json:"status"`
	Fare           int64  `json:"fare"`
	CreatedAt      string `json:"created_at"`
}

func toRideResponse(r *domain.Ride) RideResponse {
	return RideResponse{
		ID:             r.ID,
		RiderID:        r.RiderID,
		DriverID:       r.DriverID,
		PickupLocation: r.PickupLocation,
		DropLocation:   r.DropLocation,
		Status:         string(r.Status),
		Fare:           r.Fare,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
	}
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUnknownRider),
		errors.Is(err, service.ErrDriverNotFound),
		errors.Is(err, service.ErrRideNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidPhone),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidDriverID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrNotARider),
		errors.Is(err, service.ErrNotADriver):
		return http.StatusBadRequest

	// Conflict errors - stale view or lost race, caller should refresh
	case errors.Is(err, repository.ErrDuplicatePhone),
		errors.Is(err, service.ErrRideNoLongerAvailable),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrRiderHasOpenRide),
		errors.Is(err, service.ErrDriverHasActiveRide):
		return http.StatusConflict

	// Forbidden
	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
