package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dispatch/internal/domain"
	"dispatch/internal/service"
)

// DispatchHandler serves the polling read endpoints.
//
// Clients call these on a fixed interval; the endpoints are idempotent
// reads and an absent active ride is data (200 with null), not an error.
type DispatchHandler struct {
	dispatch *service.DispatchService
}

// NewDispatchHandler creates a new DispatchHandler.
func NewDispatchHandler(dispatch *service.DispatchService) *DispatchHandler {
	return &DispatchHandler{dispatch: dispatch}
}

// AvailableRides handles GET /v1/rides/available
func (h *DispatchHandler) AvailableRides(c *gin.Context) {
	rides, err := h.dispatch.AvailableRides(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r))
	}
	c.JSON(http.StatusOK, response)
}

// ActiveRideForRider handles GET /v1/riders/:id/active-ride
func (h *DispatchHandler) ActiveRideForRider(c *gin.Context) {
	ride, err := h.dispatch.ActiveRideForRider(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondActiveRide(c, ride)
}

// ActiveRideForDriver handles GET /v1/drivers/:id/active-ride
func (h *DispatchHandler) ActiveRideForDriver(c *gin.Context) {
	ride, err := h.dispatch.ActiveRideForDriver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondActiveRide(c, ride)
}

func respondActiveRide(c *gin.Context, ride *domain.Ride) {
	if ride == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, toRideResponse(ride))
}
