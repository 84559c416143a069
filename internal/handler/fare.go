package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dispatch/internal/service"
)

// FareHandler handles HTTP requests for fare estimates.
type FareHandler struct {
	fare *service.FareService
}

// NewFareHandler creates a new FareHandler.
func NewFareHandler(fare *service.FareService) *FareHandler {
	return &FareHandler{fare: fare}
}

// EstimateRequest is the HTTP request body for a fare estimate.
type EstimateRequest struct {
	PickupLocation string `json:"pickup_location"`
	DropLocation   string `json:"drop_location"`
}

// EstimateResponse is the HTTP response for a fare estimate.
type EstimateResponse struct {
	Fare    int64 `json:"fare"`
	Binding bool  `json:"binding"` // whether this quote will be honored at booking
}

// Estimate handles POST /v1/fares/estimate
//
// The estimate is advisory with no side effects. Unless quotes are
// configured as binding, booking re-estimates and may yield a different
// fare.
func (h *FareHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	fare, err := h.fare.Estimate(req.PickupLocation, req.DropLocation)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, EstimateResponse{
		Fare:    fare,
		Binding: h.fare.HonorQuotes(),
	})
}
