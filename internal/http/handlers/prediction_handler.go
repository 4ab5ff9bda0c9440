// README: Prediction handlers for the formula and model-backed fare endpoints.
package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"farecast/internal/modules/prediction"
)

type PredictionHandler struct {
	prediction *prediction.Service
}

func NewPredictionHandler(svc *prediction.Service) *PredictionHandler {
	return &PredictionHandler{prediction: svc}
}

// Pointers distinguish a missing field from an explicit zero.
type formulaRequest struct {
	Distance *float64 `json:"distance" binding:"required"`
	Duration *float64 `json:"duration" binding:"required"`
}

type modelRequest struct {
	PickupLatitude   *float64 `json:"pickup_latitude" binding:"required"`
	PickupLongitude  *float64 `json:"pickup_longitude" binding:"required"`
	DropoffLatitude  *float64 `json:"dropoff_latitude" binding:"required"`
	DropoffLongitude *float64 `json:"dropoff_longitude" binding:"required"`
	PickupHour       *float64 `json:"pickup_hour" binding:"required,integral"`
	PickupWeekday    *float64 `json:"pickup_weekday" binding:"required,integral"`
	PassengerCount   *float64 `json:"passenger_count" binding:"required,integral"`
}

type predictionResponse struct {
	PredictedFare float64 `json:"predicted_fare"`
}

func (h *PredictionHandler) Formula(c *gin.Context) {
	var req formulaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}
	fare := h.prediction.EstimateFormula(prediction.Trip{
		Distance: *req.Distance,
		Duration: *req.Duration,
	})
	if math.IsInf(fare, 0) || math.IsNaN(fare) {
		zerolog.Ctx(c.Request.Context()).Error().
			Float64("distance", *req.Distance).
			Float64("duration", *req.Duration).
			Msg("formula fare is not finite")
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, predictionResponse{PredictedFare: fare})
}

func (h *PredictionHandler) Model(c *gin.Context) {
	var req modelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeValidationError(c, err)
		return
	}
	fare, err := h.prediction.Predict(c.Request.Context(), prediction.Features{
		PickupLatitude:   *req.PickupLatitude,
		PickupLongitude:  *req.PickupLongitude,
		DropoffLatitude:  *req.DropoffLatitude,
		DropoffLongitude: *req.DropoffLongitude,
		PickupHour:       int(*req.PickupHour),
		PickupWeekday:    int(*req.PickupWeekday),
		PassengerCount:   int(*req.PassengerCount),
	})
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("model inference failed")
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, predictionResponse{PredictedFare: fare})
}

func writeValidationError(c *gin.Context, err error) {
	writeJSON(c, http.StatusUnprocessableEntity, errorResponse{
		Error:  "validation failed",
		Detail: bindingDetail(err),
	})
}
