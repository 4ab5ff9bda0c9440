// README: Pricing handlers for rule-based estimates, settlements and helpers.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"farecast/internal/modules/pricing"
	"farecast/internal/types"
)

const (
	codeInvalidCoordinates = "invalid_coordinates"
	codeInvalidInput       = "invalid_input"
	codeServerError        = "server_error"
)

type PricingHandler struct {
	pricing *pricing.Service
}

func NewPricingHandler(svc *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: svc}
}

type pointReq struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

func (p pointReq) point() types.Point {
	return types.Point{Lat: *p.Lat, Lng: *p.Lng}
}

type estimateReq struct {
	Pickup          pointReq  `json:"pickup"`
	Dropoff         pointReq  `json:"dropoff"`
	RideType        string    `json:"ride_type"`
	RequestTime     time.Time `json:"request_time"`
	DistanceMiles   float64   `json:"distance_miles"`
	DurationMinutes float64   `json:"duration_minutes"`
}

type actualReq struct {
	Pickup        pointReq  `json:"pickup"`
	Dropoff       pointReq  `json:"dropoff"`
	RideType      string    `json:"ride_type"`
	PickupTime    time.Time `json:"pickup_time" binding:"required"`
	DropoffTime   time.Time `json:"dropoff_time" binding:"required"`
	DistanceMiles float64   `json:"distance_miles"`
}

type surgeQuery struct {
	Lat  *float64  `form:"lat" json:"lat" binding:"required"`
	Lng  *float64  `form:"lng" json:"lng" binding:"required"`
	Time time.Time `form:"time" json:"time"`
}

type distanceReq struct {
	Pickup  pointReq `json:"pickup"`
	Dropoff pointReq `json:"dropoff"`
}

type timeReq struct {
	DistanceMiles *float64 `json:"distance_miles" binding:"required"`
	TimeOfDay     string   `json:"time_of_day"`
}

type breakdownResp struct {
	Base          float64 `json:"base"`
	Time          float64 `json:"time"`
	Distance      float64 `json:"distance"`
	BookingFee    float64 `json:"booking_fee"`
	Surge         float64 `json:"surge"`
	DistanceMiles float64 `json:"distance_miles"`
	Minutes       float64 `json:"minutes"`
}

type estimateResp struct {
	Fare      float64       `json:"fare"`
	Currency  string        `json:"currency"`
	Breakdown breakdownResp `json:"breakdown"`
}

type actualResp struct {
	estimateResp
	Taxes        float64 `json:"taxes"`
	DriverPayout float64 `json:"driver_payout"`
	PlatformFee  float64 `json:"platform_fee"`
}

func newBreakdownResp(b pricing.Breakdown) breakdownResp {
	return breakdownResp{
		Base:          b.BaseAmount.Float(),
		Time:          b.TimeAmount.Float(),
		Distance:      b.DistanceAmount.Float(),
		BookingFee:    b.BookingFee.Float(),
		Surge:         b.Surge,
		DistanceMiles: b.DistanceMiles,
		Minutes:       b.Minutes,
	}
}

func (h *PricingHandler) Estimate(c *gin.Context) {
	var req estimateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInputError(c, err)
		return
	}
	est, err := h.pricing.Estimate(c.Request.Context(), pricing.EstimateRequest{
		Pickup:          req.Pickup.point(),
		Dropoff:         req.Dropoff.point(),
		RequestTime:     req.RequestTime,
		RideType:        req.RideType,
		DistanceMiles:   req.DistanceMiles,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, estimateResp{
		Fare:      est.Fare.Float(),
		Currency:  est.Fare.Currency,
		Breakdown: newBreakdownResp(est.Breakdown),
	})
}

func (h *PricingHandler) Actual(c *gin.Context) {
	var req actualReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInputError(c, err)
		return
	}
	fare, err := h.pricing.Actual(c.Request.Context(), pricing.ActualRequest{
		Pickup:        req.Pickup.point(),
		Dropoff:       req.Dropoff.point(),
		PickupTime:    req.PickupTime,
		DropoffTime:   req.DropoffTime,
		RideType:      req.RideType,
		DistanceMiles: req.DistanceMiles,
	})
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, actualResp{
		estimateResp: estimateResp{
			Fare:      fare.Fare.Float(),
			Currency:  fare.Fare.Currency,
			Breakdown: newBreakdownResp(fare.Breakdown),
		},
		Taxes:        fare.Taxes.Float(),
		DriverPayout: fare.DriverPayout.Float(),
		PlatformFee:  fare.PlatformFee.Float(),
	})
}

func (h *PricingHandler) Surge(c *gin.Context) {
	var q surgeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeInputError(c, err)
		return
	}
	m, err := h.pricing.Surge(c.Request.Context(), types.Point{Lat: *q.Lat, Lng: *q.Lng}, q.Time)
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"surge": m})
}

func (h *PricingHandler) Distance(c *gin.Context) {
	var req distanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInputError(c, err)
		return
	}
	miles, err := h.pricing.Distance(req.Pickup.point(), req.Dropoff.point())
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"distance_miles": miles})
}

func (h *PricingHandler) Time(c *gin.Context) {
	var req timeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInputError(c, err)
		return
	}
	minutes, err := h.pricing.TravelTime(*req.DistanceMiles, req.TimeOfDay)
	if err != nil {
		writePricingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"minutes": minutes})
}

func writeInputError(c *gin.Context, err error) {
	writeJSON(c, http.StatusBadRequest, errorResponse{
		Error:   codeInvalidInput,
		Message: "invalid request",
		Detail:  bindingDetail(err),
	})
}

func writePricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidCoordinates):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: codeInvalidCoordinates, Message: err.Error()})
	case errors.Is(err, pricing.ErrInvalidTimeRange),
		errors.Is(err, pricing.ErrInvalidDistance),
		errors.Is(err, pricing.ErrInvalidDuration),
		errors.Is(err, pricing.ErrInvalidTimeOfDay):
		writeJSON(c, http.StatusBadRequest, errorResponse{Error: codeInvalidInput, Message: err.Error()})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("pricing request failed")
		writeJSON(c, http.StatusInternalServerError, errorResponse{Error: codeServerError, Message: "internal error"})
	}
}
