// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"farecast/internal/http/handlers"
	"farecast/internal/http/middleware"
	"farecast/internal/modules/prediction"
	"farecast/internal/modules/pricing"
)

type RouterDeps struct {
	Prediction *prediction.Service
	Pricing    *pricing.Service
	Logger     *zerolog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(deps.Logger), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	predictionHandler := handlers.NewPredictionHandler(deps.Prediction)
	r.POST("/predict", predictionHandler.Model)
	r.POST("/v1/predict", predictionHandler.Formula)
	r.POST("/v2/predict", predictionHandler.Model)

	pricingHandler := handlers.NewPricingHandler(deps.Pricing)
	pricingGroup := r.Group("/api/v1/pricing")
	pricingGroup.POST("/estimate", pricingHandler.Estimate)
	pricingGroup.POST("/actual", pricingHandler.Actual)
	pricingGroup.GET("/surge", pricingHandler.Surge)
	pricingGroup.POST("/distance", pricingHandler.Distance)
	pricingGroup.POST("/time", pricingHandler.Time)

	return r
}
