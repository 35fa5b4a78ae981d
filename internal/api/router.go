// Package api exposes the z-test simulator as a JSON API over gin.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"zhypo/app"
	"zhypo/internal"
)

// Prefix is the path every API route lives under
const Prefix = "/api/v1"

// NewRouter builds the gin engine serving the JSON API. Routes carry their
// full path so the engine can be mounted under /api by the UI router.
func NewRouter(handler *Handler, ginMode string) *gin.Engine {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		router.Use(gin.Logger())
	}

	v1 := router.Group(Prefix)
	{
		v1.GET("/health", handler.Health)
		v1.POST("/ztest", handler.RunZTest)
		v1.POST("/ztest/observations", handler.RunObservations)

		normal := v1.Group("/normal")
		normal.GET("/pdf", handler.PDF)
		normal.GET("/cdf", handler.CDF)
		normal.GET("/quantile", handler.Quantile)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "code": "NOT_FOUND"})
	})

	return router
}

// Handler serves the API endpoints
type Handler struct {
	service      *app.SimulationService
	defaultAlpha float64
	logger       *internal.Logger
}

// NewHandler creates a new API handler. defaultAlpha is used when a request
// omits the significance level.
func NewHandler(service *app.SimulationService, defaultAlpha float64, logger *internal.Logger) *Handler {
	return &Handler{
		service:      service,
		defaultAlpha: defaultAlpha,
		logger:       logger,
	}
}
