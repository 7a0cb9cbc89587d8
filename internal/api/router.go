// Package api assembles the HTTP surface of the planner.
package api

import (
	"net/http"
	"time"

	"ev-charge-planner/internal/api/handlers"
	"ev-charge-planner/internal/api/middleware"
	"ev-charge-planner/internal/config"
	"ev-charge-planner/internal/data"
	"ev-charge-planner/internal/logger"
	"ev-charge-planner/internal/metrics"
	"ev-charge-planner/internal/planner"
	"ev-charge-planner/internal/theme"

	"github.com/NYTimes/gziphandler"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the components the router serves.
type Deps struct {
	Config  *config.Config
	Source  data.Source
	Planner *planner.Planner
	Theme   *theme.Store
	Metrics metrics.Recorder
	// Gatherer backs GET /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
	Log      logger.Logger
	Clock    func() time.Time
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = logger.NopLogger{}
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}

	router := gin.New()
	router.Use(middleware.Logger(d.Log))
	router.Use(middleware.ErrorHandler(d.Log))

	simulateHandler := handlers.NewSimulateHandler(d.Source, d.Config, d.Metrics, d.Clock)
	sessionHandler := handlers.NewSessionHandler(d.Planner, d.Clock)
	themeHandler := handlers.NewThemeHandler(d.Theme)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"market_data": d.Planner.State().Status,
		})
	})
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulateHandler.Simulate)
		api.GET("/prices", sessionHandler.GetPrices)

		api.GET("/session", sessionHandler.GetSession)
		api.PUT("/session/inputs", sessionHandler.UpdateInputs)
		api.POST("/session/threshold", sessionHandler.SelectThreshold)
		api.POST("/session/refresh", sessionHandler.Refresh)

		api.GET("/theme", themeHandler.GetTheme)
		api.PUT("/theme", themeHandler.SetTheme)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}

// NewHandler is NewRouter wrapped with gzip compression and CORS for the
// configured origins.
func NewHandler(d Deps) http.Handler {
	return middleware.CORS(d.Config.Server.AllowedOrigins, gziphandler.GzipHandler(NewRouter(d)))
}
