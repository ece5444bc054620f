package router

import (
	"github.com/gin-gonic/gin"

	"billscan/internal/config"
	"billscan/internal/handler"
	"billscan/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	billH *handler.BillHandler,
	analyticsH *handler.AnalyticsHandler,
	exportH *handler.ExportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Bill record lifecycle
	bills := v1.Group("/bills")
	bills.POST("", billH.Ingest)
	bills.GET("", billH.List)
	bills.GET("/:id", billH.GetByID)
	bills.GET("/:id/raw", billH.GetRawTextURL)
	bills.POST("/:id/reextract", billH.Reextract)
	bills.PATCH("/:id/fields/:field", billH.Correct)
	bills.DELETE("/:id", billH.Delete)

	// Queries and reports
	an := v1.Group("/analytics")
	an.GET("/search", analyticsH.Search)
	an.GET("/summary", analyticsH.Summary)
	an.GET("/vendors", analyticsH.TopVendors)
	an.GET("/categories", analyticsH.CategoryBreakdown)
	an.GET("/trend", analyticsH.Trend)
	an.GET("/overview", analyticsH.Overview)

	// Exports
	ex := v1.Group("/export")
	ex.GET("/csv", exportH.CSV)
	ex.GET("/xlsx", exportH.XLSX)

	return r
}
