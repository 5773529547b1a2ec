package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docparser/internal/handler"
	"docparser/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	logger *zap.Logger,
	corsOrigins []string,
	parseH *handler.ParseHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/health", healthH.Health)
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Unversioned aliases kept for existing clients
	r.POST("/parse", parseH.Parse)
	r.POST("/upload-and-parse", parseH.UploadAndParse)

	v1 := r.Group("/api/v1")
	v1.POST("/parse", parseH.Parse)
	v1.POST("/upload-and-parse", parseH.UploadAndParse)

	parses := v1.Group("/parses")
	parses.GET("", parseH.List)
	parses.GET("/:id", parseH.GetByID)
	parses.GET("/:id/export", parseH.ExportCSV)

	return r
}
