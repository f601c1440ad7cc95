package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/studentflow/studentflow-backend/internal/config"
	"github.com/studentflow/studentflow-backend/internal/handler"
	"github.com/studentflow/studentflow-backend/internal/middleware"
	"github.com/studentflow/studentflow-backend/internal/response"
)

// multipartOverhead is allowed on top of MaxUploadBytes for form boundaries
// and part headers.
const multipartOverhead = 64 << 10

// studentBodyLimit caps JSON bodies sent to the student endpoints.
const studentBodyLimit = 64 << 10

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Student  *handler.StudentHandler
	Transfer *handler.TransferHandler
	Report   *handler.ReportHandler
	Setting  *handler.SettingHandler
	System   *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// A nil limiter disables rate limiting.
func SetupRouter(handlers *Handlers, cfg *config.Config, limiter *middleware.RateLimiter) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// XLSX is already a zip archive.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:          middleware.DefaultBrotliConfig.Quality,
		MinLength:        middleware.DefaultBrotliConfig.MinLength,
		ExcludedPrefixes: []string{"/api/v1/export/xlsx"},
	}))

	api := router.Group("/api/v1")
	api.Use(middleware.NoStore())
	if limiter != nil {
		api.Use(limiter.Middleware())
	}

	api.GET("/health", handlers.System.Health)

	// ─── Students ──────────────────────────────────────────────────────
	students := api.Group("/students")
	students.Use(middleware.BodyLimit(studentBodyLimit))
	{
		students.GET("", handlers.Student.ListStudents)
		students.POST("", handlers.Student.CreateStudent)
		students.DELETE("", handlers.Transfer.ClearStudents)
		students.GET("/branches", handlers.Student.ListBranches)
		students.GET("/:id", handlers.Student.GetStudent)
		students.PUT("/:id", handlers.Student.UpdateStudent)
		students.PATCH("/:id", handlers.Student.PatchStudent)
		students.DELETE("/:id", handlers.Student.DeleteStudent)
	}

	// ─── Reports ───────────────────────────────────────────────────────
	api.GET("/reports/statistics", handlers.Report.GetStatistics)

	// ─── Import / Export ───────────────────────────────────────────────
	api.GET("/export/:format", handlers.Transfer.Export)
	api.GET("/backup", handlers.Transfer.Backup)
	api.GET("/backup/info", handlers.Transfer.BackupInfo)

	uploads := api.Group("")
	uploads.Use(middleware.BodyLimit(cfg.MaxUploadBytes + multipartOverhead))
	{
		uploads.POST("/import", handlers.Transfer.Import)
		uploads.POST("/restore", handlers.Transfer.Restore)
	}

	// ─── Settings ──────────────────────────────────────────────────────
	settings := api.Group("/settings")
	{
		settings.GET("/theme", handlers.Setting.GetTheme)
		settings.PUT("/theme", handlers.Setting.UpdateTheme)
	}

	return router
}
