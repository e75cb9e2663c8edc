package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/image-watermark/internal/http/handlers"
	"github.com/phambaophuc/image-watermark/internal/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	handler *handlers.WatermarkHandler
	logger  *zap.Logger
}

func NewRouter(
	handler *handlers.WatermarkHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger(r.logger))
	router.Use(middleware.ErrorHandler(r.logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.SecurityHeaders())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", r.handler.HealthCheck)

		watermark := v1.Group("/watermark")
		{
			watermark.POST("", r.handler.Watermark)
			watermark.POST("/export", r.handler.Export)
		}

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", r.handler.SubmitJobs)
			jobs.GET("/stats", r.handler.QueueStats)
			jobs.GET("/:id", r.handler.GetJob)
		}

		presets := v1.Group("/presets")
		{
			presets.GET("", r.handler.ListPresets)
			presets.GET("/:name", r.handler.GetPreset)
			presets.PUT("/:name", r.handler.SavePreset)
			presets.DELETE("/:name", r.handler.DeletePreset)
		}

		v1.GET("/images/*key", r.handler.GetImage)
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Image watermarking is running",
		})
	})

	return router
}
