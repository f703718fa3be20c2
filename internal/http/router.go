package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/vedantnaik09/ey-bpo/internal/config"
	"github.com/vedantnaik09/ey-bpo/internal/db"
	"github.com/vedantnaik09/ey-bpo/internal/events"
	"github.com/vedantnaik09/ey-bpo/internal/http/handlers"
	"github.com/vedantnaik09/ey-bpo/internal/http/middleware"
	"github.com/vedantnaik09/ey-bpo/internal/service"

	_ "github.com/vedantnaik09/ey-bpo/docs"
)

func Router(cfg config.Config, store *db.Store, triage *service.TriageService, producer *events.Producer, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Triage:    triage,
		Events:    producer,
		Validator: validator.New(),
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.POST("/complaints", h.SubmitComplaint)
		api.GET("/complaints", h.ComplaintsList)
		api.GET("/complaints/:id", h.ComplaintDetails)
		api.GET("/callbacks/:date", h.CallbacksByDate)
		api.GET("/dashboard/metrics", h.DashboardMetrics)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/complaints/:id/toggle", h.ToggleStatus)
		admin.POST("/complaints/:id/flag", h.FlagStatus)
		admin.POST("/complaints/schedule", h.RescheduleCallback)
		admin.POST("/complaints/schedule-all", h.ScheduleAllPending)
		admin.GET("/export", h.ExportComplaints)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
