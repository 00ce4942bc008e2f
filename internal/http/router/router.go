package router

import (
	"encoding/json"
	"net/http"

	"github.com/flowcrm/pipeline-api/internal/config"
	"github.com/flowcrm/pipeline-api/internal/database"
	"github.com/flowcrm/pipeline-api/internal/http/handler"
	"github.com/flowcrm/pipeline-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	rateLimiter         *middleware.RateLimiter
	contactHandler      *handler.ContactHandler
	dealHandler         *handler.DealHandler
	activityHandler     *handler.ActivityHandler
	settingsHandler     *handler.SettingsHandler
	exportHandler       *handler.ExportHandler
	notificationHandler *handler.NotificationHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	rateLimiter *middleware.RateLimiter,
	contactHandler *handler.ContactHandler,
	dealHandler *handler.DealHandler,
	activityHandler *handler.ActivityHandler,
	settingsHandler *handler.SettingsHandler,
	exportHandler *handler.ExportHandler,
	notificationHandler *handler.NotificationHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		rateLimiter:         rateLimiter,
		contactHandler:      contactHandler,
		dealHandler:         dealHandler,
		activityHandler:     activityHandler,
		settingsHandler:     settingsHandler,
		exportHandler:       exportHandler,
		notificationHandler: notificationHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(middleware.Session)
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
			},
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		overall := "healthy"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": overall,
			"checks": checks,
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Contacts
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", rt.contactHandler.List)
			r.Post("/", rt.contactHandler.Create)
			r.Get("/tags", rt.contactHandler.Tags)
			r.Get("/stats", rt.contactHandler.Stats)
			r.Get("/{id}", rt.contactHandler.Get)
			r.Put("/{id}", rt.contactHandler.Update)
			r.Delete("/{id}", rt.contactHandler.Delete)
			r.Get("/{id}/activities", rt.contactHandler.Activities)
		})

		// Deals
		r.Route("/deals", func(r chi.Router) {
			r.Get("/", rt.dealHandler.List)
			r.Post("/", rt.dealHandler.Create)
			r.Get("/pipeline", rt.dealHandler.Pipeline)
			r.Get("/stats", rt.dealHandler.Stats)
			r.Get("/{id}", rt.dealHandler.Get)
			r.Put("/{id}", rt.dealHandler.Update)
			r.Patch("/{id}/stage", rt.dealHandler.MoveStage)
			r.Delete("/{id}", rt.dealHandler.Delete)
		})

		// Activities
		r.Route("/activities", func(r chi.Router) {
			r.Get("/", rt.activityHandler.List)
			r.Post("/", rt.activityHandler.Create)
			r.Get("/counts", rt.activityHandler.Counts)
			r.Get("/{id}", rt.activityHandler.Get)
			r.Put("/{id}", rt.activityHandler.Update)
			r.Post("/{id}/toggle", rt.activityHandler.Toggle)
			r.Delete("/{id}", rt.activityHandler.Delete)
		})

		// Settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/preferences", rt.settingsHandler.GetPreferences)
			r.Put("/preferences", rt.settingsHandler.UpdatePreferences)
			r.Get("/stages", rt.settingsHandler.ListStages)
			r.Post("/stages", rt.settingsHandler.AddStage)
			r.Put("/stages/{name}", rt.settingsHandler.RenameStage)
			r.Delete("/stages/{name}", rt.settingsHandler.RemoveStage)
		})

		// Export
		r.Get("/export", rt.exportHandler.Download)

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", rt.notificationHandler.List)
			r.Put("/{id}/read", rt.notificationHandler.MarkRead)
		})
	})

	return r
}
