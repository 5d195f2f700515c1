package router

import (
	"encoding/json"
	"net/http"

	"github.com/fruta004-ux/olens-crm-api/internal/auth"
	"github.com/fruta004-ux/olens-crm-api/internal/config"
	"github.com/fruta004-ux/olens-crm-api/internal/database"
	"github.com/fruta004-ux/olens-crm-api/internal/http/handler"
	"github.com/fruta004-ux/olens-crm-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg                   *config.Config
	logger                *zap.Logger
	db                    *gorm.DB
	authMiddleware        *auth.Middleware
	rateLimiter           *middleware.RateLimiter
	accountHandler        *handler.AccountHandler
	contactHandler        *handler.ContactHandler
	dealHandler           *handler.DealHandler
	quotationHandler      *handler.QuotationHandler
	settingHandler        *handler.SettingHandler
	taskHandler           *handler.TaskHandler
	memoHandler           *handler.MemoHandler
	featureRequestHandler *handler.FeatureRequestHandler
	activityHandler       *handler.ActivityHandler
	notificationHandler   *handler.NotificationHandler
	authHandler           *handler.AuthHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	accountHandler *handler.AccountHandler,
	contactHandler *handler.ContactHandler,
	dealHandler *handler.DealHandler,
	quotationHandler *handler.QuotationHandler,
	settingHandler *handler.SettingHandler,
	taskHandler *handler.TaskHandler,
	memoHandler *handler.MemoHandler,
	featureRequestHandler *handler.FeatureRequestHandler,
	activityHandler *handler.ActivityHandler,
	notificationHandler *handler.NotificationHandler,
	authHandler *handler.AuthHandler,
) *Router {
	return &Router{
		cfg:                   cfg,
		logger:                logger,
		db:                    db,
		authMiddleware:        authMiddleware,
		rateLimiter:           rateLimiter,
		accountHandler:        accountHandler,
		contactHandler:        contactHandler,
		dealHandler:           dealHandler,
		quotationHandler:      quotationHandler,
		settingHandler:        settingHandler,
		taskHandler:           taskHandler,
		memoHandler:           memoHandler,
		featureRequestHandler: featureRequestHandler,
		activityHandler:       activityHandler,
		notificationHandler:   notificationHandler,
		authHandler:           authHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
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
			"stats":   stats,
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
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
		if allHealthy {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": map[bool]string{true: "healthy", false: "unhealthy"}[allHealthy],
			"checks": checks,
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth
			r.Get("/auth/me", rt.authHandler.Me)
			r.Get("/users", rt.authHandler.ListUsers)

			// Accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Get("/", rt.accountHandler.ListAccounts)
				r.Post("/", rt.accountHandler.CreateAccount)
				r.Get("/{id}", rt.accountHandler.GetAccount)
				r.Put("/{id}", rt.accountHandler.UpdateAccount)
				r.Delete("/{id}", rt.accountHandler.DeleteAccount)
				r.Get("/{id}/contacts", rt.accountHandler.GetAccountContacts)
				r.Get("/{id}/deals", rt.accountHandler.GetAccountDeals)
			})

			// Contacts
			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", rt.contactHandler.ListContacts)
				r.Post("/", rt.contactHandler.CreateContact)
				r.Get("/{id}", rt.contactHandler.GetContact)
				r.Put("/{id}", rt.contactHandler.UpdateContact)
				r.Delete("/{id}", rt.contactHandler.DeleteContact)
			})

			// Deals and the pipeline
			r.Route("/deals", func(r chi.Router) {
				r.Get("/", rt.dealHandler.ListDeals)
				r.Post("/", rt.dealHandler.CreateDeal)
				r.Post("/with-account", rt.dealHandler.CreateDealWithAccount)
				r.Get("/pipeline", rt.dealHandler.GetPipeline)
				r.Get("/stats", rt.dealHandler.GetStats)
				r.Get("/export", rt.dealHandler.ExportDeals)
				r.Get("/{id}", rt.dealHandler.GetDeal)
				r.Put("/{id}", rt.dealHandler.UpdateDeal)
				r.Delete("/{id}", rt.dealHandler.DeleteDeal)
				r.Post("/{id}/stage", rt.dealHandler.ChangeStage)
				r.Post("/{id}/close", rt.dealHandler.CloseDeal)
				r.Post("/{id}/recontact", rt.dealHandler.RecontactDeal)
				r.Post("/{id}/reopen", rt.dealHandler.ReopenDeal)
				r.Get("/{id}/history", rt.dealHandler.GetStageHistory)
				r.Get("/{id}/activities", rt.dealHandler.GetDealActivities)
				r.Get("/{id}/quotations", rt.quotationHandler.GetQuotationsByDeal)
				r.Get("/{id}/tasks", rt.taskHandler.GetTasksByDeal)
			})

			// Quotations
			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.ListQuotations)
				r.Post("/", rt.quotationHandler.CreateQuotation)
				r.Get("/{id}", rt.quotationHandler.GetQuotation)
				r.Put("/{id}", rt.quotationHandler.UpdateQuotation)
				r.Delete("/{id}", rt.quotationHandler.DeleteQuotation)
				r.Put("/{id}/status", rt.quotationHandler.UpdateQuotationStatus)
				r.Post("/{id}/document", rt.quotationHandler.RenderDocument)
			})

			// Quotation presets
			r.Route("/quotation-presets", func(r chi.Router) {
				r.Get("/", rt.quotationHandler.ListPresets)
				r.Post("/", rt.quotationHandler.SavePreset)
				r.Delete("/{id}", rt.quotationHandler.DeletePreset)
				r.Post("/{id}/apply", rt.quotationHandler.ApplyPreset)
			})

			// Settings (dropdown list administration)
			r.Route("/settings/{category}", func(r chi.Router) {
				r.Get("/", rt.settingHandler.ListSettings)
				r.Post("/", rt.settingHandler.CreateSetting)
				r.Put("/reorder", rt.settingHandler.ReorderSettings)
				r.Put("/{id}", rt.settingHandler.UpdateSetting)
				r.Delete("/{id}", rt.settingHandler.DeleteSetting)
			})

			// Tasks
			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", rt.taskHandler.ListTasks)
				r.Post("/", rt.taskHandler.CreateTask)
				r.Get("/{id}", rt.taskHandler.GetTask)
				r.Put("/{id}", rt.taskHandler.UpdateTask)
				r.Delete("/{id}", rt.taskHandler.DeleteTask)
			})

			// Memos
			r.Route("/memos", func(r chi.Router) {
				r.Get("/", rt.memoHandler.ListMemos)
				r.Post("/", rt.memoHandler.CreateMemo)
				r.Put("/{id}", rt.memoHandler.UpdateMemo)
				r.Delete("/{id}", rt.memoHandler.DeleteMemo)
			})

			// Feature requests
			r.Route("/feature-requests", func(r chi.Router) {
				r.Get("/", rt.featureRequestHandler.ListFeatureRequests)
				r.Post("/", rt.featureRequestHandler.CreateFeatureRequest)
				r.Get("/{id}", rt.featureRequestHandler.GetFeatureRequest)
				r.Put("/{id}", rt.featureRequestHandler.UpdateFeatureRequest)
				r.Delete("/{id}", rt.featureRequestHandler.DeleteFeatureRequest)
			})

			// Activities
			r.Route("/activities", func(r chi.Router) {
				r.Get("/", rt.activityHandler.ListActivities)
				r.Post("/", rt.activityHandler.CreateActivity)
				r.Get("/recent", rt.activityHandler.GetRecentActivities)
				r.Delete("/{id}", rt.activityHandler.DeleteActivity)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.ListNotifications)
				r.Get("/count", rt.notificationHandler.GetUnreadCount)
				r.Put("/read-all", rt.notificationHandler.MarkAllAsRead)
				r.Put("/{id}/read", rt.notificationHandler.MarkAsRead)
			})
		})
	})

	return r
}
