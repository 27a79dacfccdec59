package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gdugdh24/coparent-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/coparent-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/coparent-backend/internal/domain"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/observability"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Profile      *handler.ProfileHandler
	Discover     *handler.DiscoverHandler
	Shortlist    *handler.ShortlistHandler
	Conversation *handler.ConversationHandler
	Topic        *handler.TopicHandler
	Admin        *handler.AdminHandler
}

type RouterConfig struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	Metrics        *observability.Metrics
	// Gatherer backs /metrics; nil skips the endpoint.
	Gatherer prometheus.Gatherer
}

type Router struct {
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	roles          middleware.RoleChecker
	cfg            RouterConfig
}

func NewRouter(handlers Handlers, authMiddleware *middleware.AuthMiddleware, roles middleware.RoleChecker, cfg RouterConfig) *Router {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Router{
		handlers:       handlers,
		authMiddleware: authMiddleware,
		roles:          roles,
		cfg:            cfg,
	}
}

func (r *Router) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origins := r.cfg.AllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(r.cfg.Logger),
		middleware.Metrics(r.cfg.Metrics),
		cors.New(r.corsConfig()),
	)

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	if r.cfg.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	h := r.handlers

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Topic catalog (public)
		v1.GET("/topics", h.Topic.Catalog)

		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			protected.GET("/auth/me", h.Auth.Me)

			profile := protected.Group("/profile")
			{
				profile.POST("", h.Profile.CreateMyProfile)
				profile.GET("/me", h.Profile.GetMyProfile)
				profile.PUT("/me", h.Profile.UpdateMyProfile)
			}
			protected.GET("/profiles/:id", h.Profile.GetProfile)

			protected.GET("/discover", h.Discover.Browse)

			shortlist := protected.Group("/shortlist")
			{
				shortlist.GET("", h.Shortlist.List)
				shortlist.POST("", h.Shortlist.Add)
				shortlist.DELETE("/:candidate_id", h.Shortlist.Remove)
			}

			conversations := protected.Group("/conversations")
			{
				conversations.GET("", h.Conversation.List)
				conversations.POST("", h.Conversation.Start)
				conversations.GET("/:id", h.Conversation.Get)
				conversations.PATCH("/:id/status", h.Conversation.UpdateStatus)
				conversations.GET("/:id/messages", h.Conversation.ListMessages)
				conversations.POST("/:id/messages", h.Conversation.SendMessage)

				conversations.GET("/:id/topics", h.Topic.Checklist)
				conversations.POST("/:id/topics/seed", h.Topic.Seed)
				conversations.PUT("/:id/topics/:topic_id", h.Topic.SetCoverage)
				conversations.GET("/:id/topics/:topic_id/prompts", h.Topic.Prompts)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(r.roles, domain.RoleAdmin))
			{
				admin.GET("/profiles", h.Admin.ListProfiles)
				admin.PATCH("/profiles/:id/visibility", h.Admin.SetVisibility)
			}
		}
	}

	return router
}
