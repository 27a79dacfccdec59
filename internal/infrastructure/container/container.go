package container

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gdugdh24/coparent-backend/internal/config"
	"github.com/gdugdh24/coparent-backend/internal/delivery/http"
	"github.com/gdugdh24/coparent-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/coparent-backend/internal/delivery/http/middleware"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/cache"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/database"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/gemini"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/logging"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/observability"
	"github.com/gdugdh24/coparent-backend/internal/infrastructure/server"
	"github.com/gdugdh24/coparent-backend/internal/repository"
	"github.com/gdugdh24/coparent-backend/internal/repository/memory"
	"github.com/gdugdh24/coparent-backend/internal/repository/postgres"
	"github.com/gdugdh24/coparent-backend/internal/usecase/admin"
	"github.com/gdugdh24/coparent-backend/internal/usecase/auth"
	"github.com/gdugdh24/coparent-backend/internal/usecase/conversation"
	"github.com/gdugdh24/coparent-backend/internal/usecase/discover"
	"github.com/gdugdh24/coparent-backend/internal/usecase/guide"
	"github.com/gdugdh24/coparent-backend/internal/usecase/profile"
	"github.com/gdugdh24/coparent-backend/internal/usecase/shortlist"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// Repositories is the storage gateway set shared by every use case.
type Repositories struct {
	Profiles      repository.ProfileRepository
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
	Topics        repository.TopicRepository
	Shortlist     repository.ShortlistRepository
	Roles         repository.RoleRepository
}

func NewPostgresRepositories(db *sqlx.DB) Repositories {
	return Repositories{
		Profiles:      postgres.NewProfileRepository(db),
		Conversations: postgres.NewConversationRepository(db),
		Messages:      postgres.NewMessageRepository(db),
		Topics:        postgres.NewTopicRepository(db),
		Shortlist:     postgres.NewShortlistRepository(db),
		Roles:         postgres.NewRoleRepository(db),
	}
}

func NewMemoryRepositories(store *memory.Store) Repositories {
	return Repositories{
		Profiles:      store.Profiles(),
		Conversations: store.Conversations(),
		Messages:      store.Messages(),
		Topics:        store.Topics(),
		Shortlist:     store.Shortlist(),
		Roles:         store.Roles(),
	}
}

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *sqlx.DB
	Redis    *redis.Client
	Gemini   *gemini.GeminiClient
	Registry *prometheus.Registry
	Repos    Repositories
	Tracker  *conversation.Tracker
	Server   *server.Server
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger := logging.New(os.Stdout, cfg.Logging.Level, cfg.IsProduction())
	c := &Container{Config: cfg, Logger: logger}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Metrics
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(c.Registry)

	// Storage
	switch cfg.Storage.Type {
	case config.StorageTypeMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		c.Repos = NewMemoryRepositories(memory.NewStore())
	default:
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		c.DB = db
		c.Repos = NewPostgresRepositories(db)
	}

	// Discover cache; the interface stays nil when redis is off
	var profileCache discover.Cache
	if cfg.Redis.Enabled {
		redisClient, err := database.NewRedisClient(ctx, &cfg.Redis)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		c.Redis = redisClient
		profileCache = cache.NewProfileCache(redisClient, "coparent:")
	}

	// Prompt generator
	var generator guide.PromptGenerator
	if cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			// Don't fail, just continue with the built-in prompts
			logger.Warn("gemini client unavailable", slog.Any("error", err))
		} else {
			c.Gemini = geminiClient
			generator = geminiClient
		}
	}

	// Use cases
	c.Tracker = conversation.NewTracker(
		c.Repos.Conversations,
		c.Repos.Messages,
		c.Repos.Topics,
		c.Repos.Profiles,
		logger,
		conversation.WithRecorder(metrics),
	)
	discoverUseCase := discover.NewDiscoverUseCase(c.Repos.Profiles, profileCache, cfg.Discover.CacheTTL, metrics, logger)
	profileUseCase := profile.NewProfileUseCase(c.Repos.Profiles, profile.WithInvalidator(discoverUseCase))
	shortlistUseCase := shortlist.NewShortlistUseCase(c.Repos.Shortlist, c.Repos.Profiles, metrics)
	adminUseCase := admin.NewAdminUseCase(c.Repos.Profiles, c.Repos.Roles, admin.WithInvalidator(discoverUseCase))
	guideUseCase := guide.NewGuideUseCase(c.Tracker, generator, logger)
	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)

	// Handlers
	handlers := http.Handlers{
		Auth:         handler.NewAuthHandler(profileUseCase, adminUseCase),
		Profile:      handler.NewProfileHandler(profileUseCase),
		Discover:     handler.NewDiscoverHandler(discoverUseCase),
		Shortlist:    handler.NewShortlistHandler(shortlistUseCase),
		Conversation: handler.NewConversationHandler(c.Tracker),
		Topic:        handler.NewTopicHandler(c.Tracker, guideUseCase),
		Admin:        handler.NewAdminHandler(adminUseCase),
	}

	router := http.NewRouter(handlers, middleware.NewAuthMiddleware(verifier), adminUseCase, http.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
		Metrics:        metrics,
		Gatherer:       c.Registry,
	})

	c.Server = server.NewServer(&cfg.Server, router.Setup(), logger)

	return c, nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.Gemini != nil {
		if err := c.Gemini.Close(); err != nil {
			c.Logger.Error("error closing gemini client", slog.Any("error", err))
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Error("error closing redis", slog.Any("error", err))
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}

	return nil
}
