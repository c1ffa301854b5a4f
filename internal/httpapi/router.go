package httpapi

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"finetune_admin/internal/auth"
	"finetune_admin/internal/config"
	"finetune_admin/internal/finetune"
	"finetune_admin/internal/middleware"
	"finetune_admin/internal/providers"
	"finetune_admin/internal/registry"
	"finetune_admin/internal/storage"
	"finetune_admin/internal/utils"
)

// Dependencies aggregates all services the HTTP layer needs.
type Dependencies struct {
	Registry *registry.Registry
	Provider providers.FineTuner
	Service  *finetune.Service
	Jobs     *storage.JobRepository
	Redis    *redis.Client
}

// Close releases held connections. Safe to call with partially wired deps.
func (d *Dependencies) Close() {
	if d.Provider != nil {
		d.Provider.Close()
	}
	if d.Jobs != nil {
		d.Jobs.Close()
	}
	if d.Redis != nil {
		d.Redis.Close()
	}
}

// NewRouter creates an HTTP router with all dependencies wired up
func NewRouter(cfg *config.Config) (*http.ServeMux, *Dependencies, error) {
	logger := utils.NewLogger("httpapi", utils.Info)

	// Model registry over the JSON file store. An unreadable file degrades
	// to the builtin defaults.
	store := storage.NewFileStore(cfg.Registry.ModelsFile)
	reg := registry.New(registry.Builtins(), store, logger)
	if err := reg.Load(); err != nil {
		logger.Warn("model store unreadable, serving builtins only", "error", err)
	}

	// Fine-tuning provider
	provider, err := providers.NewOpenAIClient(providers.OpenAIConfig{
		APIKey:  cfg.Provider.APIKey,
		BaseURL: cfg.Provider.BaseURL,
		Timeout: cfg.Provider.RequestTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize provider: %w", err)
	}

	// Optional job history in Postgres
	var jobs *storage.JobRepository
	if cfg.Database.URL != "" {
		jobs, err = storage.NewJobRepository(cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize job history: %w", err)
		}
	}

	// Optional Redis-backed job status cache
	var redisClient *redis.Client
	var cache *finetune.JobCache
	if cfg.Redis.Address != "" {
		redisClient, err = storage.NewRedisClient(storage.RedisConfig{
			Address:      cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		cache = finetune.NewJobCache(redisClient, cfg.Redis.JobCacheTTL)
	}

	service := finetune.NewService(finetune.ServiceConfig{
		Provider:   provider,
		Registry:   reg,
		Jobs:       jobs,
		Cache:      cache,
		OutputPath: cfg.Training.OutputFile,
		Logger:     utils.NewLogger("finetune", utils.Info),
	})

	deps := &Dependencies{
		Registry: reg,
		Provider: provider,
		Service:  service,
		Jobs:     jobs,
		Redis:    redisClient,
	}

	mux := http.NewServeMux()
	registerRoutes(mux, deps, cfg)

	return mux, deps, nil
}

func registerRoutes(mux *http.ServeMux, deps *Dependencies, cfg *config.Config) {
	// Health check endpoint - public
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Admin authentication - public (no middleware)
	adminAuthHandler := NewAdminAuthHandler(cfg)
	mux.HandleFunc("/admin/auth/login", adminAuthHandler.Login)

	// Admin management endpoints - protected with AdminJWTMiddleware.
	// Mutating surfaces require the "admin" role; reads allow "viewer".
	adminMiddleware := middleware.AdminJWTMiddleware(cfg, auth.RoleAdmin.String())
	viewerMiddleware := middleware.AdminJWTMiddleware(cfg, auth.RoleViewer.String())

	modelsHandler := NewAdminModelsHandler(deps.Registry)
	mux.Handle("/admin/models", adminMiddleware(http.HandlerFunc(modelsHandler.Collection)))
	mux.Handle("/admin/models/", adminMiddleware(http.HandlerFunc(modelsHandler.Item)))

	trainingHandler := NewAdminTrainingHandler(deps.Service, cfg.Training.MaxUploadSize)
	mux.Handle("/admin/training/senders", adminMiddleware(http.HandlerFunc(trainingHandler.Senders)))
	mux.Handle("/admin/training/build", adminMiddleware(http.HandlerFunc(trainingHandler.Build)))

	finetuneHandler := NewAdminFineTuneHandler(deps.Service, deps.Jobs)
	mux.Handle("/admin/finetune/jobs", adminMiddleware(http.HandlerFunc(finetuneHandler.Jobs)))
	mux.Handle("/admin/finetune/jobs/", viewerMiddleware(http.HandlerFunc(finetuneHandler.Job)))

	mux.Handle("/admin/test/completions", adminMiddleware(AdminCompletionsHandler(deps.Service, deps.Registry)))

	// End-user surface - public models only, no auth
	mux.HandleFunc("/public/models", PublicModelsHandler(deps.Registry))
	mux.HandleFunc("/public/rewrite", PublicCompletionsHandler(deps.Service, deps.Registry, ModeRewrite))
	mux.HandleFunc("/public/modify", PublicCompletionsHandler(deps.Service, deps.Registry, ModeModify))
	mux.HandleFunc("/public/reply", PublicCompletionsHandler(deps.Service, deps.Registry, ModeReply))
}
