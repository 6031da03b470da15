// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"auth-service/internal/config"
	"auth-service/internal/db"
	"auth-service/internal/domain/auth"
	authHandler "auth-service/internal/handlers/auth"
	roleHandler "auth-service/internal/handlers/role"
	userHandler "auth-service/internal/handlers/user"
	wsHandler "auth-service/internal/handlers/websocket"
	"auth-service/internal/metrics"
	"auth-service/internal/middleware"
	"auth-service/internal/pkg/hash"
	"auth-service/internal/pkg/jwt"
	"auth-service/internal/pkg/response"
	"auth-service/internal/pkg/session"
	"auth-service/internal/repository/memory"
	"auth-service/internal/repository/postgres"
	authUsecase "auth-service/internal/service/auth"
	roleUsecase "auth-service/internal/service/role"
	"auth-service/internal/service/social"
	"auth-service/internal/telemetry"
	"auth-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg         config.AppConfig
	logger      *zap.Logger
	authService *authUsecase.AuthService

	mu         sync.Mutex
	httpServer *http.Server
	cleanup    []func(context.Context) error
}

// repositories groups the persistence ports the services are built over.
type repositories struct {
	users     auth.UserRepository
	roles     auth.RoleRepository
	userRoles auth.UserRoleRepository
	history   auth.HistoryRepository
	socials   auth.SocialRepository
}

func postgresRepositories(pool *pgxpool.Pool) repositories {
	dbWrapper := postgres.NewDB(pool)
	return repositories{
		users:     postgres.NewUserRepository(dbWrapper),
		roles:     postgres.NewRoleRepository(dbWrapper),
		userRoles: postgres.NewUserRoleRepository(dbWrapper),
		history:   postgres.NewHistoryRepository(dbWrapper),
		socials:   postgres.NewSocialRepository(dbWrapper),
	}
}

func memoryRepositories() repositories {
	store := memory.New()
	return repositories{
		users:     store.Users(),
		roles:     store.Roles(),
		userRoles: store.UserRoles(),
		history:   store.History(),
		socials:   store.Socials(),
	}
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start connects the infrastructure, wires the services and serves HTTP
// until Shutdown is called or ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	// ----- Tracing -----
	tp, err := telemetry.NewProvider(ctx, s.cfg.OTLPEndpoint, s.cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	tp.SetGlobal()
	s.onShutdown(tp.Shutdown)

	// ----- Storage -----
	repos, err := s.openRepositories(ctx)
	if err != nil {
		return err
	}

	// ----- Redis -----
	redisClient, err := db.NewRedis(db.RedisConfig{
		Addresses: []string{s.cfg.RedisAddr},
		Password:  s.cfg.RedisPass,
		DB:        s.cfg.RedisDB,
		PoolSize:  s.cfg.RedisPoolSize,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	s.onShutdown(func(context.Context) error { return redisClient.Close() })
	s.logger.Info("connected to redis", zap.String("addr", s.cfg.RedisAddr))

	engine, err := s.buildEngine(ctx, repos, redisClient)
	if err != nil {
		return err
	}

	if err := s.bootstrapSuperuser(ctx); err != nil {
		s.logger.Error("failed to initialize superuser", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("http server listening", zap.String("addr", s.cfg.HTTPAddr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains HTTP connections, then releases infrastructure in reverse order.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	cleanup := s.cleanup
	s.cleanup = nil
	s.mu.Unlock()

	var errs []error
	if srv != nil {
		if err := srv.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	for i := len(cleanup) - 1; i >= 0; i-- {
		if err := cleanup[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Server) onShutdown(fn func(context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanup = append(s.cleanup, fn)
}

func (s *Server) openRepositories(ctx context.Context) (repositories, error) {
	if s.cfg.StorageDriver == config.StorageMemory {
		s.logger.Warn("using in-memory storage, data is lost on restart")
		return memoryRepositories(), nil
	}

	if s.cfg.AutoMigrate {
		if err := db.Migrate(s.cfg.DatabaseURL, db.MigrateUp); err != nil {
			return repositories{}, fmt.Errorf("failed to run migrations: %w", err)
		}
		s.logger.Info("database migrations applied")
	}

	pool, err := db.ConnectDB(ctx, db.PostgresConfig{DSN: s.cfg.DatabaseURL})
	if err != nil {
		return repositories{}, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.onShutdown(func(context.Context) error {
		pool.Close()
		return nil
	})
	s.logger.Info("connected to postgres")

	return postgresRepositories(pool), nil
}

// buildEngine wires every service and handler over the given storage.
// The websocket hub runs until ctx is done.
func (s *Server) buildEngine(ctx context.Context, repos repositories, redisClient redis.UniversalClient) (*gin.Engine, error) {
	// ----- Tokens & Sessions -----
	codec, err := jwt.NewCodec(s.cfg.JWT)
	if err != nil {
		return nil, fmt.Errorf("failed to build token codec: %w", err)
	}
	sessions := session.NewService(codec, session.NewRedisStore(redisClient, codec.SessionTTL()), s.logger)
	rateLimiter := session.NewRateLimiter(redisClient, s.cfg.LoginRateLimit, s.cfg.LoginRateWindow)

	hasher, err := hash.New(s.cfg.PasswordHasher)
	if err != nil {
		return nil, err
	}

	// ----- Social Providers -----
	var providers []social.Provider
	if s.cfg.YandexEnabled() {
		providers = append(providers, social.NewYandex(s.cfg.Yandex))
	}
	registry := social.NewRegistry(providers...)
	s.logger.Info("social providers configured", zap.Strings("providers", registry.Names()))

	// ----- Metrics -----
	promRegistry, m := metrics.NewRegistry()

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(sessions, s.logger, websocket.WithConnectionGauge(m.WSConnections))
	go hub.Run(ctx)

	// ----- Services (Usecases) -----
	authService := authUsecase.NewAuthService(
		sessions,
		repos.users,
		repos.history,
		repos.socials,
		registry,
		hasher,
		hub,
		s.logger,
	)
	s.authService = authService

	roleService := roleUsecase.NewRoleService(repos.roles, s.logger)
	userRoleService := roleUsecase.NewUserRoleService(repos.users, repos.roles, repos.userRoles, s.logger)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:    authHandler.NewAuthHandler(authService, rateLimiter, m, s.logger),
		RoleHandler:    roleHandler.NewRoleHandler(roleService, s.logger),
		UserHandler:    userHandler.NewUserHandler(userRoleService, s.logger),
		WSHandler:      wsHandler.NewWebSocketHandler(hub, s.logger),
		AuthMiddleware: middleware.NewAuthMiddleware(authService),
		Metrics:        m,
		MetricsHandler: metrics.HandlerFor(promRegistry),
		Health:         healthCheck(redisClient),
	}

	if !s.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	SetupRouter(engine, s.logger, handlers)

	return engine, nil
}

func (s *Server) bootstrapSuperuser(ctx context.Context) error {
	if s.cfg.SuperuserEmail == "" {
		return nil
	}
	return s.authService.EnsureSuperuserExists(ctx, &auth.RegisterRequest{
		Username: s.cfg.SuperuserName,
		Email:    s.cfg.SuperuserEmail,
		Password: s.cfg.SuperuserPassword,
	})
}

func healthCheck(redisClient redis.UniversalClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			response.Error(c, http.StatusServiceUnavailable, "session store unavailable", nil)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": "1.0.0"})
	}
}
