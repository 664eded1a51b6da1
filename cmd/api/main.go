package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"todo-api/internal/config"
	"todo-api/internal/db"
	apihttp "todo-api/internal/http"
	"todo-api/internal/logger"
	"todo-api/internal/repository"
	"todo-api/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		zlog.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if cfg.DBMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			zlog.Fatal("db migrate", zap.Error(err))
		}
	}

	jwtSvc, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		zlog.Fatal("jwt init", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	todoRepo := repository.NewPgTodoRepository(pool)

	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	authSvc := service.NewAuthService(zlog, userRepo, hasher, jwtSvc, cfg.AccessTTL())
	resolver := service.NewIdentityResolver(zlog, jwtSvc, userRepo)
	todoSvc := service.NewTodoService(zlog, todoRepo)

	healthHandler := apihttp.NewHealthHandler(zlog, func(ctx context.Context) error { return db.Ping(ctx, pool) })
	userHandler := apihttp.NewUserHandler(zlog, authSvc)
	todoHandler := apihttp.NewTodoHandler(zlog, todoSvc)
	router := apihttp.NewRouter(zlog, cfg.AllowedOrigins(), resolver, healthHandler, userHandler, todoHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zlog.Warn("server shutdown", zap.Error(err))
		}
	}()

	zlog.Info("starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("jwt_algorithm", jwtSvc.Algorithm()),
	)

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal("server error", zap.Error(err))
	}
}
