package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/velox/url-shortener/internal/config"
	"github.com/velox/url-shortener/internal/handler"
	"github.com/velox/url-shortener/internal/middleware"
	"github.com/velox/url-shortener/internal/proto"
	"github.com/velox/url-shortener/internal/service"
	"github.com/velox/url-shortener/internal/storage"
	"github.com/velox/url-shortener/internal/storage/file"
	"github.com/velox/url-shortener/internal/storage/memory"
	"github.com/velox/url-shortener/internal/storage/postgres"
	redisstore "github.com/velox/url-shortener/internal/storage/redis"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	store      storage.Store
	handler    http.Handler
	grpcServer *grpc.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}

	urlService := service.NewURLService(store, cfg.BaseURL)

	httpHandler := handler.NewHandler(urlService)

	a := &App{
		config:  cfg,
		store:   store,
		handler: httpHandler.RegisterRoutes(),
	}

	if cfg.GRPCAddress != "" {
		a.grpcServer = grpc.NewServer(grpc.UnaryInterceptor(middleware.UnaryLogger))
		proto.RegisterShortenerServer(a.grpcServer, handler.NewShortenerGRPCServer(urlService))
		healthpb.RegisterHealthServer(a.grpcServer, handler.NewHealthServer(urlService))
	}

	return a, nil
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreRedis:
		return redisstore.NewStorage(redisstore.Options{
			URL:         cfg.RedisURL,
			PoolSize:    cfg.RedisMaxActive,
			MaxIdle:     cfg.RedisMaxIdle,
			IdleTimeout: 5 * time.Minute,
			DialTimeout: cfg.RedisConnectTimeout,
		})
	case config.StorePostgres:
		return postgres.NewStorage(context.Background(), cfg.DatabaseDSN, cfg.DatabaseMaxConns)
	case config.StoreFile:
		return file.NewStorage(cfg.FileStoragePath)
	case config.StoreMemory:
		return memory.NewStorage(), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

// Run serves HTTP, and gRPC when configured, until ctx is cancelled or a
// server fails. The store is closed before Run returns.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	httpServer := &http.Server{
		Addr:    a.config.ServerAddress,
		Handler: a.handler,
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info().
			Str("address", a.config.ServerAddress).
			Str("base_url", a.config.BaseURL).
			Str("store", a.config.Store).
			Msg("Starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if a.grpcServer != nil {
		lis, err := net.Listen("tcp", a.config.GRPCAddress)
		if err != nil {
			httpServer.Close()
			return fmt.Errorf("listen grpc: %w", err)
		}
		go func() {
			log.Info().Str("address", a.config.GRPCAddress).Msg("Starting gRPC server")
			if err := a.grpcServer.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("shutdown http server: %w", err)
	}
	if a.grpcServer != nil {
		a.grpcServer.GracefulStop()
	}

	return runErr
}
