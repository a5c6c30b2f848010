package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tierlist-restful/config"
	"tierlist-restful/controllers"
	"tierlist-restful/database"
	grpcserver "tierlist-restful/grpc_server"
	"tierlist-restful/registry"
	"tierlist-restful/repositories"
	"tierlist-restful/services"
	"tierlist-restful/storage"
)

const dbHealthInterval = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	defer logger.Sync() // Make sure the buffer is flushed before the program exits

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func newLogger(level string) *zap.Logger {
	if level == "debug" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	zapConfig := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		zapConfig.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := zapConfig.Build()
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	images, err := storage.NewImageStore(cfg.Uploads.Dir, cfg.Uploads.SniffContent, logger)
	if err != nil {
		return err
	}

	store := repositories.NewStore(db)
	container := controllers.NewContainer(controllers.Services{
		Users:      services.NewUserService(store, logger),
		Tierlists:  services.NewTierlistService(store, logger),
		Categories: services.NewCategoryService(store, logger),
		Elements:   services.NewElementService(store, images, logger),
		Images:     services.NewImageService(images, logger),
	}, controllers.ContainerOptions{
		MaxBodyBytes:   cfg.Uploads.MaxBodyBytes,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           container,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var grpcSrv *grpcserver.Server
	if cfg.GRPCPort > 0 {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
		if err != nil {
			return fmt.Errorf("failed to listen for gRPC: %w", err)
		}
		grpcSrv = grpcserver.NewServer(cfg.ServiceName, logger)
		go grpcSrv.MonitorDatabase(ctx, func(ctx context.Context) error { return database.Ping(ctx, db) }, dbHealthInterval)
		go func() {
			if err := grpcSrv.Serve(lis); err != nil {
				errCh <- fmt.Errorf("grpc server: %w", err)
			}
		}()
	}

	deregister := registerService(cfg, logger)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case runErr = <-errCh:
		logger.Error("Server failed, shutting down", zap.Error(runErr))
	}

	deregister()
	if grpcSrv != nil {
		grpcSrv.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("http shutdown: %w", err))
	}
	logger.Info("Server exited")
	return runErr
}

// registerService announces the instance to Consul when enabled. A missing
// agent is logged and otherwise ignored. The returned func deregisters.
func registerService(cfg config.Config, logger *zap.Logger) func() {
	if !cfg.Consul.Enabled {
		return func() {}
	}
	sugar := logger.Sugar()
	reg, err := registry.NewConsulRegistry(cfg.Consul.Address, sugar)
	if err != nil {
		sugar.Warnw("Continuing without service registration", "error", err)
		return func() {}
	}

	host := cfg.Consul.ServiceHost
	if host == "" {
		if host, err = os.Hostname(); err != nil {
			host = "localhost"
		}
	}
	registration := registry.NewRegistration(registry.Instance{
		Name:     cfg.ServiceName,
		Host:     host,
		HTTPPort: cfg.HTTPPort,
		GRPCPort: cfg.GRPCPort,
	})
	if err := reg.Register(registration); err != nil {
		return func() {}
	}
	return func() { _ = reg.Deregister(registration.ID) }
}
