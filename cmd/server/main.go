package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"employeePortal/internal/config"
	"employeePortal/internal/db"
	grpcserver "employeePortal/internal/grpc"
	"employeePortal/internal/httpapi"
	"employeePortal/internal/logger"
	"employeePortal/internal/portal"
	"employeePortal/internal/session"
	"employeePortal/repository"
	"employeePortal/service"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	log := logger.New("employee-portal", cfg.Log.Level, os.Stdout)
	log.Info("configuration loaded", "config", cfg.String())

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Error("close db", "error", err)
		}
	}()

	store := repository.NewStore(d)
	if err := store.Init(ctx); err != nil {
		return err
	}
	holder, err := session.Open(ctx, store)
	if err != nil {
		return err
	}
	p := portal.New(service.New(store, log), holder, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, log)

	shutdownGRPC, err := grpcserver.StartGRPC(cfg, p, log)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           httpapi.NewRouter(p, cfg.Auth.JWTSecret, cfg.HTTP.CORSOrigins, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	httpErr := make(chan error, 1)
	go func() {
		log.Info("http listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErr <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigc:
		log.Info("shutting down", "signal", sig.String())
	case err = <-httpErr:
		log.Error("http serve", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
	if err := shutdownGRPC(shutdownCtx); err != nil {
		log.Error("grpc shutdown", "error", err)
	}
	return err
}
