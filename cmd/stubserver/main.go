package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/venue-admin/internal/config"
	"github.com/nekogravitycat/venue-admin/internal/pkg/logger"
	"github.com/nekogravitycat/venue-admin/internal/stub"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.IsProduction)

	secret := cfg.JWTSecret
	if secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	db, err := stub.OpenStore(cfg.StubDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := stub.Seed(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}

	files, err := stub.NewStorage(cfg.StubUploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init upload storage")
	}

	admin, err := stub.NewAdmin(cfg.AdminEmail, "Administrator", cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin account")
	}

	router := stub.NewRouter(stub.Config{
		Store:      files,
		DB:         db,
		Admin:      admin,
		JWT:        stub.NewJWTManager(secret, cfg.JWTAccessTokenTTL),
		PublicBase: "http://localhost" + cfg.StubAddr,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.StubAddr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.StubAddr).Msg("stub backend running")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}
