package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"word-wolf/internal/config"
	"word-wolf/internal/db"
	"word-wolf/internal/logger"
	"word-wolf/internal/server"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	addr := cfg.BindAddr
	if len(os.Args) > 1 && os.Args[1] != "" {
		addr = os.Args[1]
	}

	conn := openArchive(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(ctx, conn, cfg)
	srv.Start(ctx)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("http shutdown incomplete")
		}
	}()

	log.Info().Str("addr", addr).Msg("word-wolf server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

// openArchive connects to Postgres when DATABASE_URL is set. Without it the
// server runs purely in memory.
func openArchive(cfg config.Config) *gorm.DB {
	if os.Getenv("DATABASE_URL") == "" {
		log.Info().Msg("DATABASE_URL not set; game archive disabled")
		return nil
	}
	conn, err := db.Open()
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := db.ConfigurePool(conn, cfg.DBMaxOpenConns, cfg.DBMaxIdleConns, time.Duration(cfg.DBConnMaxLifetimeSeconds)*time.Second); err != nil {
		log.Fatal().Err(err).Msg("database pool setup failed")
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}
	return conn
}
