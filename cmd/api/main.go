package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillahandlers "github.com/gorilla/handlers"

	"github.com/sendit-chat/server/internal/channel"
	"github.com/sendit-chat/server/internal/chat"
	"github.com/sendit-chat/server/internal/config"
	"github.com/sendit-chat/server/internal/data"
	"github.com/sendit-chat/server/internal/db"
	"github.com/sendit-chat/server/internal/logging"
	"github.com/sendit-chat/server/internal/middleware"
	"github.com/sendit-chat/server/internal/presence"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx := context.Background()

	// Initialize database
	dbClient, err := db.New(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to DB")
	}
	defer func() {
		_ = dbClient.Close(ctx)
	}()

	// Ensure indexes exist
	if err := dbClient.CreateIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}
	logger.Info().Str("db", cfg.DBName).Msg("connected to MongoDB")

	// Stores, event channel, and the services coordinating the two
	usersStore := data.NewUsersStore(dbClient.UsersCollection())
	msgsStore := data.NewMessagesStore(dbClient.MessagesCollection())

	bus := channel.New(logger.With().Str("component", "channel").Logger())
	tracker := presence.NewTracker(usersStore, bus, logger.With().Str("component", "presence").Logger())
	msgLog := chat.NewLog(msgsStore, bus, logger.With().Str("component", "chat").Logger())

	// Rate limiter for the write endpoints (small burst for quick retries)
	limiter := middleware.NewLimiterStore(cfg.RateLimitRPM, 5, time.Minute)
	defer limiter.Stop()

	srv := newServer(tracker, msgLog, bus, dbClient, cfg.FrontendURL, logger)

	// CORS mirrors the original frontend contract: one allowed origin.
	cors := gorillahandlers.CORS(
		gorillahandlers.AllowedOrigins([]string{cfg.FrontendURL}),
		gorillahandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete}),
		gorillahandlers.AllowedHeaders([]string{"Content-Type"}),
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      cors(srv.routes(limiter)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exit")
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info().Int("subscribers", bus.Count()).Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
}
