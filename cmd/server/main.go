package main

import (
	"aichat-backend/internal/api"
	"aichat-backend/internal/config"
	"aichat-backend/internal/handlers"
	"aichat-backend/internal/llm"
	"aichat-backend/internal/services"
	"aichat-backend/internal/store"
	"aichat-backend/internal/store/memory"
	"aichat-backend/internal/store/postgres"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	log.Println("Starting AIChat Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	// 2. Initialize the Store
	// With a DATABASE_URL we use Postgres; without one, chat history lives in
	// memory for the lifetime of the process.
	var chatStore store.Store
	if cfg.DatabaseURL != "" {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dbCancel()

		dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Unable to create database connection pool: %v\n", err)
		}
		defer dbpool.Close()

		if err := dbpool.Ping(dbCtx); err != nil {
			log.Fatalf("FATAL: Unable to ping database: %v\n", err)
		}
		chatStore = postgres.NewPostgresStore(dbpool)
		log.Println("Postgres store initialized.")
	} else {
		chatStore = memory.NewMemoryStore()
		log.Println("In-memory store initialized (no DATABASE_URL configured).")
	}

	// 3. Initialize the Completion Client
	// A missing or placeholder API key is not fatal; the client degrades to
	// its fixed no-credential reply.
	completer := llm.NewClient(llm.ClientConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.CompletionTimeout,
	})
	log.Println("Completion client initialized.")

	// 4. Initialize Services and Handlers
	chatService := services.NewChatService(chatStore, completer)
	userService := services.NewUserService(chatStore)
	sessionService := services.NewSessionService(chatStore)
	log.Println("Services initialized.")

	routerDeps := api.RouterDependencies{
		ChatHandler:    handlers.NewChatHandlers(chatService),
		UserHandler:    handlers.NewUserHandlers(userService),
		SessionHandler: handlers.NewSessionHandlers(sessionService),
	}
	router := api.NewRouter(routerDeps)
	log.Println("HTTP router configured.")

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second, // the completion call is the slow part of the request path
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v\n", cfg.HTTPPort, err)
		}
		log.Println("Server listener routine stopped.")
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("WARN: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
