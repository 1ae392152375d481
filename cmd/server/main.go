package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"supportchat-backend/internal/api"
	"supportchat-backend/internal/config"
	"supportchat-backend/internal/docs"
	"supportchat-backend/internal/handlers"
	"supportchat-backend/internal/services"
	"supportchat-backend/internal/store"
	"supportchat-backend/internal/store/memory"
	"supportchat-backend/internal/store/postgres"
)

func main() {
	log.Println("Starting Support Assistant Backend...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Conversation Store
	var conversationStore store.Store
	if cfg.DatabaseURL != "" {
		dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer dbCancel()

		dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Unable to create database connection pool: %v", err)
		}
		defer dbpool.Close()

		if err := dbpool.Ping(dbCtx); err != nil {
			log.Fatalf("FATAL: Unable to ping database: %v", err)
		}

		pgStore := postgres.NewPostgresStore(dbpool)
		if err := pgStore.EnsureSchema(dbCtx); err != nil {
			log.Fatalf("FATAL: Unable to apply database schema: %v", err)
		}
		conversationStore = pgStore
		log.Println("Postgres store initialized.")
	} else {
		conversationStore = memory.NewMemoryStore()
		log.Println("WARN: DATABASE_URL not set, using in-memory store. Data is lost on restart.")
	}

	// 3. Load Document Corpus (fatal: the resolver is useless without it)
	corpus, err := docs.Load(cfg.DocsPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load document corpus: %v", err)
	}
	log.Printf("Document corpus loaded: %d documents.", len(corpus.Documents()))

	// 4. Initialize Service and Handlers
	chatService := services.NewChatService(conversationStore, corpus, cfg.HistoryLimit)
	chatHandler := handlers.NewChatHandlers(chatService)

	// 5. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		ChatHandler: chatHandler,
		Config:      cfg,
	})
	log.Println("HTTP router configured.")

	// 6. Configure and Start HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting and listening on port %s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: Could not listen on %s: %v", cfg.HTTPPort, err)
		}
	}()

	<-stopChan
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("FATAL: Server graceful shutdown failed: %v", err)
	}

	log.Println("Server shutdown complete.")
}
