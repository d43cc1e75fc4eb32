package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusbuzz/campusbuzz/internal/config"
	"github.com/campusbuzz/campusbuzz/internal/db"
	routes "github.com/campusbuzz/campusbuzz/internal/http"
	"github.com/campusbuzz/campusbuzz/internal/log"
	"github.com/campusbuzz/campusbuzz/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Error.Fatalf("Failed to load config: %v", err)
	}

	// 1. Initialize Database
	database, err := db.Open(cfg.DatabaseURL, db.Options{Debug: cfg.DBDebug})
	if err != nil {
		log.Error.Fatalf("Failed to initialize database: %v", err)
	}

	// 2. Run Migrations
	log.Info.Println("Running database migrations...")
	if err := db.Migrate(database); err != nil {
		log.Error.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info.Println("Migrations complete.")

	// 3. Initialize Gin Router
	router := gin.New()
	gate := session.NewGate(cfg.SessionSecret, cfg.LoginURL)
	if err := routes.SetupRoutes(router, database, gate, routes.Options{CORSOrigin: cfg.CORSOrigin}); err != nil {
		log.Error.Fatalf("Failed to set up routes: %v", err)
	}

	// 4. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info.Printf("Server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error.Fatalf("listen: %s\n", err)
		}
	}()

	<-quit
	log.Info.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error.Fatal("Server forced to shutdown:", err)
	}

	log.Info.Println("Server exiting")
}
