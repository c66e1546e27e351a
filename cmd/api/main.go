package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"exoml/adapters/sqlstore"
	"exoml/internal/api"
	"exoml/internal/config"
	"exoml/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	if driver := appConfig.Database.Driver(); driver != "" {
		db, err := sqlstore.Open(ctx, driver, appConfig.Database.DSN())
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		if err := appContainer.InitWithDatabase(db); err != nil {
			log.Fatalf("Failed to initialize repositories: %v", err)
		}
	} else if err := appContainer.InitWithDatabase(nil); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	backend := api.NewBackend(appContainer.Explain, appConfig.Server.CORSOrigins)
	server := &http.Server{
		Addr:              ":" + appConfig.Server.APIPort,
		Handler:           backend,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting explanation API on port %s", appConfig.Server.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := appContainer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Container shutdown: %v", err)
	}
}
