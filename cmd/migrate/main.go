package main

import (
	"context"
	"log"
	"os"
	"strings"

	"exoml/adapters/sqlstore"
	"exoml/internal/config"
)

// migrate creates the candidate tables ahead of the first viewer start
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate <database_url>")
	}

	dbConfig := config.DatabaseConfig{URL: strings.TrimSpace(os.Args[1])}
	driver := dbConfig.Driver()
	if driver == "" {
		log.Fatal("database URL cannot be empty")
	}

	log.Printf("Applying schema with the %s driver", driver)
	db, err := sqlstore.Open(context.Background(), driver, dbConfig.DSN())
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	defer db.Close()

	log.Println("Migration complete")
}
