package sqlstore

import (
	"context"
	"log"

	"exoml/internal/errors"
	"exoml/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to postgres or sqlite and runs the migrations
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}

	if driver == "sqlite" {
		// one connection keeps :memory: databases and write locks consistent
		db.SetMaxOpenConns(1)
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}

	log.Printf("[SQLStore] Connected (%s), schema version %s", driver, migrator.Version())
	return db, nil
}
