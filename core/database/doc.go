// Package database handles database connections, migrations and persistence of
// states, casinos and offers.
//
// It wraps GORM and configures MySQL, PostgreSQL (pgx) or SQLite connections
// from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, applies pool and timeout settings and
// pings the database. Migrate creates the tables of every model.
//
// # Store
//
// Store implements the reconciliation engine's persistence contract. Candidate
// queries are ordered deterministically (creation_time, then id) and offers are
// never deleted, only deprecated.
//
// # Schema Inspection
//
// GetTableColumns reads live column definitions and CheckSchema reports tables
// or columns the models expect but the database lacks. It backs `migrate --check`.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//	store := database.NewStore(db)
package database
