package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/fhuszti/testimonials-video-go/internal/migration"
	"github.com/go-sql-driver/mysql"
)

type TestDB struct {
	DB      *sql.DB
	Cleanup func() error
}

// SetupTestDB creates a fresh database next to the one named by TEST_DB_DSN
// and applies every migration to it, so tests never share rows.
func SetupTestDB(ctx context.Context) (*TestDB, error) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("TEST_DB_DSN env-var not set")
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DSN %q: %w", dsn, err)
	}
	cfg.ParseTime = true
	cfg.MultiStatements = true

	dbName := fmt.Sprintf("%s_%d", cfg.DBName, time.Now().UnixNano())
	cfg.DBName = ""
	rootDB, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open root DB: %w", err)
	}
	if _, err := rootDB.ExecContext(ctx, "CREATE DATABASE "+dbName); err != nil {
		_ = rootDB.Close()
		return nil, fmt.Errorf("create database %q: %w", dbName, err)
	}

	dropAll := func() error {
		if _, err := rootDB.Exec("DROP DATABASE " + dbName); err != nil {
			_ = rootDB.Close()
			return fmt.Errorf("drop database %q: %w", dbName, err)
		}
		return rootDB.Close()
	}

	cfg.DBName = dbName
	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		_ = dropAll()
		return nil, fmt.Errorf("open test DB %q: %w", dbName, err)
	}

	if err := migration.MigrateUp(ctx, db); err != nil {
		_ = db.Close()
		_ = dropAll()
		return nil, fmt.Errorf("migrate %q: %w", dbName, err)
	}

	return &TestDB{
		DB: db,
		Cleanup: func() error {
			if err := db.Close(); err != nil {
				return err
			}
			return dropAll()
		},
	}, nil
}
