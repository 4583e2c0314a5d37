package db

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// PoolConfig describes the MariaDB pool shared by every binary.
type PoolConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// MultiStatements is only needed to apply migrations.
	MultiStatements bool
}

// dsn always enables parseTime: created_at and updated_at are scanned into
// time.Time.
func (c PoolConfig) dsn() (string, error) {
	parsed, err := mysql.ParseDSN(c.DSN)
	if err != nil {
		return "", fmt.Errorf("invalid MariaDB DSN: %w", err)
	}
	parsed.ParseTime = true
	if c.MultiStatements {
		parsed.MultiStatements = true
	}
	return parsed.FormatDSN(), nil
}
