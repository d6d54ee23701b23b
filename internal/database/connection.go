package database

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var (
	dbMu sync.RWMutex
	db   *sqlx.DB
)

// Connect opens a connection for the configured driver, applies pool
// settings, verifies it with a ping and stores it as the package singleton.
// Driver and DSN come from the DB_* environment contract (DB_DRIVER, DB_DSN
// or the per-driver variables consumed by BuildDSN).
func Connect() (*sqlx.DB, error) {
	driver := GetDBDriver()
	dsn := BuildDSN(driver)

	conn, err := sqlx.Open(driverName(driver), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	ApplyPoolConfig(conn, DefaultPoolConfig())

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	SetDB(conn)
	return conn, nil
}

// driverName maps our driver aliases onto registered sql driver names.
func driverName(driver string) string {
	switch driver {
	case "sqlite", "sqlite3":
		return "sqlite3"
	case "mariadb":
		return "mysql"
	default:
		return driver
	}
}

// BuildDSN composes a connection string for the given driver. DB_DSN, when
// set, overrides everything.
func BuildDSN(driver string) string {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		return dsn
	}

	switch driver {
	case "postgres":
		host := envDefault("DB_HOST", "localhost")
		port := envDefault("DB_PORT", "5432")
		user := envDefault("DB_USER", "amendtrack")
		pass := os.Getenv("DB_PASSWORD")
		name := envDefault("DB_NAME", "amendtrack")
		ssl := envDefault("DB_SSLMODE", "disable")
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, pass, name, ssl)
	case "mysql", "mariadb":
		host := envDefault("DB_HOST", "localhost")
		port := envDefault("DB_PORT", "3306")
		user := envDefault("DB_USER", "amendtrack")
		pass := os.Getenv("DB_PASSWORD")
		name := envDefault("DB_NAME", "amendtrack")
		// parseTime is required so DATETIME columns scan into time.Time.
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=UTC", user, pass, host, port, name)
	default:
		path := envDefault("DB_PATH", "amendtrack.db")
		// _foreign_keys turns on FK enforcement per connection; the link and
		// progress cascades depend on it.
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetDB returns the database connection singleton.
func GetDB() (*sqlx.DB, error) {
	dbMu.RLock()
	defer dbMu.RUnlock()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	return db, nil
}

// SetDB stores the connection singleton. Tests use this to inject sqlmock
// connections; Connect uses it for real ones.
func SetDB(conn *sqlx.DB) {
	dbMu.Lock()
	defer dbMu.Unlock()
	db = conn
}

// Close closes and clears the singleton. Safe to call when nothing is open.
func Close() error {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// WaitForDB pings until the database answers or the timeout elapses. Used by
// serve/migrate startup against databases that come up slowly.
func WaitForDB(conn *sqlx.DB, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		err := conn.Ping()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("database not reachable after %s: %w", timeout, err)
		}
		time.Sleep(500 * time.Millisecond)
	}
}
