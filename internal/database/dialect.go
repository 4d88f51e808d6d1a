package database

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const sqliteMemoryDSN = "file::memory:?cache=shared&_foreign_keys=1"

// NormaliseDriver maps accepted driver spellings onto the Driver constants.
// Unknown names are returned lowercased so Open can reject them.
func NormaliseDriver(driver string) string {
	switch d := strings.ToLower(strings.TrimSpace(driver)); d {
	case "", "sqlite3":
		return DriverSQLite
	case "postgresql", "pg":
		return DriverPostgres
	default:
		return d
	}
}

func dialector(cfg Config) (gorm.Dialector, error) {
	switch NormaliseDriver(cfg.Driver) {
	case DriverSQLite:
		if cfg.DSN == "" && !isMemoryPath(cfg.Path) {
			if err := ensureDir(cfg.Path); err != nil {
				return nil, fmt.Errorf("prepare sqlite directory: %w", err)
			}
		}
		return sqlite.Open(sqliteDSN(cfg)), nil
	case DriverPostgres:
		dsn, err := postgresDSN(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.Open(dsn), nil
	case DriverMySQL:
		dsn, err := mysqlDSN(cfg)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func sqliteDSN(cfg Config) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	if isMemoryPath(cfg.Path) {
		return sqliteMemoryDSN
	}
	return "file:" + filepath.ToSlash(strings.TrimSpace(cfg.Path)) + "?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000"
}

// postgresDSN renders a keyword/value connection string. sslmode defaults
// to disable unless set through Options.
func postgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if err := requireServerCredentials(DriverPostgres, cfg); err != nil {
		return "", err
	}

	params := map[string]string{
		"host":    withDefault(cfg.Host, "localhost"),
		"port":    strconv.Itoa(portOrDefault(cfg.Port, 5432)),
		"user":    cfg.User,
		"dbname":  cfg.Name,
		"sslmode": "disable",
	}
	if cfg.Password != "" {
		params["password"] = cfg.Password
	}
	for key, value := range cfg.Options {
		params[key] = value
	}

	// Connection keys lead so the string stays readable in logs.
	lead := []string{"host", "port", "user", "dbname"}
	parts := make([]string, 0, len(params))
	for _, key := range lead {
		parts = append(parts, key+"="+params[key])
		delete(params, key)
	}
	for _, key := range sortedKeys(params) {
		parts = append(parts, key+"="+params[key])
	}
	return strings.Join(parts, " "), nil
}

func mysqlDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if err := requireServerCredentials(DriverMySQL, cfg); err != nil {
		return "", err
	}

	user := cfg.User
	if cfg.Password != "" {
		user += ":" + cfg.Password
	}
	addr := net.JoinHostPort(withDefault(cfg.Host, "127.0.0.1"), strconv.Itoa(portOrDefault(cfg.Port, 3306)))

	query := url.Values{}
	query.Set("charset", "utf8mb4")
	query.Set("parseTime", "True")
	query.Set("loc", "Local")
	for key, value := range cfg.Options {
		query.Set(key, value)
	}

	return fmt.Sprintf("%s@tcp(%s)/%s?%s", user, addr, cfg.Name, query.Encode()), nil
}

func requireServerCredentials(driver string, cfg Config) error {
	if cfg.User == "" || cfg.Name == "" {
		return errors.New(driver + " configuration requires user and database name")
	}
	return nil
}

func withDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value == "" {
		return fallback
	}
	return value
}

func portOrDefault(port, fallback int) int {
	if port <= 0 {
		return fallback
	}
	return port
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isMemoryPath(path string) bool {
	path = strings.TrimSpace(path)
	return path == "" || strings.EqualFold(path, ":memory:")
}

func ensureDir(path string) error {
	dir := filepath.Dir(strings.TrimSpace(path))
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// tuneSQLite enables foreign keys and limits the pool to one connection,
// since SQLite admits a single writer.
func tuneSQLite(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return nil
}
