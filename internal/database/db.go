package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite" // Pure Go sqlite driver
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema means a previous migration failed part way. The database
// needs manual repair (migrate force) before the planner can use it.
var ErrDirtySchema = errors.New("database schema is dirty")

// MigrationState describes the planner schema after RunMigrations.
type MigrationState struct {
	Previous uint // version found on open, 0 for a new database
	Version  uint // version now applied
	Latest   uint // newest embedded migration
}

// Applied reports how many migration steps this run applied.
func (s MigrationState) Applied() int {
	return int(s.Version) - int(s.Previous)
}

// DB holds the planner's SQLite connection and the schema it was opened with.
type DB struct {
	SQL    *sql.DB
	Schema MigrationState
}

// NewDB creates the database file if needed, brings the recipes, plans,
// shopping lists and metrics tables up to date and opens a connection.
func NewDB(dbPath string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Schema must be current before the app opens its own connection.
	state, err := RunMigrations(dbPath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &DB{SQL: db, Schema: state}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.SQL.Close()
}

// RunMigrations applies pending planner migrations with golang-migrate and
// reports the schema versions before and after.
func RunMigrations(databasePath string, logger *zap.Logger) (MigrationState, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return MigrationState{}, fmt.Errorf("failed to create iofs driver: %w", err)
	}
	latest, err := latestVersion(src)
	if err != nil {
		return MigrationState{}, err
	}

	// golang-migrate wants a URL-like source, "sqlite://<path>" for modernc.
	m, err := migrate.NewWithSourceInstance("iofs", src, fmt.Sprintf("sqlite://%s", databasePath))
	if err != nil {
		return MigrationState{}, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	state := MigrationState{Latest: latest}
	previous, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
	case err != nil:
		return state, fmt.Errorf("failed to read schema version: %w", err)
	case dirty:
		return state, fmt.Errorf("%w at version %d", ErrDirtySchema, previous)
	default:
		state.Previous = previous
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirtyErr migrate.ErrDirty
		if errors.As(err, &dirtyErr) {
			return state, fmt.Errorf("%w at version %d: %v", ErrDirtySchema, dirtyErr.Version, err)
		}
		return state, fmt.Errorf("failed to apply migrations: %w", err)
	}

	state.Version, _, err = m.Version()
	if err != nil {
		return state, fmt.Errorf("failed to read schema version: %w", err)
	}

	if n := state.Applied(); n > 0 {
		logger.Info("database migrations applied",
			zap.String("path", databasePath),
			zap.Uint("from", state.Previous),
			zap.Uint("to", state.Version),
			zap.Int("steps", n),
		)
	} else {
		logger.Debug("database schema up to date", zap.String("path", databasePath), zap.Uint("version", state.Version))
	}
	return state, nil
}

func latestVersion(src source.Driver) (uint, error) {
	v, err := src.First()
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations: %w", err)
	}
	for {
		next, err := src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return v, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read migrations: %w", err)
		}
		v = next
	}
}
