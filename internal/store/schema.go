package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/mutker/pgscout/internal/errors"
	"codeberg.org/mutker/pgscout/internal/logger"
)

const (
	SchemaVersion = 1

	createTablesSQL = `
	   CREATE TABLE IF NOT EXISTS schema_versions (
	       version     INTEGER PRIMARY KEY,
	       applied_at  TEXT NOT NULL
	   );
	   CREATE TABLE IF NOT EXISTS samples (
	       timestamp INTEGER NOT NULL,
	       metric    TEXT NOT NULL,
	       value     REAL NOT NULL,
	       strategy  TEXT NOT NULL,
	       PRIMARY KEY (timestamp, metric)
	   );`

	insertSampleSQL = `
    INSERT OR REPLACE INTO samples (timestamp, metric, value, strategy)
    VALUES (?, ?, ?, ?)`
)

// InitSchema creates a new database schema with the current version
func InitSchema(db *sql.DB, log logger.Logger) error {
	errFactory := errors.New()

	tx, err := db.Begin()
	if err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				log.Debug().Err(err).Msg("Failed to rollback transaction")
			}
		}
	}()

	if _, err := tx.Exec(createTablesSQL); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			SQL   string
		}{
			Error: err.Error(),
			SQL:   createTablesSQL,
		})
	}

	if _, err := tx.Exec(`
        INSERT OR IGNORE INTO schema_versions (version, applied_at)
        VALUES (?, datetime('now'))
    `, SchemaVersion); err != nil {
		return errFactory.WithData(ErrSchemaInitFailed, struct {
			Error string
			Phase string
		}{
			Error: err.Error(),
			Phase: "record_version",
		})
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}
	committed = true

	log.Info().
		Int("version", SchemaVersion).
		Msg("Sample store schema initialized")

	return nil
}

// ValidateAndUpdateSchema checks the schema version and recreates the
// schema when it does not match, backing up the old database first when
// configured to.
func ValidateAndUpdateSchema(db *sql.DB, cfg Config, log logger.Logger) error {
	errFactory := errors.New()

	var current int
	err := db.QueryRow("SELECT coalesce(max(version), 0) FROM schema_versions").Scan(&current)
	if err != nil {
		// No schema yet
		return InitSchema(db, log)
	}

	if current == SchemaVersion {
		return nil
	}

	log.Warn().
		Int("found", current).
		Int("expected", SchemaVersion).
		Msg("Schema version mismatch, recreating")

	if cfg.BackupOnMigrate {
		if _, err := backupDatabase(db, cfg, current, log); err != nil {
			return err
		}
	}

	if _, err := db.Exec("DROP TABLE IF EXISTS samples; DROP TABLE IF EXISTS schema_versions"); err != nil {
		return errFactory.Wrap(ErrSchemaInitFailed, err)
	}

	return InitSchema(db, log)
}

func backupDatabase(db *sql.DB, cfg Config, version int, log logger.Logger) (string, error) {
	errFactory := errors.New()

	backupDir := filepath.Join(filepath.Dir(cfg.DBPath), "backups")
	if err := os.MkdirAll(backupDir, defaultDirPerm); err != nil {
		return "", errFactory.WithData(ErrSchemaInitFailed, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_backup_dir",
			Path:  backupDir,
			Error: err.Error(),
		})
	}

	timestamp := time.Now().UTC().Format("20060102T150405Z")
	backupPath := filepath.Join(backupDir,
		fmt.Sprintf("samples_v%d_%s.db", version, timestamp))

	// VACUUM INTO requires no active transaction
	if _, err := db.Exec(fmt.Sprintf("VACUUM INTO '%s'", backupPath)); err != nil {
		return "", errFactory.WithData(ErrSchemaInitFailed, struct {
			Phase string
			Path  string
			Error string
		}{
			Phase: "create_backup",
			Path:  backupPath,
			Error: err.Error(),
		})
	}

	log.Info().
		Str("path", backupPath).
		Int("version", version).
		Msg("Database backup created")

	return backupPath, nil
}
