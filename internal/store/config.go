package store

import "codeberg.org/mutker/pgscout/internal/errors"

const (
	defaultDirPerm      = 0o755
	defaultDBPath       = "/var/lib/pgscout/samples.db"
	defaultBatchSize    = 16
	defaultBatchTimeout = 30
)

type Config struct {
	DBPath          string
	Enabled         bool
	BatchSize       int
	BatchTimeout    int // seconds
	BackupOnMigrate bool
}

func DefaultConfig() Config {
	return Config{
		DBPath:          defaultDBPath,
		Enabled:         false, // Disabled by default
		BatchSize:       defaultBatchSize,
		BatchTimeout:    defaultBatchTimeout,
		BackupOnMigrate: true,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	// Only validate DBPath if the store is enabled
	if c.Enabled && c.DBPath == "" {
		return errFactory.New(ErrInvalidDBPath)
	}
	return nil
}
