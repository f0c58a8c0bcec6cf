package probe

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"codeberg.org/mutker/pgscout/internal/errors"
	"codeberg.org/mutker/pgscout/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
)

// Snapshot describes the detected version and capabilities of a target
// PostgreSQL server. Resolution strategies are gated on it.
type Snapshot struct {
	VersionNum int  // numeric server version, e.g. 160002
	Aurora     bool // Amazon Aurora PostgreSQL-compatible edition
	Managed    bool // managed hosting without filesystem access
}

// Major returns the major server version (16 for 160002).
func (s Snapshot) Major() int {
	return s.VersionNum / 10000
}

// AtLeast reports whether the server major version is at least major.
func (s Snapshot) AtLeast(major int) bool {
	return s.Major() >= major
}

// Detect probes the target server once and returns its capability snapshot.
func Detect(ctx context.Context, db *sql.DB) (Snapshot, error) {
	errFactory := errors.New()

	var raw string
	if err := db.QueryRowContext(ctx, "SELECT current_setting('server_version_num')").Scan(&raw); err != nil {
		return Snapshot{}, errFactory.Wrap(errors.ErrProbeFailed, err)
	}

	num, err := ParseVersionNum(raw)
	if err != nil {
		return Snapshot{}, errFactory.Wrap(errors.ErrProbeFailed, err)
	}

	snap := Snapshot{VersionNum: num}

	// aurora_version() only exists on Aurora. A missing function means
	// vanilla PostgreSQL; any other error must not silently flip the
	// snapshot, so it fails the probe instead.
	var auroraVersion string
	switch err := db.QueryRowContext(ctx, "SELECT aurora_version()").Scan(&auroraVersion); {
	case err == nil:
		snap.Aurora = true
	case isUndefinedFunction(err):
	default:
		return Snapshot{}, errFactory.Wrap(errors.ErrProbeFailed, err)
	}

	// rds.* GUCs are present on RDS and Aurora instances
	var hasRDSSettings bool
	if err := db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_settings WHERE name LIKE 'rds.%')").Scan(&hasRDSSettings); err != nil {
		return Snapshot{}, errFactory.Wrap(errors.ErrProbeFailed, err)
	}
	snap.Managed = snap.Aurora || hasRDSSettings

	logger.Info().
		Int("server_version_num", snap.VersionNum).
		Int("major", snap.Major()).
		Bool("aurora", snap.Aurora).
		Bool("managed", snap.Managed).
		Msg("Detected target server")

	return snap, nil
}

// isUndefinedFunction reports whether err is the server rejecting a call
// to a function that does not exist (SQLSTATE 42883).
func isUndefinedFunction(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42883"
}

// ParseVersionNum parses the text form of server_version_num.
func ParseVersionNum(raw string) (int, error) {
	errFactory := errors.New()

	num, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errFactory.Wrap(errors.ErrProbeFailed, err)
	}
	if num <= 0 {
		return 0, errFactory.WithData(errors.ErrProbeFailed, raw)
	}

	return num, nil
}
