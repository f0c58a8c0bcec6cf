// Package catalog declares the metrics pgscout resolves and the ordered
// strategy chain for each. Strategy order within a metric is the documented
// resolution priority; the resolver tries them top to bottom.
package catalog

import (
	"context"
	"database/sql"

	"codeberg.org/mutker/pgscout/internal/probe"
	"codeberg.org/mutker/pgscout/internal/resolver"
)

// Build returns the metric catalog bound to db.
func Build(db *sql.DB) []resolver.Metric {
	return []resolver.Metric{
		multixactMembersBytes(db),
		walBytes(db),
		databaseBytes(db),
	}
}

const (
	sqlWalDirSize = `SELECT coalesce(sum(size), 0)::float8 FROM pg_ls_waldir()`

	sqlWalFilesystemSize = `
SELECT coalesce(sum((pg_stat_file('pg_wal/' || name, true)).size), 0)::float8
FROM pg_ls_dir('pg_wal') AS name`

	sqlDatabaseSize = `SELECT sum(pg_database_size(oid))::float8 FROM pg_database`
)

// walBytes measures total WAL size. pg_ls_waldir exists since version 10;
// older self-hosted servers fall back to raw directory inspection.
func walBytes(db *sql.DB) resolver.Metric {
	return resolver.Metric{
		Name: "wal_bytes",
		Help: "Total size of write-ahead log segments in bytes",
		Strategies: []resolver.Strategy{
			{
				Name:       "ls_waldir",
				Applicable: func(s probe.Snapshot) bool { return s.AtLeast(10) },
				Execute:    queryFloat(db, sqlWalDirSize),
			},
			{
				Name:       "filesystem",
				Applicable: func(s probe.Snapshot) bool { return !s.Managed },
				Execute:    queryFloat(db, sqlWalFilesystemSize),
			},
		},
	}
}

func databaseBytes(db *sql.DB) resolver.Metric {
	return resolver.Metric{
		Name: "database_bytes",
		Help: "Combined size of all databases in bytes",
		Strategies: []resolver.Strategy{
			{
				Name:    "pg_database_size",
				Execute: queryFloat(db, sqlDatabaseSize),
			},
		},
	}
}

// queryFloat binds a single-value query into a strategy executor.
func queryFloat(db *sql.DB, query string) func(context.Context) (float64, error) {
	return func(ctx context.Context) (float64, error) {
		var value float64
		if err := db.QueryRowContext(ctx, query).Scan(&value); err != nil {
			return 0, err
		}

		return value, nil
	}
}
