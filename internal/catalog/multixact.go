package catalog

import (
	"context"
	"database/sql"

	"codeberg.org/mutker/pgscout/internal/probe"
	"codeberg.org/mutker/pgscout/internal/resolver"
)

const (
	// Each member entry in the members SLRU is one xid plus a flag byte.
	multixactMemberBytes = 5

	// Member offsets are 32-bit and wrap past this value.
	multixactOffsetMax = uint64(1) << 32

	sqlMultixactNative = `SELECT pg_multixact_members_size()::float8`

	sqlMultixactAuroraOffsets = `
SELECT oldest_members_offset, next_members_offset FROM aurora_stat_multixact()`

	sqlMultixactMembersDu = `
SELECT coalesce(sum((pg_stat_file('pg_multixact/members/' || name, true)).size), 0)::float8
FROM pg_ls_dir('pg_multixact/members') AS name`
)

// multixactMembersBytes measures the size of the multixact members SLRU.
// Resolution priority:
//
//  1. native_function — pg_multixact_members_size(), server 19 and later
//  2. aurora_members  — Aurora's multixact statistics function; reports an
//     oldest/next member offset window converted to bytes
//  3. filesystem      — raw pg_multixact/members directory size; needs
//     filesystem access, so never applicable on managed hosting
//
// Stock PostgreSQL before 19 exposes no SQL surface for the member offset
// window, so there is no ungated middle strategy; every strategy here is
// gated on a capability it actually needs.
func multixactMembersBytes(db *sql.DB) resolver.Metric {
	return resolver.Metric{
		Name: "multixact_members_bytes",
		Help: "Size of the multixact members area in bytes",
		Strategies: []resolver.Strategy{
			{
				Name:       "native_function",
				Applicable: func(s probe.Snapshot) bool { return s.AtLeast(19) },
				Execute:    queryFloat(db, sqlMultixactNative),
			},
			{
				Name:       "aurora_members",
				Applicable: func(s probe.Snapshot) bool { return s.Aurora },
				Execute:    offsetsExecutor(db, sqlMultixactAuroraOffsets),
			},
			{
				Name:       "filesystem",
				Applicable: func(s probe.Snapshot) bool { return !s.Managed },
				Execute:    queryFloat(db, sqlMultixactMembersDu),
			},
		},
	}
}

// offsetsExecutor binds a start/stop offset query into an executor that
// converts the offset span into bytes.
func offsetsExecutor(db *sql.DB, query string) func(context.Context) (float64, error) {
	return func(ctx context.Context) (float64, error) {
		var start, stop uint64
		if err := db.QueryRowContext(ctx, query).Scan(&start, &stop); err != nil {
			return 0, err
		}

		return float64(multixactSpan(start, stop, multixactOffsetMax) * multixactMemberBytes), nil
	}
}

// multixactSpan returns the distance from start to stop on a counter that
// wraps past max. Wraparound is detected by stop < start.
func multixactSpan(start, stop, max uint64) uint64 {
	if stop < start {
		return (max - start) + stop
	}

	return stop - start
}
