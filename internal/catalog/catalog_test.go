package catalog

import (
	"context"
	"testing"

	"codeberg.org/mutker/pgscout/internal/probe"
	"codeberg.org/mutker/pgscout/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultixactSpan(t *testing.T) {
	// No wraparound: plain difference
	assert.Equal(t, uint64(400), multixactSpan(100, 500, 1000))

	// Wrapped counter: distance to max plus distance from zero
	assert.Equal(t, uint64(950), multixactSpan(100, 50, 1000))

	// Degenerate cases
	assert.Equal(t, uint64(0), multixactSpan(100, 100, 1000))
	assert.Equal(t, uint64(1), multixactSpan(multixactOffsetMax-1, 0, multixactOffsetMax))
}

func TestMultixactStrategyOrder(t *testing.T) {
	metric := multixactMembersBytes(nil)

	require.Len(t, metric.Strategies, 3)
	assert.Equal(t, "native_function", metric.Strategies[0].Name)
	assert.Equal(t, "aurora_members", metric.Strategies[1].Name)
	assert.Equal(t, "filesystem", metric.Strategies[2].Name)
}

func TestMultixactApplicability(t *testing.T) {
	metric := multixactMembersBytes(nil)

	v11 := probe.Snapshot{VersionNum: 110019}
	v19 := probe.Snapshot{VersionNum: 190000}
	aurora := probe.Snapshot{VersionNum: 150004, Aurora: true, Managed: true}
	rds := probe.Snapshot{VersionNum: 150004, Managed: true}

	native := metric.Strategies[0]
	assert.False(t, native.Applicable(v11), "native function needs server 19")
	assert.True(t, native.Applicable(v19))

	auroraStrat := metric.Strategies[1]
	assert.True(t, auroraStrat.Applicable(aurora))
	assert.False(t, auroraStrat.Applicable(rds))
	assert.False(t, auroraStrat.Applicable(v11))

	filesystem := metric.Strategies[2]
	assert.True(t, filesystem.Applicable(v11))
	assert.False(t, filesystem.Applicable(aurora), "no filesystem access on managed hosting")
	assert.False(t, filesystem.Applicable(rds))
}

// A managed non-Aurora host before version 19 has no usable source for the
// members size. Every strategy must be gated off so resolution exhausts
// with a clean skip trace instead of executing queries that cannot succeed.
func TestMultixactManagedHostSkipsEverything(t *testing.T) {
	metric := multixactMembersBytes(nil)
	rds := probe.Snapshot{VersionNum: 150004, Managed: true}

	_, err := resolver.Resolve(context.Background(), metric, rds)
	require.Error(t, err)

	var exhausted *resolver.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Len(t, exhausted.Attempts, len(metric.Strategies))
	for _, attempt := range exhausted.Attempts {
		assert.Equal(t, resolver.OutcomeSkipped, attempt.Outcome,
			"strategy %s executed against a host it cannot serve", attempt.Strategy)
	}
}

func TestWalApplicability(t *testing.T) {
	metric := walBytes(nil)

	require.Len(t, metric.Strategies, 2)

	v9 := probe.Snapshot{VersionNum: 90624}
	v10 := probe.Snapshot{VersionNum: 100023}

	assert.False(t, metric.Strategies[0].Applicable(v9), "pg_ls_waldir appeared in version 10")
	assert.True(t, metric.Strategies[0].Applicable(v10))
	assert.True(t, metric.Strategies[1].Applicable(v9))
	assert.False(t, metric.Strategies[1].Applicable(probe.Snapshot{VersionNum: 90624, Managed: true}))
}

func TestBuildMetricNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, metric := range Build(nil) {
		assert.False(t, seen[metric.Name], "duplicate metric %s", metric.Name)
		seen[metric.Name] = true
		assert.NotEmpty(t, metric.Strategies)
		for _, strat := range metric.Strategies {
			assert.NotEmpty(t, strat.Name)
			assert.NotNil(t, strat.Execute)
		}
	}
}
