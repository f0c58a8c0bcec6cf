package probe_test

import (
	"testing"

	"codeberg.org/mutker/pgscout/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionNum(t *testing.T) {
	num, err := probe.ParseVersionNum("160002")
	require.NoError(t, err)
	assert.Equal(t, 160002, num)

	num, err = probe.ParseVersionNum(" 110019\n")
	require.NoError(t, err)
	assert.Equal(t, 110019, num)

	_, err = probe.ParseVersionNum("sixteen")
	require.Error(t, err)

	_, err = probe.ParseVersionNum("0")
	require.Error(t, err)
}

func TestSnapshotMajor(t *testing.T) {
	assert.Equal(t, 16, probe.Snapshot{VersionNum: 160002}.Major())
	assert.Equal(t, 11, probe.Snapshot{VersionNum: 110019}.Major())
	assert.Equal(t, 19, probe.Snapshot{VersionNum: 190000}.Major())
}

func TestSnapshotAtLeast(t *testing.T) {
	snap := probe.Snapshot{VersionNum: 160002}

	assert.True(t, snap.AtLeast(16))
	assert.True(t, snap.AtLeast(10))
	assert.False(t, snap.AtLeast(19))
}
