package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerDetectsCollision(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Track("alpha", 1))
	require.NoError(t, tr.Track("beta", 1)) // same hash, different term
	assert.True(t, tr.HasCollision())
	assert.Equal(t, 1, tr.Count())
}

func TestTrackerNoCollision(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Track("alpha", 1))
	require.NoError(t, tr.Track("beta", 2))
	assert.False(t, tr.HasCollision())
	assert.Equal(t, 2, tr.Count())
}

func TestTrackerReset(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Track("alpha", 1))
	tr.Reset()
	assert.Equal(t, 0, tr.Count())
	assert.False(t, tr.HasCollision())
}
