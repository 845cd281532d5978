package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advdiary/advdiary/internal/records"
)

func TestSnapshotRoundTrip(t *testing.T) {
	c := New(time.Minute)

	_, found := c.GetCases("u1")
	assert.False(t, found)

	c.SetCases("u1", []records.Case{{CaseID: "a"}})

	cases, found := c.GetCases("u1")
	require.True(t, found)
	assert.Len(t, cases, 1)
}

func TestInvalidateDropsBothCollections(t *testing.T) {
	c := New(time.Minute)

	c.SetCases("u1", []records.Case{{CaseID: "a"}})
	c.SetClients("u1", []records.Client{{ClientID: "cl1"}})
	c.SetCases("u2", []records.Case{{CaseID: "b"}})

	c.Invalidate("u1")

	_, found := c.GetCases("u1")
	assert.False(t, found)
	_, found = c.GetClients("u1")
	assert.False(t, found)
	_, found = c.GetCases("u2")
	assert.True(t, found)
}

func TestStatsCountHitsAndMisses(t *testing.T) {
	c := New(time.Minute)

	c.GetCases("u1")
	c.SetCases("u1", nil)
	c.GetCases("u1")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
