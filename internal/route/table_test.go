package route_test

import (
	"testing"

	"github.com/aretw0/tremaux/internal/route"
	"github.com/aretw0/tremaux/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_LastDepartureWins(t *testing.T) {
	tbl := route.New()
	cell := domain.Cell{X: 2, Y: 2}

	// Three visits around a loop; only the latest survives.
	tbl.Record(cell, domain.North)
	tbl.Record(cell, domain.West)
	tbl.Record(cell, domain.South)

	d, ok := tbl.Lookup(cell)
	require.True(t, ok)
	assert.Equal(t, domain.South, d)
	assert.Equal(t, 1, tbl.Len())
}

func TestTable_SnapshotRoundTrip(t *testing.T) {
	tbl := route.New()
	tbl.Record(domain.Cell{X: 0, Y: 0}, domain.East)
	tbl.Record(domain.Cell{X: 1, Y: 0}, domain.South)

	snap := tbl.Snapshot("maze-a")
	assert.Equal(t, "maze-a", snap.MazeID)
	assert.False(t, snap.UpdatedAt.IsZero())

	restored := route.FromRoute(snap)
	d, ok := restored.Lookup(domain.Cell{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, domain.South, d)

	// Snapshot is a copy.
	snap.Steps[domain.Cell{X: 0, Y: 0}] = domain.West
	d, _ = tbl.Lookup(domain.Cell{X: 0, Y: 0})
	assert.Equal(t, domain.East, d)
}

func TestFromRoute_Nil(t *testing.T) {
	assert.Equal(t, 0, route.FromRoute(nil).Len())
}
