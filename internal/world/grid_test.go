package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(t *testing.T) *Grid {
	t.Helper()
	g := NewGrid(5)
	g.AddLocation("forge", Position{X: 5, Y: 5})
	g.AddLocation("inn", Position{X: 8, Y: 5})
	g.AddLocation("market", Position{X: 30, Y: 30})
	require.NoError(t, g.AddCharacter("john", "John", "forge"))
	return g
}

func TestSnapshotSeesNearbyOnly(t *testing.T) {
	g := testGrid(t)
	require.NoError(t, g.AddCharacter("rosa", "Rosa", "inn"))
	require.NoError(t, g.AddCharacter("pete", "Pete", "market"))
	require.NoError(t, g.AddObject("anvil", "the anvil", "cold", "forge"))
	require.NoError(t, g.AddObject("stall", "a market stall", "shuttered", "market"))

	snap, err := g.Snapshot("john")
	require.NoError(t, err)
	assert.Equal(t, "forge", snap.Location)
	require.Len(t, snap.Entities, 1)
	assert.Equal(t, "Rosa", snap.Entities[0].Name)
	require.Len(t, snap.Objects, 1)
	assert.Equal(t, "the anvil", snap.Objects[0].Name)
}

func TestSnapshotUnknownCharacter(t *testing.T) {
	g := testGrid(t)
	_, err := g.Snapshot("ghost")
	assert.Error(t, err)
}

func TestMoveTowardTeleportsAndCallsBack(t *testing.T) {
	g := testGrid(t)
	arrived := false
	require.NoError(t, g.MoveToward("john", "market", func() { arrived = true }))
	assert.True(t, arrived)

	snap, err := g.Snapshot("john")
	require.NoError(t, err)
	assert.Equal(t, Position{X: 30, Y: 30}, snap.Position)
	assert.Equal(t, "market", snap.Location)
}

func TestMoveTowardResolvesFuzzyNames(t *testing.T) {
	g := testGrid(t)
	// Plans often name places in free text.
	require.NoError(t, g.MoveToward("john", "the village market", nil))
	snap, err := g.Snapshot("john")
	require.NoError(t, err)
	assert.Equal(t, "market", snap.Location)
}

func TestMoveTowardUnknownLocation(t *testing.T) {
	g := testGrid(t)
	assert.Error(t, g.MoveToward("john", "the moon", nil))
}

func TestSetObjectState(t *testing.T) {
	g := testGrid(t)
	require.NoError(t, g.AddObject("anvil", "the anvil", "cold", "forge"))
	require.NoError(t, g.SetObjectState("anvil", "glowing"))

	snap, err := g.Snapshot("john")
	require.NoError(t, err)
	require.Len(t, snap.Objects, 1)
	assert.Equal(t, "glowing", snap.Objects[0].State)

	assert.Error(t, g.SetObjectState("ghost", "x"))
}
