package percept

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"npcmind/internal/world"
)

func TestFirstObserveSeedsWithoutEmitting(t *testing.T) {
	tr := NewTranslator()
	obs := tr.Observe(world.Snapshot{
		Entities: []world.Entity{{ID: "rosa", Name: "Rosa"}},
		Objects:  []world.Object{{ID: "stove", Name: "the stove", State: "smoking"}},
	})
	assert.Empty(t, obs)
}

func TestEntityAppearedIsPreRated(t *testing.T) {
	tr := NewTranslator()
	tr.Observe(world.Snapshot{})

	obs := tr.Observe(world.Snapshot{
		Entities: []world.Entity{{ID: "rosa", Name: "Rosa"}},
	})
	require.Len(t, obs, 1)
	assert.Equal(t, "I see Rosa nearby.", obs[0].Text)
	v, rated := obs[0].Importance.Value()
	assert.True(t, rated)
	assert.Equal(t, 4, v)
}

func TestEntityDisappeared(t *testing.T) {
	tr := NewTranslator()
	tr.Observe(world.Snapshot{Entities: []world.Entity{{ID: "rosa", Name: "Rosa"}}})

	obs := tr.Observe(world.Snapshot{})
	require.Len(t, obs, 1)
	assert.Equal(t, "Rosa has left my sight.", obs[0].Text)
	assert.False(t, obs[0].Importance.IsRated())
}

func TestObjectStateChange(t *testing.T) {
	tr := NewTranslator()
	tr.Observe(world.Snapshot{Objects: []world.Object{{ID: "stove", Name: "the stove", State: "cold"}}})

	obs := tr.Observe(world.Snapshot{Objects: []world.Object{{ID: "stove", Name: "the stove", State: "smoking"}}})
	require.Len(t, obs, 1)
	assert.Equal(t, "the stove is now smoking (it was cold).", obs[0].Text)
	assert.False(t, obs[0].Importance.IsRated())
}

func TestObjectAppearedAndDisappeared(t *testing.T) {
	tr := NewTranslator()
	tr.Observe(world.Snapshot{Objects: []world.Object{{ID: "cart", Name: "a cart", State: "loaded"}}})

	obs := tr.Observe(world.Snapshot{Objects: []world.Object{{ID: "barrel", Name: "a barrel", State: "full"}}})
	require.Len(t, obs, 2)
	assert.Equal(t, "There is a barrel here (full).", obs[0].Text)
	assert.Equal(t, "a cart is gone.", obs[1].Text)
}

func TestNoChangeNoObservations(t *testing.T) {
	tr := NewTranslator()
	snap := world.Snapshot{
		Entities: []world.Entity{{ID: "rosa", Name: "Rosa"}},
		Objects:  []world.Object{{ID: "stove", Name: "the stove", State: "smoking"}},
	}
	tr.Observe(snap)
	assert.Empty(t, tr.Observe(snap))
}

func TestResetSeedsAgain(t *testing.T) {
	tr := NewTranslator()
	tr.Observe(world.Snapshot{})
	tr.Reset()
	obs := tr.Observe(world.Snapshot{Entities: []world.Entity{{ID: "rosa", Name: "Rosa"}}})
	assert.Empty(t, obs)
}
