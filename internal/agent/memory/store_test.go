package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(NewMemoryLog(), nil)
	require.NoError(t, err)
	return store
}

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Append(KindObservation, "saw a cat", Unrated(), nil)
	require.NoError(t, err)
	second, err := store.Append(KindObservation, "saw a dog", Unrated(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, 2, store.Len())
}

func TestNewStoreRejectsOutOfOrderLog(t *testing.T) {
	log := NewMemoryLog()
	now := time.Now()
	require.NoError(t, log.Append(Record{ID: 2, Kind: KindObservation, CreatedAt: now, LastAccess: now}))
	require.NoError(t, log.Append(Record{ID: 1, Kind: KindObservation, CreatedAt: now, LastAccess: now}))

	_, err := NewStore(log, nil)
	assert.Error(t, err)
}

func TestUpdateImportanceClamps(t *testing.T) {
	store := newTestStore(t)
	rec, err := store.Append(KindObservation, "a fire broke out", Unrated(), nil)
	require.NoError(t, err)

	require.NoError(t, store.UpdateImportance(rec.ID, 12))
	v, rated := store.All()[0].Importance.Value()
	assert.True(t, rated)
	assert.Equal(t, 10, v)

	require.NoError(t, store.UpdateImportance(rec.ID, -3))
	v, _ = store.All()[0].Importance.Value()
	assert.Equal(t, 1, v)
}

func TestUpdateImportanceUnknownIDIsNoOp(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Append(KindObservation, "quiet day", Unrated(), nil)
	require.NoError(t, err)

	require.NoError(t, store.UpdateImportance(99, 7))
	assert.False(t, store.All()[0].Importance.IsRated())
}

func TestByKindFilters(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Append(KindObservation, "saw the market", Unrated(), nil)
	require.NoError(t, err)
	_, err = store.Append(KindKnowledge, "the market opens at dawn", Rated(9), nil)
	require.NoError(t, err)
	_, err = store.Append(KindObservation, "heard a bell", Unrated(), nil)
	require.NoError(t, err)

	obs := store.ByKind(KindObservation)
	require.Len(t, obs, 2)
	assert.Equal(t, "saw the market", obs[0].Content)
	assert.Equal(t, "heard a bell", obs[1].Content)
}

func TestHasKnowledgeLike(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Append(KindKnowledge, "the forge is east of the square", Rated(9), nil)
	require.NoError(t, err)
	_, err = store.Append(KindObservation, "the inn is crowded", Unrated(), nil)
	require.NoError(t, err)

	assert.True(t, store.HasKnowledgeLike("forge is east"))
	// Observations do not count as knowledge.
	assert.False(t, store.HasKnowledgeLike("inn is crowded"))
}

func TestImportanceRoundTripsThroughLog(t *testing.T) {
	log := NewMemoryLog()
	store, err := NewStore(log, nil)
	require.NoError(t, err)

	_, err = store.Append(KindObservation, "unrated memory", Unrated(), nil)
	require.NoError(t, err)
	_, err = store.Append(KindReflection, "rated memory", Rated(8), []int{1})
	require.NoError(t, err)

	reloaded, err := NewStore(log, nil)
	require.NoError(t, err)
	records := reloaded.All()
	require.Len(t, records, 2)
	assert.False(t, records[0].Importance.IsRated())
	v, rated := records[1].Importance.Value()
	assert.True(t, rated)
	assert.Equal(t, 8, v)
	assert.Equal(t, []int{1}, records[1].Sources)
}
