package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"npcmind/internal/agent/memory"
	"npcmind/internal/agent/plan"
)

func TestEvaluateImportanceAppliesRatings(t *testing.T) {
	completer := &fakeCompleter{
		jsonReply: `[{"id": 1, "importance": 7}, {"id": 2, "importance": 15}, {"id": 999, "importance": 5}, {"id": 3}]`,
	}
	orch := newTestAgent(t, completer)
	for i := 0; i < 3; i++ {
		orch.appendObservation(fmt.Sprintf("event %d", i), memory.Unrated())
	}

	orch.evaluateImportance(context.Background())

	records := orch.store.All()
	v, rated := records[0].Importance.Value()
	assert.True(t, rated)
	assert.Equal(t, 7, v)
	// Out-of-range ratings are clamped, not rejected.
	v, rated = records[1].Importance.Value()
	assert.True(t, rated)
	assert.Equal(t, 10, v)
	// Malformed entry for id 3 is dropped; the record stays unrated.
	assert.False(t, records[2].Importance.IsRated())
}

func TestEvaluateImportanceCapsBatchAtTwenty(t *testing.T) {
	completer := &fakeCompleter{jsonReply: `[]`}
	orch := newTestAgent(t, completer)
	for i := 0; i < 25; i++ {
		orch.appendObservation(fmt.Sprintf("unrated event %d", i), memory.Unrated())
	}

	orch.evaluateImportance(context.Background())

	require.Len(t, completer.jsonPrompts, 1)
	prompt := completer.jsonPrompts[0]
	// The five oldest records fall outside the batch.
	for i := 0; i < 5; i++ {
		assert.NotContains(t, prompt, fmt.Sprintf("unrated event %d\n", i))
	}
	assert.Contains(t, prompt, "unrated event 5")
	assert.Contains(t, prompt, "unrated event 24")
}

func TestEvaluateImportanceSkipsRatedRecords(t *testing.T) {
	completer := &fakeCompleter{jsonReply: `[]`}
	orch := newTestAgent(t, completer)
	orch.appendObservation("already rated", memory.Rated(6))

	orch.evaluateImportance(context.Background())
	assert.Equal(t, 0, completer.jsonCalls())
}

func TestEvaluateImportanceTotalFailureChangesNothing(t *testing.T) {
	completer := &fakeCompleter{jsonReply: "not json at all"}
	orch := newTestAgent(t, completer)
	orch.appendObservation("event", memory.Unrated())

	orch.evaluateImportance(context.Background())
	assert.False(t, orch.store.All()[0].Importance.IsRated())
}

func TestReflectRequiresFiveRecords(t *testing.T) {
	completer := &fakeCompleter{textReply: "an insight"}
	orch := newTestAgent(t, completer)
	for i := 0; i < reflectionMinRecords-1; i++ {
		orch.appendObservation(fmt.Sprintf("event %d", i), memory.Unrated())
	}

	orch.reflect(context.Background())

	assert.Equal(t, 0, completer.textCalls())
	assert.Empty(t, orch.store.ByKind(memory.KindReflection))
}

func TestReflectStoresRatedInsightWithSources(t *testing.T) {
	completer := &fakeCompleter{textReply: "  People keep asking about horseshoes.  "}
	orch := newTestAgent(t, completer)
	for i := 0; i < 6; i++ {
		orch.appendObservation(fmt.Sprintf("event %d", i), memory.Unrated())
	}

	orch.reflect(context.Background())

	reflections := orch.store.ByKind(memory.KindReflection)
	require.Len(t, reflections, 1)
	assert.Equal(t, "People keep asking about horseshoes.", reflections[0].Content)
	v, rated := reflections[0].Importance.Value()
	assert.True(t, rated)
	assert.Equal(t, reflectionImportance, v)
	assert.Len(t, reflections[0].Sources, 6)
}

func TestReflectPicksTopTenByImportance(t *testing.T) {
	completer := &fakeCompleter{textReply: "an insight"}
	orch := newTestAgent(t, completer)
	var highIDs []int
	for i := 0; i < 15; i++ {
		imp := memory.Rated(2)
		if i%3 == 0 {
			imp = memory.Rated(9)
		}
		rec, err := orch.store.Append(memory.KindObservation, fmt.Sprintf("event %d", i), imp, nil)
		require.NoError(t, err)
		if i%3 == 0 {
			highIDs = append(highIDs, rec.ID)
		}
	}

	orch.reflect(context.Background())

	reflections := orch.store.ByKind(memory.KindReflection)
	require.Len(t, reflections, 1)
	require.Len(t, reflections[0].Sources, reflectionTopRecords)
	sources := make(map[int]bool)
	for _, id := range reflections[0].Sources {
		sources[id] = true
	}
	for _, id := range highIDs {
		assert.True(t, sources[id], "high-importance record %d missing from sources", id)
	}
}

func TestReflectFailureIsNoOp(t *testing.T) {
	completer := &fakeCompleter{textErr: fmt.Errorf("service down")}
	orch := newTestAgent(t, completer)
	for i := 0; i < 6; i++ {
		orch.appendObservation(fmt.Sprintf("event %d", i), memory.Unrated())
	}

	orch.reflect(context.Background())
	assert.Empty(t, orch.store.ByKind(memory.KindReflection))
}

func TestGeneratePlanParsesEntries(t *testing.T) {
	completer := &fakeCompleter{
		jsonReply: `[
			{"time": "08:00", "activity": "light the forge", "location": "forge", "duration": 60, "goalRelated": true},
			{"time": "09:00", "activity": "hammer horseshoes", "location": "forge", "duration": 180}
		]`,
	}
	orch := newTestAgent(t, completer)

	items := orch.generatePlan(context.Background())

	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, plan.StatusPending, item.Status)
	}
	assert.True(t, items[0].GoalRelated)

	plans := orch.store.ByKind(memory.KindPlan)
	require.Len(t, plans, 1)
	assert.Contains(t, plans[0].Content, "light the forge")
	v, rated := plans[0].Importance.Value()
	assert.True(t, rated)
	assert.Equal(t, 5, v)
}

func TestGeneratePlanFallsBackOnError(t *testing.T) {
	orch := newTestAgent(t, &fakeCompleter{jsonErr: fmt.Errorf("service down")})

	items := orch.generatePlan(context.Background())

	assert.Equal(t, defaultSchedule, items)
	assert.Empty(t, orch.store.ByKind(memory.KindPlan))
}

func TestGeneratePlanFallsBackOnGarbage(t *testing.T) {
	orch := newTestAgent(t, &fakeCompleter{jsonReply: "I cannot plan today."})
	assert.Equal(t, defaultSchedule, orch.generatePlan(context.Background()))
}

func TestGeneratePlanPromptSections(t *testing.T) {
	completer := &fakeCompleter{jsonErr: fmt.Errorf("prompt capture only")}
	orch := newTestAgent(t, completer)

	orch.generatePlan(context.Background())

	require.Len(t, completer.jsonPrompts, 1)
	prompt := completer.jsonPrompts[0]
	assert.Contains(t, prompt, "(no knowledge)")
	assert.Contains(t, prompt, "(no notable change)")
	assert.Contains(t, prompt, "first day")
}

func TestGeneratePlanUsesNotableObservations(t *testing.T) {
	completer := &fakeCompleter{jsonErr: fmt.Errorf("prompt capture only")}
	orch := newTestAgent(t, completer)
	orch.SeedKnowledge([]string{
		"The forge is east of the square.",
		"The miller wants his horseshoes this week.",
	})
	orch.appendObservation("the mill burned down", memory.Rated(9))
	orch.appendObservation("a sparrow landed nearby", memory.Rated(2))

	orch.generatePlan(context.Background())

	require.Len(t, completer.jsonPrompts, 1)
	prompt := completer.jsonPrompts[0]
	assert.Contains(t, prompt, "The forge is east of the square.")
	assert.Contains(t, prompt, "the mill burned down")
	assert.NotContains(t, prompt, "a sparrow landed nearby")
}

func TestNotableObservationsRequireRating(t *testing.T) {
	orch := newTestAgent(t, &fakeCompleter{})
	orch.appendObservation("the mill burned down", memory.Rated(9))
	orch.appendObservation("below the floor", memory.Rated(6))
	orch.appendObservation("not yet rated", memory.Unrated())

	notable := orch.notableObservations()
	require.Len(t, notable, 1)
	assert.Equal(t, "the mill burned down", notable[0].Content)
}

func TestYesterdayAccountPrefersDaySummary(t *testing.T) {
	orch := newTestAgent(t, &fakeCompleter{})
	_, err := orch.store.Append(memory.KindPlan, "Today's plan: 08:00 work", memory.Rated(5), nil)
	require.NoError(t, err)
	assert.Contains(t, orch.yesterdayAccount(), "Today's plan")

	orch.appendObservation("The day is over. I completed 3 of 5 planned tasks.", memory.Unrated())
	assert.Contains(t, orch.yesterdayAccount(), "completed 3 of 5")
}
