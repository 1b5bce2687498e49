package agent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"npcmind/internal/agent/memory"
	"npcmind/internal/agent/plan"
	"npcmind/internal/events"
)

func TestShouldInitiateAsleepNeverSpeaks(t *testing.T) {
	completer := &fakeCompleter{textReply: "YES"}
	orch := newTestAgent(t, completer)
	// Characters start asleep.
	assert.False(t, orch.ShouldInitiate(context.Background(), "a cart overturned"))
	assert.Equal(t, 0, completer.textCalls())
}

func TestShouldInitiateAngryStaysQuiet(t *testing.T) {
	completer := &fakeCompleter{textReply: "YES"}
	orch := newTestAgent(t, completer)
	orch.mu.Lock()
	orch.scratch.Awake = true
	orch.scratch.Mood = MoodAngry
	orch.mu.Unlock()

	assert.False(t, orch.ShouldInitiate(context.Background(), "a cart overturned"))
	assert.Equal(t, 0, completer.textCalls())
}

func TestShouldInitiateConsultsModel(t *testing.T) {
	completer := &fakeCompleter{textReply: "YES, definitely"}
	orch := newTestAgent(t, completer)
	orch.mu.Lock()
	orch.scratch.Awake = true
	orch.mu.Unlock()

	assert.True(t, orch.ShouldInitiate(context.Background(), "a cart overturned"))
	assert.Equal(t, 1, completer.textCalls())

	completer.textReply = "NO"
	assert.False(t, orch.ShouldInitiate(context.Background(), "a leaf fell"))
}

func TestShouldInitiateDefaultsNoOnError(t *testing.T) {
	orch := newTestAgent(t, &fakeCompleter{textErr: fmt.Errorf("service down")})
	orch.mu.Lock()
	orch.scratch.Awake = true
	orch.mu.Unlock()

	assert.False(t, orch.ShouldInitiate(context.Background(), "a cart overturned"))
}

func TestSpontaneousUtteranceRecordsAndEmits(t *testing.T) {
	bus := events.NewBus()
	spoken := make(chan events.Event, 1)
	bus.Subscribe(events.SpontaneousUtterance, func(ev events.Event) { spoken <- ev })

	orch := newTestAgentWithBus(t, &fakeCompleter{textReply: "Mind that cart!"}, bus)

	line := orch.SpontaneousUtterance(context.Background(), "a cart overturned")
	assert.Equal(t, "Mind that cart!", line)

	obs := observationContents(orch)
	require.Len(t, obs, 1)
	assert.Equal(t, `I said out loud: "Mind that cart!"`, obs[0])

	select {
	case ev := <-spoken:
		assert.Equal(t, "Mind that cart!", ev.Payload)
	case <-time.After(time.Second):
		t.Fatal("spontaneous event never arrived")
	}
}

func TestSpontaneousUtteranceEmptyOnError(t *testing.T) {
	orch := newTestAgent(t, &fakeCompleter{textErr: fmt.Errorf("service down")})
	assert.Empty(t, orch.SpontaneousUtterance(context.Background(), "a cart overturned"))
	assert.Empty(t, observationContents(orch))
}

func TestCrossCharacterExchange(t *testing.T) {
	bus := events.NewBus()
	uttered := make(chan events.Event, 2)
	bus.Subscribe(events.CrossCharacterUtterance, func(ev events.Event) { uttered <- ev })

	john := newTestAgentWithBus(t, &fakeCompleter{textReply: "Morning, Rosa."}, bus)
	rosaStore, err := memory.NewStore(memory.NewMemoryLog(), nil)
	require.NoError(t, err)
	rosa := NewOrchestrator(Persona{ID: "rosa", Name: "Rosa", Occupation: "innkeeper", Home: "inn"},
		rosaStore, &fakeCompleter{textReply: "Morning, John. Stove's still broken."}, bus, nil, nil)

	opening := john.InitiateWith(context.Background(), rosa)
	assert.Equal(t, "Morning, Rosa.", opening)

	response := rosa.RespondTo(context.Background(), john, opening)
	assert.Equal(t, "Morning, John. Stove's still broken.", response)

	johnObs := observationContents(john)
	require.Len(t, johnObs, 1)
	assert.Equal(t, `I said to Rosa: "Morning, Rosa."`, johnObs[0])

	rosaObs := observationContents(rosa)
	require.Len(t, rosaObs, 2)
	assert.Equal(t, `John said to me: "Morning, Rosa."`, rosaObs[0])

	for i := 0; i < 2; i++ {
		select {
		case <-uttered:
		case <-time.After(time.Second):
			t.Fatal("cross-character event never arrived")
		}
	}
}

func TestShouldContinueDefaultsWithoutPlan(t *testing.T) {
	completer := &fakeCompleter{}
	orch := newTestAgent(t, completer)

	keep, utterance := orch.ShouldContinue(context.Background(), "09:00", 5)
	assert.True(t, keep)
	assert.Empty(t, utterance)
	assert.Equal(t, 0, completer.jsonCalls())
}

func withPlan(orch *Orchestrator, items []plan.Item, activateAt string) {
	orch.mu.Lock()
	orch.scratch.Awake = true
	orch.progress = plan.NewProgress(items)
	orch.progress.Advance(activateAt)
	orch.mu.Unlock()
}

func TestShouldContinueFewTurns(t *testing.T) {
	completer := &fakeCompleter{}
	orch := newTestAgent(t, completer)
	withPlan(orch, []plan.Item{
		{Start: "08:00", Activity: "work", Duration: 60, Status: plan.StatusPending},
		{Start: "09:00", Activity: "deliver horseshoes", Duration: 60, Status: plan.StatusPending},
	}, "08:50")

	keep, _ := orch.ShouldContinue(context.Background(), "08:55", 2)
	assert.True(t, keep)
	assert.Equal(t, 0, completer.jsonCalls())
}

func TestShouldContinueNextItemFarAway(t *testing.T) {
	completer := &fakeCompleter{}
	orch := newTestAgent(t, completer)
	withPlan(orch, []plan.Item{
		{Start: "08:00", Activity: "work", Duration: 240, Status: plan.StatusPending},
		{Start: "12:00", Activity: "lunch", Duration: 60, Status: plan.StatusPending},
	}, "08:10")

	keep, _ := orch.ShouldContinue(context.Background(), "08:30", 6)
	assert.True(t, keep)
	assert.Equal(t, 0, completer.jsonCalls())
}

func TestShouldContinueConsultsModelWhenPressed(t *testing.T) {
	completer := &fakeCompleter{
		jsonReply: `{"thought": "The miller is waiting on me.", "continue": false, "utterance": "I must get back to the forge."}`,
	}
	orch := newTestAgent(t, completer)
	withPlan(orch, []plan.Item{
		{Start: "08:00", Activity: "work", Duration: 60, Status: plan.StatusPending},
		{Start: "09:00", Activity: "deliver horseshoes", Duration: 60, Status: plan.StatusPending},
	}, "08:30")

	keep, utterance := orch.ShouldContinue(context.Background(), "08:45", 4)
	assert.False(t, keep)
	assert.Equal(t, "I must get back to the forge.", utterance)

	thoughts := orch.store.ByKind(memory.KindThought)
	require.Len(t, thoughts, 1)
	assert.Equal(t, "The miller is waiting on me.", thoughts[0].Content)
}

func TestShouldContinueDefaultsYesOnError(t *testing.T) {
	orch := newTestAgent(t, &fakeCompleter{jsonErr: fmt.Errorf("service down")})
	withPlan(orch, []plan.Item{
		{Start: "08:00", Activity: "work", Duration: 60, Status: plan.StatusPending},
		{Start: "09:00", Activity: "deliver horseshoes", Duration: 60, Status: plan.StatusPending},
	}, "08:30")

	keep, _ := orch.ShouldContinue(context.Background(), "08:45", 4)
	assert.True(t, keep)
}
