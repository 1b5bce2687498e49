package agent

import (
	"context"
	"fmt"
	"strings"

	"npcmind/internal/agent/decode"
	"npcmind/internal/agent/memory"
	"npcmind/internal/agent/plan"
	"npcmind/internal/events"
	"npcmind/internal/llm"
)

const (
	crossRetrieveCount = 3

	// ShouldContinue only consults the model once a conversation has run a
	// few exchanges and the next planned activity is pressing.
	continueMinTurns     = 3
	continuePressingMins = 30
)

// ShouldInitiate decides whether the character speaks up unprompted about
// something it noticed. Hard rules filter first; the model only breaks ties.
// Any failure defaults to staying quiet.
func (o *Orchestrator) ShouldInitiate(ctx context.Context, observation string) bool {
	o.mu.Lock()
	sc := o.scratch
	o.mu.Unlock()

	if !sc.Awake || sc.Mood == MoodAngry {
		return false
	}

	ctx = llm.WithOperationType(ctx, "should_initiate")
	raw, err := o.llm.CompleteText(ctx, llm.TextCompletionRequest{
		SystemPrompt: "Answer YES or NO only.",
		UserPrompt:   shouldInitiatePrompt(o.persona, sc, observation),
		MaxTokens:    10,
	})
	if err != nil {
		o.dbg.Printf("should_initiate: completion failed for %s: %v", o.persona.ID, err)
		return false
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(raw)), "YES")
}

// SpontaneousUtterance produces a proactive line about an observation,
// records it, and emits it. Empty on failure; callers just stay quiet.
func (o *Orchestrator) SpontaneousUtterance(ctx context.Context, observation string) string {
	ctx = llm.WithOperationType(ctx, "spontaneous")

	o.mu.Lock()
	sc := o.scratch
	o.mu.Unlock()

	raw, err := o.llm.CompleteText(ctx, llm.TextCompletionRequest{
		SystemPrompt: "You write a single in-character line of dialogue. Reply with the line only.",
		UserPrompt:   spontaneousPrompt(o.persona, sc, observation),
		MaxTokens:    150,
	})
	if err != nil {
		o.dbg.Printf("spontaneous: completion failed for %s: %v", o.persona.ID, err)
		return ""
	}
	line := strings.TrimSpace(raw)
	if line == "" {
		return ""
	}

	o.appendObservation(fmt.Sprintf("I said out loud: %q", line), memory.Unrated())
	o.bus.Publish(events.New(o.persona.ID, events.SpontaneousUtterance, line))
	return line
}

// InitiateWith opens a short exchange with another character, grounded in
// what this one remembers about them.
func (o *Orchestrator) InitiateWith(ctx context.Context, other *Orchestrator) string {
	return o.crossCharacterLine(ctx, other, "")
}

// RespondTo answers a line from another character.
func (o *Orchestrator) RespondTo(ctx context.Context, other *Orchestrator, line string) string {
	return o.crossCharacterLine(ctx, other, line)
}

func (o *Orchestrator) crossCharacterLine(ctx context.Context, other *Orchestrator, incoming string) string {
	ctx = llm.WithOperationType(ctx, "cross_character")

	otherName := other.Persona().Name
	memories := o.store.Retrieve(otherName, crossRetrieveCount)

	o.mu.Lock()
	sc := o.scratch
	o.mu.Unlock()

	raw, err := o.llm.CompleteText(ctx, llm.TextCompletionRequest{
		SystemPrompt: "You write a single in-character line of dialogue. Reply with the line only.",
		UserPrompt:   crossCharacterPrompt(o.persona, sc, otherName, memories, incoming),
		MaxTokens:    150,
	})
	if err != nil {
		o.dbg.Printf("cross_character: completion failed for %s: %v", o.persona.ID, err)
		return ""
	}
	line := strings.TrimSpace(raw)
	if line == "" {
		return ""
	}

	if incoming != "" {
		o.appendObservation(fmt.Sprintf("%s said to me: %q", otherName, incoming), memory.Unrated())
	}
	o.appendObservation(fmt.Sprintf("I said to %s: %q", otherName, line), memory.Unrated())
	o.bus.Publish(events.New(o.persona.ID, events.CrossCharacterUtterance,
		fmt.Sprintf("to %s: %s", otherName, line)))
	return line
}

// ShouldContinue decides whether the character stays in a conversation.
// Defaults to yes; the model is only consulted when the next plan item
// starts soon and the exchange has gone on a while. The returned utterance
// is the leaving line when continue is false.
func (o *Orchestrator) ShouldContinue(ctx context.Context, timeLabel string, turns int) (bool, string) {
	o.mu.Lock()
	var next plan.Item
	haveNext := false
	if o.progress != nil {
		if item, ok := o.progress.Next(); ok {
			next = item
			haveNext = true
		}
	}
	o.mu.Unlock()

	if !haveNext || turns < continueMinTurns {
		return true, ""
	}
	nowMins, ok := plan.ParseMinutes(timeLabel)
	if !ok {
		return true, ""
	}
	nextMins, ok := plan.ParseMinutes(next.Start)
	if !ok || nextMins-nowMins > continuePressingMins {
		return true, ""
	}

	ctx = llm.WithOperationType(ctx, "should_continue")
	raw, err := o.llm.CompleteJSON(ctx, llm.JSONCompletionRequest{
		SystemPrompt: "You make in-character decisions for simulation characters. Output JSON only.",
		UserPrompt:   shouldContinuePrompt(o.persona, next, turns),
		MaxTokens:    300,
	})
	if err != nil {
		o.dbg.Printf("should_continue: completion failed for %s: %v", o.persona.ID, err)
		return true, ""
	}

	decision, err := decode.DecodeDecision(raw)
	if err != nil {
		o.dbg.Printf("should_continue: unusable reply for %s: %v", o.persona.ID, err)
		return true, ""
	}
	if thought := strings.TrimSpace(decision.Thought); thought != "" {
		o.AddThought(thought, memory.Unrated())
	}
	return decision.Continue, strings.TrimSpace(decision.Utterance)
}
