package agent

import (
	"context"
	"sort"
	"strings"

	"npcmind/internal/agent/memory"
	"npcmind/internal/events"
	"npcmind/internal/llm"
)

const (
	reflectionWindow     = 20
	reflectionMinRecords = 5
	reflectionTopRecords = 10
	reflectionImportance = 8
)

// reflect synthesizes one insight from the character's recent memories. It
// is a no-op with fewer than five recent records, and a logged no-op on
// completion failure.
func (o *Orchestrator) reflect(ctx context.Context) {
	ctx = llm.WithOperationType(ctx, "reflection")

	all := o.store.All()
	start := len(all) - reflectionWindow
	if start < 0 {
		start = 0
	}
	recent := all[start:]
	if len(recent) < reflectionMinRecords {
		return
	}

	ranked := make([]memory.Record, len(recent))
	copy(ranked, recent)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance.ScoreValue() > ranked[j].Importance.ScoreValue()
	})
	if len(ranked) > reflectionTopRecords {
		ranked = ranked[:reflectionTopRecords]
	}

	raw, err := o.llm.CompleteText(ctx, llm.TextCompletionRequest{
		SystemPrompt: "You voice a simulation character's inner monologue. Reply with the insight only.",
		UserPrompt:   reflectionPrompt(o.persona, ranked),
		MaxTokens:    300,
	})
	if err != nil {
		o.dbg.Printf("reflection: completion failed for %s: %v", o.persona.ID, err)
		return
	}
	insight := strings.TrimSpace(raw)
	if insight == "" {
		o.dbg.Printf("reflection: empty reply for %s", o.persona.ID)
		return
	}

	sources := make([]int, len(ranked))
	for i, rec := range ranked {
		sources[i] = rec.ID
	}

	if _, err := o.store.Append(memory.KindReflection, insight, memory.Rated(reflectionImportance), sources); err != nil {
		o.dbg.Printf("reflection: failed to record for %s: %v", o.persona.ID, err)
		return
	}
	o.bus.Publish(events.New(o.persona.ID, events.ReflectionCreated, insight))
}

// startReflectionCycle runs importance evaluation then reflection on a
// background goroutine. A second trigger while one cycle is outstanding is
// refused.
func (o *Orchestrator) startReflectionCycle(ctx context.Context) bool {
	if !o.cycle.tryStart() {
		o.dbg.Printf("reflection: cycle already running for %s", o.persona.ID)
		return false
	}
	go func() {
		defer o.cycle.finish()
		o.evaluateImportance(ctx)
		o.reflect(ctx)
	}()
	return true
}
