package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"npcmind/internal/agent/decode"
	"npcmind/internal/agent/memory"
	"npcmind/internal/agent/plan"
	"npcmind/internal/llm"
)

const (
	notableObservationCount = 5
	notableImportanceFloor  = 7
	goalMemoryCount         = 3
)

// defaultSchedule is the deterministic fallback when planning fails: a
// character with no plan still needs a day.
var defaultSchedule = []plan.Item{
	{Start: "08:00", Activity: "eat breakfast", Duration: 60, Status: plan.StatusPending},
	{Start: "09:00", Activity: "work", Duration: 180, Status: plan.StatusPending},
	{Start: "12:00", Activity: "eat lunch", Duration: 60, Status: plan.StatusPending},
	{Start: "13:00", Activity: "work", Duration: 240, Status: plan.StatusPending},
	{Start: "17:00", Activity: "relax", Duration: 180, Status: plan.StatusPending},
	{Start: "20:00", Activity: "eat dinner and wind down", Duration: 120, Status: plan.StatusPending},
}

// generatePlan asks the completion service for today's schedule, grounded in
// knowledge, notable recent observations, yesterday's outcome, and memories
// tied to the character's goals. Any failure falls back to the default
// schedule; a successful plan is summarized into a plan-kind record.
func (o *Orchestrator) generatePlan(ctx context.Context) []plan.Item {
	ctx = llm.WithOperationType(ctx, "plan")

	in := planInputs{
		knowledge:    o.store.ByKind(memory.KindKnowledge),
		notable:      o.notableObservations(),
		yesterday:    o.yesterdayAccount(),
		goalMemories: o.store.Retrieve(strings.Join(o.persona.Goals, " "), goalMemoryCount),
	}

	raw, err := o.llm.CompleteJSON(ctx, llm.JSONCompletionRequest{
		SystemPrompt: "You are a daily scheduler for simulation characters. Output JSON only.",
		UserPrompt:   planPrompt(o.persona, in),
		MaxTokens:    1200,
	})
	if err != nil {
		o.dbg.Printf("plan: completion failed for %s: %v", o.persona.ID, err)
		return defaultPlanCopy()
	}

	entries, err := decode.DecodePlanEntries(raw)
	if err != nil || len(entries) == 0 {
		o.dbg.Printf("plan: unusable reply for %s: %v", o.persona.ID, err)
		return defaultPlanCopy()
	}

	items := make([]plan.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, plan.Item{
			Start:       e.Time,
			Activity:    e.Activity,
			Location:    e.Location,
			Duration:    e.Duration,
			Status:      plan.StatusPending,
			GoalRelated: e.GoalRelated,
		})
	}

	if _, err := o.store.Append(memory.KindPlan, "Today's plan: "+planSummary(items), memory.Rated(5), nil); err != nil {
		o.dbg.Printf("plan: failed to record for %s: %v", o.persona.ID, err)
	}
	return items
}

// notableObservations picks the most recent observations rated at or above
// the notable floor. Unrated observations never qualify; notability requires
// an actual rating.
func (o *Orchestrator) notableObservations() []memory.Record {
	obs := o.store.ByKind(memory.KindObservation)
	var notable []memory.Record
	for i := len(obs) - 1; i >= 0 && len(notable) < notableObservationCount; i-- {
		if v, ok := obs[i].Importance.Value(); ok && v >= notableImportanceFloor {
			notable = append(notable, obs[i])
		}
	}
	sort.SliceStable(notable, func(i, j int) bool { return notable[i].ID < notable[j].ID })
	return notable
}

// yesterdayAccount describes how the previous day went: the latest
// day-completed observation, else the latest plan record, else a first-day
// marker.
func (o *Orchestrator) yesterdayAccount() string {
	all := o.store.All()
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Kind == memory.KindObservation && strings.HasPrefix(all[i].Content, "The day is over.") {
			return all[i].Content
		}
	}
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Kind == memory.KindPlan {
			return all[i].Content
		}
	}
	return "This is the character's first day."
}

func defaultPlanCopy() []plan.Item {
	out := make([]plan.Item, len(defaultSchedule))
	copy(out, defaultSchedule)
	return out
}

func planSummary(items []plan.Item) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = fmt.Sprintf("%s %s", item.Start, item.Activity)
	}
	return strings.Join(parts, "; ")
}
