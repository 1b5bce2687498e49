package agent

import (
	"context"

	"npcmind/internal/agent/decode"
	"npcmind/internal/agent/memory"
	"npcmind/internal/llm"
)

const evaluatorBatchCap = 20

// evaluateImportance back-fills ratings for unrated records in one batch
// completion. Records the model skipped, unknown ids, and malformed entries
// are left untouched; a reply that cannot be decoded at all changes nothing.
func (o *Orchestrator) evaluateImportance(ctx context.Context) {
	ctx = llm.WithOperationType(ctx, "importance")

	all := o.store.All()
	var unrated []memory.Record
	for i := len(all) - 1; i >= 0 && len(unrated) < evaluatorBatchCap; i-- {
		if !all[i].Importance.IsRated() {
			unrated = append(unrated, all[i])
		}
	}
	if len(unrated) == 0 {
		return
	}
	// Restore creation order for the prompt.
	for i, j := 0, len(unrated)-1; i < j; i, j = i+1, j-1 {
		unrated[i], unrated[j] = unrated[j], unrated[i]
	}

	known := make(map[int]bool, len(unrated))
	for _, rec := range unrated {
		known[rec.ID] = true
	}

	raw, err := o.llm.CompleteJSON(ctx, llm.JSONCompletionRequest{
		SystemPrompt: "You rate memory importance for simulation characters. Output JSON only.",
		UserPrompt:   importancePrompt(o.persona, unrated),
		MaxTokens:    800,
	})
	if err != nil {
		o.dbg.Printf("importance: completion failed for %s: %v", o.persona.ID, err)
		return
	}

	ratings, err := decode.DecodeRatings(raw)
	if err != nil {
		o.dbg.Printf("importance: unusable reply for %s: %v", o.persona.ID, err)
		return
	}

	applied := 0
	for _, r := range ratings {
		if !known[r.ID] {
			continue
		}
		if err := o.store.UpdateImportance(r.ID, r.Value); err != nil {
			o.dbg.Printf("importance: update failed for %s record %d: %v", o.persona.ID, r.ID, err)
			continue
		}
		applied++
	}
	o.dbg.Printf("importance: rated %d/%d records for %s", applied, len(unrated), o.persona.ID)
}
