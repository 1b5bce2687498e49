// Package percept turns raw world snapshots into natural-language
// observations by diffing against what the character last saw.
package percept

import (
	"fmt"

	"npcmind/internal/agent/memory"
	"npcmind/internal/world"
)

// Observation is one perceived change, ready to store as a memory record.
// Sightings of other characters arrive pre-rated; the rest stay unrated for
// the batch evaluator.
type Observation struct {
	Text       string
	Importance memory.Importance
}

// Translator diffs consecutive snapshots for one character. Not safe for
// concurrent use; the owning orchestrator serializes calls.
type Translator struct {
	seeded bool
	prev   world.Snapshot
}

func NewTranslator() *Translator {
	return &Translator{}
}

// Observe reports what changed since the previous snapshot. The first call
// only seeds the cache: with no prior frame there is nothing "new" to
// notice, and emitting the whole scene would flood the memory stream.
func (t *Translator) Observe(snap world.Snapshot) []Observation {
	if !t.seeded {
		t.seeded = true
		t.prev = snap
		return nil
	}

	var out []Observation

	prevEntities := make(map[string]world.Entity, len(t.prev.Entities))
	for _, e := range t.prev.Entities {
		prevEntities[e.ID] = e
	}
	currEntities := make(map[string]world.Entity, len(snap.Entities))
	for _, e := range snap.Entities {
		currEntities[e.ID] = e
	}

	for _, e := range snap.Entities {
		if _, ok := prevEntities[e.ID]; !ok {
			out = append(out, Observation{
				Text:       fmt.Sprintf("I see %s nearby.", e.Name),
				Importance: memory.Rated(4),
			})
		}
	}
	for _, e := range t.prev.Entities {
		if _, ok := currEntities[e.ID]; !ok {
			out = append(out, Observation{
				Text:       fmt.Sprintf("%s has left my sight.", e.Name),
				Importance: memory.Unrated(),
			})
		}
	}

	prevObjects := make(map[string]world.Object, len(t.prev.Objects))
	for _, o := range t.prev.Objects {
		prevObjects[o.ID] = o
	}
	currObjects := make(map[string]world.Object, len(snap.Objects))
	for _, o := range snap.Objects {
		currObjects[o.ID] = o
	}

	for _, o := range snap.Objects {
		prev, existed := prevObjects[o.ID]
		switch {
		case !existed:
			out = append(out, Observation{
				Text:       fmt.Sprintf("There is %s here (%s).", o.Name, o.State),
				Importance: memory.Unrated(),
			})
		case prev.State != o.State:
			out = append(out, Observation{
				Text:       fmt.Sprintf("%s is now %s (it was %s).", o.Name, o.State, prev.State),
				Importance: memory.Unrated(),
			})
		}
	}
	for _, o := range t.prev.Objects {
		if _, ok := currObjects[o.ID]; !ok {
			out = append(out, Observation{
				Text:       fmt.Sprintf("%s is gone.", o.Name),
				Importance: memory.Unrated(),
			})
		}
	}

	t.prev = snap
	return out
}

// Reset clears the cache; the next Observe seeds again. Used when a
// character teleports or wakes somewhere new.
func (t *Translator) Reset() {
	t.seeded = false
	t.prev = world.Snapshot{}
}
