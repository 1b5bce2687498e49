package memory

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind tags what a memory record represents.
type Kind string

const (
	KindObservation Kind = "observation"
	KindReflection  Kind = "reflection"
	KindPlan        Kind = "plan"
	KindKnowledge   Kind = "knowledge"
	KindThought     Kind = "thought"
)

// Importance is an explicit Unrated | Rated(1..10) variant. A record starts
// Unrated until the batch evaluator back-fills it; Unrated is never a real
// score anywhere outside the two retrieval/ranking formulas, which treat it
// as exactly 5.
type Importance struct {
	rated bool
	value int
}

// Unrated returns the not-yet-evaluated state.
func Unrated() Importance { return Importance{} }

// Rated returns an evaluated importance, clamped to [1,10].
func Rated(value int) Importance {
	return Importance{rated: true, value: clampImportance(value)}
}

func clampImportance(value int) int {
	if value < 1 {
		return 1
	}
	if value > 10 {
		return 10
	}
	return value
}

func (i Importance) IsRated() bool { return i.rated }

// Value returns the rating and whether one has been assigned.
func (i Importance) Value() (int, bool) { return i.value, i.rated }

// ScoreValue is the value used by the scoring formulas only: the rating, or
// mid-scale 5 when unrated.
func (i Importance) ScoreValue() int {
	if !i.rated {
		return 5
	}
	return i.value
}

func (i Importance) String() string {
	if !i.rated {
		return "unrated"
	}
	return fmt.Sprintf("%d", i.value)
}

// MarshalJSON encodes Unrated as null so persisted records round-trip the
// tagged state.
func (i Importance) MarshalJSON() ([]byte, error) {
	if !i.rated {
		return []byte("null"), nil
	}
	return json.Marshal(i.value)
}

func (i *Importance) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*i = Unrated()
		return nil
	}
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*i = Rated(value)
	return nil
}

// Record is a single entry in a character's memory stream. Identifiers are
// assigned in creation order and never reused. Once created, a record is
// immutable except for Importance and LastAccess.
type Record struct {
	ID         int        `json:"id"`
	Kind       Kind       `json:"kind"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	LastAccess time.Time  `json:"last_access"`
	Importance Importance `json:"importance"`
	Sources    []int      `json:"sources,omitempty"`
}

// Retrieved is a record plus its transient retrieval score. Never persisted.
type Retrieved struct {
	Record
	Score     float64
	Recency   float64
	Relevance float64
	ImpScore  float64
}
