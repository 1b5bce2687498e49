package decode

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChatReply is the structured shape requested from the completion service on
// every dialogue turn. Only Text is required; everything else degrades to a
// zero value when missing or invalid.
type ChatReply struct {
	Text        string `json:"text"`
	Mood        string `json:"mood"`
	Intent      string `json:"intent"`
	Observation string `json:"observation"`
}

func (r *ChatReply) UnmarshalJSON(data []byte) error {
	// Models drift between "text" and "response" for the reply field.
	var aux struct {
		Text        string          `json:"text"`
		Response    string          `json:"response"`
		Mood        string          `json:"mood"`
		Intent      string          `json:"intent"`
		Observation json.RawMessage `json:"observation"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Text = aux.Text
	if r.Text == "" {
		r.Text = aux.Response
	}
	r.Mood = aux.Mood
	r.Intent = aux.Intent
	var obs string
	if len(aux.Observation) > 0 && string(aux.Observation) != "null" {
		if err := json.Unmarshal(aux.Observation, &obs); err == nil {
			r.Observation = obs
		}
	}
	return nil
}

// DecodeChatReply recovers a ChatReply from a raw completion. A reply with
// no usable text is an error; the caller falls back to the raw text itself.
func DecodeChatReply(raw string) (ChatReply, error) {
	var reply ChatReply
	if err := FirstObject(raw, &reply); err != nil {
		return ChatReply{}, err
	}
	if strings.TrimSpace(reply.Text) == "" {
		return ChatReply{}, fmt.Errorf("chat reply has no text field")
	}
	return reply, nil
}

// Rating is one entry of the batch-importance reply.
type Rating struct {
	ID    int
	Value int
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID         flexInt  `json:"id"`
		Value      *float64 `json:"value"`
		Importance *float64 `json:"importance"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.ID = int(aux.ID)
	switch {
	case aux.Value != nil:
		r.Value = int(*aux.Value)
	case aux.Importance != nil:
		r.Value = int(*aux.Importance)
	default:
		return fmt.Errorf("rating for id %d has no value", r.ID)
	}
	return nil
}

// DecodeRatings recovers the batch-importance array. Individually malformed
// entries are dropped, not fatal to the batch.
func DecodeRatings(raw string) ([]Rating, error) {
	var entries []json.RawMessage
	if err := FirstArray(raw, &entries); err != nil {
		return nil, err
	}
	var out []Rating
	for _, entry := range entries {
		var r Rating
		if err := json.Unmarshal(entry, &r); err != nil {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// PlanEntry is one activity slot of the daily-plan reply.
type PlanEntry struct {
	Time        string `json:"time"`
	Activity    string `json:"activity"`
	Location    string `json:"location"`
	Duration    int    `json:"duration"`
	GoalRelated bool   `json:"goalRelated"`
}

// DecodePlanEntries recovers the daily-plan array, dropping entries with no
// time or activity. Entries with a missing duration default to an hour.
func DecodePlanEntries(raw string) ([]PlanEntry, error) {
	var entries []PlanEntry
	if err := FirstArray(raw, &entries); err != nil {
		return nil, err
	}
	var out []PlanEntry
	for _, e := range entries {
		if strings.TrimSpace(e.Time) == "" || strings.TrimSpace(e.Activity) == "" {
			continue
		}
		if e.Duration <= 0 {
			e.Duration = 60
		}
		out = append(out, e)
	}
	return out, nil
}

// Decision is the shape of the should-continue-conversation reply.
type Decision struct {
	Thought   string `json:"thought"`
	Continue  bool   `json:"continue"`
	Utterance string `json:"utterance"`
}

func DecodeDecision(raw string) (Decision, error) {
	var d Decision
	if err := FirstObject(raw, &d); err != nil {
		return Decision{}, err
	}
	return d, nil
}
