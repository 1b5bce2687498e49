// Package agent holds the cognition pipeline for one character: persona and
// scratch state, the dialogue orchestrator, and the completion-backed
// evaluator, reflector, and planner that feed its memory stream.
package agent

import (
	"fmt"
	"strings"
)

// Persona is a character's immutable identity. Everything mutable lives in
// Scratch.
type Persona struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Occupation  string   `json:"occupation"`
	Home        string   `json:"home"`
	Traits      []string `json:"traits"`
	Backstory   string   `json:"backstory"`
	Goals       []string `json:"goals"`
	SpeechStyle string   `json:"speech_style"`
}

// Summary renders the persona block used at the top of every prompt, with
// goals numbered so plan replies can reference them.
func (p Persona) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %d, %s. Lives at %s.\n", p.Name, p.Age, p.Occupation, p.Home)
	if len(p.Traits) > 0 {
		fmt.Fprintf(&b, "Traits: %s.\n", strings.Join(p.Traits, ", "))
	}
	if p.Backstory != "" {
		fmt.Fprintf(&b, "Backstory: %s\n", p.Backstory)
	}
	for i, goal := range p.Goals {
		fmt.Fprintf(&b, "Goal %d: %s\n", i+1, goal)
	}
	if p.SpeechStyle != "" {
		fmt.Fprintf(&b, "Speech style: %s\n", p.SpeechStyle)
	}
	return b.String()
}

// Mood is the character's current emotional state.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodAngry   Mood = "angry"
	MoodFearful Mood = "fearful"
	MoodExcited Mood = "excited"
	MoodCurious Mood = "curious"
)

var validMoods = map[Mood]bool{
	MoodHappy:   true,
	MoodNeutral: true,
	MoodSad:     true,
	MoodAngry:   true,
	MoodFearful: true,
	MoodExcited: true,
	MoodCurious: true,
}

// NormalizeMood maps free-text mood labels onto the closed set, falling back
// to neutral for anything unrecognized.
func NormalizeMood(s string) Mood {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if validMoods[m] {
		return m
	}
	return MoodNeutral
}
