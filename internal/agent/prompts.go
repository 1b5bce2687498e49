package agent

import (
	"fmt"
	"strings"

	"npcmind/internal/agent/memory"
	"npcmind/internal/agent/plan"
)

// Prompt builders for every cognitive operation. All output is English text;
// structured replies are requested as JSON and recovered leniently by the
// decode package.

func chatSystemPrompt(p Persona, sc Scratch, active, next *plan.Item) string {
	var b strings.Builder
	b.WriteString("You are roleplaying a character in a village simulation. Stay in character.\n\n")
	b.WriteString(p.Summary())
	b.WriteString("\nCurrent state:\n")
	fmt.Fprintf(&b, "- Location: %s\n", sc.Location)
	fmt.Fprintf(&b, "- Activity: %s\n", sc.Activity)
	fmt.Fprintf(&b, "- Mood: %s\n", sc.Mood)
	if sc.TimeLabel != "" {
		fmt.Fprintf(&b, "- Time: %s\n", sc.TimeLabel)
	}
	if active != nil {
		fmt.Fprintf(&b, "- Current plan: %s\n", active)
	}
	if next != nil {
		fmt.Fprintf(&b, "- Up next: %s\n", next)
	}
	b.WriteString("\nReply with a single JSON object:\n")
	b.WriteString(`{"text": "what you say", "mood": "happy|neutral|sad|angry|fearful|excited|curious", "intent": "what you want from this exchange", "observation": "something notable about the other person, or null"}` + "\n")
	b.WriteString("Keep text to one or two sentences, in your speech style.")
	return b.String()
}

func chatUserPrompt(retrieved []memory.Retrieved, history []Turn, speaker, utterance string) string {
	var b strings.Builder
	if len(retrieved) > 0 {
		b.WriteString("Relevant memories:\n")
		for _, r := range retrieved {
			fmt.Fprintf(&b, "- [%s] %s\n", r.Kind, r.Content)
		}
		b.WriteString("\n")
	}
	if len(history) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, t := range history {
			fmt.Fprintf(&b, "%s: %s\n", t.Speaker, t.Text)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s says: %q", speaker, utterance)
	return b.String()
}

func importancePrompt(p Persona, records []memory.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rate how important each memory is to %s, a %s.\n", p.Name, p.Occupation)
	b.WriteString("Scale 1-10: 1 is mundane routine, 10 is life-changing.\n\nMemories:\n")
	for _, rec := range records {
		fmt.Fprintf(&b, "[%d] %s\n", rec.ID, rec.Content)
	}
	b.WriteString("\nReply with a JSON array only: [{\"id\": 1, \"importance\": 5}, ...]")
	return b.String()
}

func reflectionPrompt(p Persona, records []memory.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. These are your recent significant memories:\n", p.Name)
	for _, rec := range records {
		fmt.Fprintf(&b, "- %s\n", rec.Content)
	}
	b.WriteString("\nWrite one short first-person insight that connects or interprets them. One or two sentences, no preamble.")
	return b.String()
}

// planInputs collects the five evidence sections the planner assembles.
type planInputs struct {
	knowledge    []memory.Record
	notable      []memory.Record // recent high-importance observations
	yesterday    string
	goalMemories []memory.Retrieved
}

func planPrompt(p Persona, in planInputs) string {
	var b strings.Builder
	b.WriteString("Plan this character's day.\n\n")
	b.WriteString(p.Summary())

	b.WriteString("\nWhat the character knows about the world:\n")
	if len(in.knowledge) == 0 {
		b.WriteString("(no knowledge)\n")
	}
	for _, rec := range in.knowledge {
		fmt.Fprintf(&b, "- %s\n", rec.Content)
	}

	b.WriteString("\nNotable recent observations:\n")
	if len(in.notable) == 0 {
		b.WriteString("(no notable change)\n")
	}
	for _, rec := range in.notable {
		fmt.Fprintf(&b, "- %s\n", rec.Content)
	}

	fmt.Fprintf(&b, "\nYesterday: %s\n", in.yesterday)

	if len(in.goalMemories) > 0 {
		b.WriteString("\nMemories related to the character's goals:\n")
		for _, r := range in.goalMemories {
			fmt.Fprintf(&b, "- %s\n", r.Content)
		}
	}

	b.WriteString("\nProduce a JSON array of schedule entries covering waking hours:\n")
	b.WriteString(`[{"time": "08:00", "activity": "...", "location": "...", "duration": 60, "goalRelated": false}, ...]` + "\n")
	b.WriteString("Rules: times ascending, durations in minutes, locations only from the knowledge above. ")
	b.WriteString("If a recent observation contradicts older knowledge, trust the observation. ")
	b.WriteString("Include at least one entry advancing a numbered goal.")
	return b.String()
}

func greetPrompt(p Persona, sc Scratch) string {
	return fmt.Sprintf(
		"You are %s, a %s, currently %s at %s, feeling %s.\nSomeone approaches you for the first time today. Greet them in one sentence, in your speech style.\n\n%s",
		p.Name, p.Occupation, sc.Activity, sc.Location, sc.Mood, p.Summary())
}

func shouldInitiatePrompt(p Persona, sc Scratch, observation string) string {
	return fmt.Sprintf(
		"%s\nCurrently %s at %s, feeling %s.\n\nYou notice: %s\n\nWould this character stop what they are doing and speak up about it? Answer YES or NO only.",
		p.Summary(), sc.Activity, sc.Location, sc.Mood, observation)
}

func spontaneousPrompt(p Persona, sc Scratch, observation string) string {
	return fmt.Sprintf(
		"%s\nCurrently %s at %s, feeling %s.\n\nYou notice: %s\n\nSay one short line out loud reacting to it, in your speech style. Reply with the line only.",
		p.Summary(), sc.Activity, sc.Location, sc.Mood, observation)
}

func crossCharacterPrompt(p Persona, sc Scratch, otherName string, memories []memory.Retrieved, incoming string) string {
	var b strings.Builder
	b.WriteString(p.Summary())
	fmt.Fprintf(&b, "\nCurrently %s at %s, feeling %s.\n", sc.Activity, sc.Location, sc.Mood)
	if len(memories) > 0 {
		fmt.Fprintf(&b, "\nWhat you remember about %s:\n", otherName)
		for _, r := range memories {
			fmt.Fprintf(&b, "- %s\n", r.Content)
		}
	}
	if incoming == "" {
		fmt.Fprintf(&b, "\nYou run into %s. Say one short line to them, in your speech style. Reply with the line only.", otherName)
	} else {
		fmt.Fprintf(&b, "\n%s says to you: %q\nReply with one short line in your speech style. Reply with the line only.", otherName, incoming)
	}
	return b.String()
}

func shouldContinuePrompt(p Persona, next plan.Item, turns int) string {
	return fmt.Sprintf(
		"%s\nYou are mid-conversation (%d exchanges so far) and your next planned activity is %s.\n\nDecide whether to keep talking or excuse yourself. Reply with a JSON object:\n{\"thought\": \"your private reasoning\", \"continue\": true, \"utterance\": \"what you say if you leave, else empty\"}",
		p.Summary(), turns, next.String())
}
