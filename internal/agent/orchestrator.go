package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"npcmind/internal/agent/decode"
	"npcmind/internal/agent/memory"
	"npcmind/internal/agent/percept"
	"npcmind/internal/agent/plan"
	"npcmind/internal/debug"
	"npcmind/internal/events"
	"npcmind/internal/llm"
	"npcmind/internal/world"
)

const (
	chatRetrieveCount  = 5
	historyWindow      = 6
	reflectionInterval = 10

	fallbackReply = "Hm? Sorry, I lost my train of thought."
	fallbackGreet = "Oh, hello there."
)

// Turn is one exchange in the rolling conversation history.
type Turn struct {
	Speaker string
	Text    string
}

// Orchestrator runs the full cognition pipeline for one character. Each
// character owns exactly one orchestrator; different characters never share
// state.
type Orchestrator struct {
	persona Persona
	store   *memory.Store
	llm     Completer
	bus     *events.Bus
	world   world.World // nil when the character is not embodied
	percept *percept.Translator
	dbg     *debug.Logger
	cycle   reflectionCycle

	mu        sync.Mutex
	scratch   Scratch
	progress  *plan.Progress
	history   []Turn
	turnCount int
}

func NewOrchestrator(persona Persona, store *memory.Store, completer Completer, bus *events.Bus, w world.World, dbg *debug.Logger) *Orchestrator {
	return &Orchestrator{
		persona: persona,
		store:   store,
		llm:     completer,
		bus:     bus,
		world:   w,
		percept: percept.NewTranslator(),
		dbg:     dbg,
		cycle:   newReflectionCycle(),
		scratch: NewScratch(persona.Home),
	}
}

func (o *Orchestrator) Persona() Persona { return o.persona }

// State returns a copy of the current scratch for rendering.
func (o *Orchestrator) State() Scratch {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.scratch
}

// PlanItems returns a copy of today's schedule, empty when asleep.
func (o *Orchestrator) PlanItems() []plan.Item {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.progress == nil {
		return nil
	}
	return o.progress.Items()
}

// Memories exposes the store for inspection surfaces.
func (o *Orchestrator) Memories() []memory.Record {
	return o.store.All()
}

// Chat handles one inbound utterance from the player and returns what the
// character says back. It never fails: completion errors degrade to a filler
// reply with mood unchanged, and both sides of the exchange are recorded
// either way.
func (o *Orchestrator) Chat(ctx context.Context, speaker, utterance string) string {
	ctx = llm.WithOperationType(ctx, "chat")

	retrieved := o.store.Retrieve(utterance, chatRetrieveCount)

	o.mu.Lock()
	sc := o.scratch
	var active, next *plan.Item
	if o.progress != nil {
		if item, _, ok := o.progress.Active(); ok {
			active = &item
		}
		if item, ok := o.progress.Next(); ok {
			next = &item
		}
	}
	recent := o.recentHistoryLocked()
	o.mu.Unlock()

	raw, err := o.llm.CompleteJSON(ctx, llm.JSONCompletionRequest{
		SystemPrompt: chatSystemPrompt(o.persona, sc, active, next),
		UserPrompt:   chatUserPrompt(retrieved, recent, speaker, utterance),
		MaxTokens:    600,
	})

	var reply decode.ChatReply
	switch {
	case err != nil:
		o.dbg.Printf("chat: completion failed for %s: %v", o.persona.ID, err)
		reply = decode.ChatReply{Text: fallbackReply}
	default:
		parsed, perr := decode.DecodeChatReply(raw)
		if perr != nil {
			// The model answered in prose; use it verbatim.
			reply = decode.ChatReply{Text: strings.TrimSpace(raw)}
		} else {
			reply = parsed
		}
	}
	if strings.TrimSpace(reply.Text) == "" {
		reply.Text = fallbackReply
	}

	if err == nil && reply.Mood != "" {
		o.applyMood(NormalizeMood(reply.Mood))
	}

	o.appendObservation(fmt.Sprintf("%s said to me: %q", speaker, utterance), memory.Unrated())
	replied := fmt.Sprintf("I replied: %q", reply.Text)
	if reply.Intent != "" {
		replied = fmt.Sprintf("I replied: %q (intent: %s)", reply.Text, reply.Intent)
	}
	o.appendObservation(replied, memory.Unrated())

	if obs := strings.TrimSpace(reply.Observation); obs != "" {
		o.appendObservation(fmt.Sprintf("About %s: %s", speaker, obs), memory.Unrated())
		o.bus.Publish(events.New(o.persona.ID, events.ObservationNoted, obs))
	}

	o.mu.Lock()
	o.history = append(o.history,
		Turn{Speaker: speaker, Text: utterance},
		Turn{Speaker: o.persona.Name, Text: reply.Text},
	)
	o.turnCount++
	shouldReflect := o.turnCount >= reflectionInterval
	if shouldReflect {
		o.turnCount = 0
	}
	o.mu.Unlock()

	if shouldReflect {
		o.startReflectionCycle(context.WithoutCancel(ctx))
	}

	return reply.Text
}

// Greet produces a first-contact line from persona and current state.
func (o *Orchestrator) Greet(ctx context.Context) string {
	ctx = llm.WithOperationType(ctx, "greet")

	o.mu.Lock()
	sc := o.scratch
	o.mu.Unlock()

	raw, err := o.llm.CompleteText(ctx, llm.TextCompletionRequest{
		SystemPrompt: "You write a single in-character line of dialogue. Reply with the line only.",
		UserPrompt:   greetPrompt(o.persona, sc),
		MaxTokens:    150,
	})
	if err != nil || strings.TrimSpace(raw) == "" {
		o.dbg.Printf("greet: falling back for %s: %v", o.persona.ID, err)
		return fallbackGreet
	}
	return strings.TrimSpace(raw)
}

// AddThought records an internal thought directly.
func (o *Orchestrator) AddThought(content string, importance memory.Importance) {
	if _, err := o.store.Append(memory.KindThought, content, importance, nil); err != nil {
		o.dbg.Printf("thought: failed to record for %s: %v", o.persona.ID, err)
	}
}

// SeedKnowledge loads world facts as high-importance knowledge records,
// skipping facts already present. Returns how many were added.
func (o *Orchestrator) SeedKnowledge(facts []string) int {
	added := 0
	for _, fact := range facts {
		fact = strings.TrimSpace(fact)
		if fact == "" || o.store.HasKnowledgeLike(fact) {
			continue
		}
		if _, err := o.store.Append(memory.KindKnowledge, fact, memory.Rated(9), nil); err != nil {
			o.dbg.Printf("knowledge: failed to seed for %s: %v", o.persona.ID, err)
			continue
		}
		added++
	}
	return added
}

func (o *Orchestrator) applyMood(mood Mood) {
	o.mu.Lock()
	prev := o.scratch.Mood
	if mood == prev {
		o.mu.Unlock()
		return
	}
	o.scratch.Mood = mood
	o.mu.Unlock()

	o.appendObservation(fmt.Sprintf("My mood shifted from %s to %s.", prev, mood), memory.Unrated())
	o.bus.Publish(events.New(o.persona.ID, events.MoodChanged, string(mood)))
}

func (o *Orchestrator) appendObservation(content string, importance memory.Importance) {
	if _, err := o.store.Append(memory.KindObservation, content, importance, nil); err != nil {
		o.dbg.Printf("observation: failed to record for %s: %v", o.persona.ID, err)
	}
}

func (o *Orchestrator) recentHistoryLocked() []Turn {
	start := len(o.history) - historyWindow
	if start < 0 {
		start = 0
	}
	out := make([]Turn, len(o.history)-start)
	copy(out, o.history[start:])
	return out
}
