package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"npcmind/internal/agent"
	"npcmind/internal/clock"
	"npcmind/internal/debug"
	"npcmind/internal/events"
	"npcmind/internal/logging"
)

// Loggers bundles the logging collaborators the UI needs.
type Loggers struct {
	Debug      *debug.Logger
	Completion *logging.CompletionLogger
}

// Model is the Bubble Tea state for the chat demo: a message pane, an input
// line, and a status column rendering every character's scratch state.
type Model struct {
	registry *agent.Registry
	clock    *clock.Clock
	eventCh  chan events.Event
	loggers  Loggers

	messages       []string
	input          string
	width          int
	height         int
	loading        bool
	animationFrame int
	selected       int
}

func NewModel(registry *agent.Registry, clk *clock.Clock, eventCh chan events.Event, loggers Loggers) Model {
	messages := []string{}
	if loggers.Debug.IsEnabled() {
		messages = append(messages,
			"[DEBUG] Debug logging active",
			fmt.Sprintf("[DEBUG] %d characters registered", len(registry.All())),
			"")
	}
	messages = append(messages, "Talk to the villagers. Tab switches who you address; q or Ctrl+C quits.", "")

	return Model{
		registry: registry,
		clock:    clk,
		eventCh:  eventCh,
		loggers:  loggers,
		messages: messages,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.eventCh), refreshTimer())
}

// selectedAgent returns the character currently addressed, nil when none
// are registered.
func (m Model) selectedAgent() *agent.Orchestrator {
	all := m.registry.All()
	if len(all) == 0 {
		return nil
	}
	return all[m.selected%len(all)]
}
