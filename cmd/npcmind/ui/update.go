package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case chatReplyMsg:
		return m.handleChatReply(msg)
	case characterEventMsg:
		return m.handleCharacterEvent(msg)
	case animationTickMsg:
		return m.handleAnimation()
	case refreshTickMsg:
		return m, refreshTimer()
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	m.messages = dropLoadingMarker(m.messages)
	m.messages = append(m.messages, fmt.Sprintf("%s: %s", msg.name, msg.reply), "")
	return m, nil
}

func (m Model) handleCharacterEvent(msg characterEventMsg) (tea.Model, tea.Cmd) {
	ev := msg.event
	name := ev.CharacterID
	if orch, ok := m.registry.Get(ev.CharacterID); ok {
		name = orch.Persona().Name
	}
	m.messages = append(m.messages, fmt.Sprintf("* %s [%s] %s", name, ev.Type, ev.Payload))
	return m, waitForEvent(m.eventCh)
}

func (m Model) handleAnimation() (tea.Model, tea.Cmd) {
	if !m.loading {
		return m, nil
	}
	m.animationFrame++
	return m, animationTimer()
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.input == "" {
			return m, tea.Quit
		}
	case "tab":
		if n := len(m.registry.All()); n > 0 {
			m.selected = (m.selected + 1) % n
		}
		return m, nil
	case "enter":
		return m.handleSubmit()
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		return m, nil
	}
	if len(msg.String()) == 1 {
		m.input += msg.String()
	}
	return m, nil
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input)
	if input == "" || m.loading {
		return m, nil
	}
	orch := m.selectedAgent()
	if orch == nil {
		return m, nil
	}

	m.input = ""
	m.loading = true
	m.animationFrame = 0
	m.messages = append(m.messages,
		fmt.Sprintf("> [to %s] %s", orch.Persona().Name, input),
		loadingMarker)
	return m, tea.Batch(sendChat(orch, input), animationTimer())
}

const loadingMarker = "LOADING_ANIMATION"

func dropLoadingMarker(messages []string) []string {
	out := messages[:0]
	for _, msg := range messages {
		if msg != loadingMarker {
			out = append(out, msg)
		}
	}
	return out
}
