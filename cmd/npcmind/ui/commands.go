package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"npcmind/internal/agent"
	"npcmind/internal/events"
	"npcmind/internal/observability"
)

const chatTimeout = 60 * time.Second

type chatReplyMsg struct {
	name  string
	reply string
}

type characterEventMsg struct {
	event events.Event
}

type animationTickMsg struct{}

type refreshTickMsg struct{}

func animationTimer() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// refreshTimer keeps the status pane's clock moving between events.
func refreshTimer() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

func sendChat(orch *agent.Orchestrator, input string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()
		ctx = observability.WithCharacterID(ctx, orch.Persona().ID)

		reply := orch.Chat(ctx, "Player", input)
		return chatReplyMsg{name: orch.Persona().Name, reply: reply}
	}
}

func waitForEvent(ch chan events.Event) tea.Cmd {
	return func() tea.Msg {
		return characterEventMsg{event: <-ch}
	}
}
