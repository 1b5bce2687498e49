package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const statusWidth = 34

func (m Model) View() string {
	inputHeight := 3
	chatHeight := m.height - inputHeight
	chatWidth := m.width - statusWidth

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7"))

	userStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	eventStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	debugStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	loadingStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("6"))

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(m.width - 4)

	chatPanel := lipgloss.NewStyle().
		Width(chatWidth).
		Height(chatHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1)

	statusPanel := lipgloss.NewStyle().
		Width(statusWidth - 2).
		Height(chatHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1)

	maxMessages := chatHeight - 2
	if maxMessages < 1 {
		maxMessages = 1
	}
	visibleMessages := m.messages
	if len(visibleMessages) > maxMessages {
		visibleMessages = visibleMessages[len(visibleMessages)-maxMessages:]
	}

	contentWidth := chatWidth - 4
	var chatContent strings.Builder
	for _, message := range visibleMessages {
		switch {
		case message == "":
			chatContent.WriteString("\n")
		case message == loadingMarker:
			chatContent.WriteString(loadingStyle.Render(getLoadingAnimation(m.animationFrame)) + "\n")
		case strings.HasPrefix(message, "> "):
			chatContent.WriteString(userStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		case strings.HasPrefix(message, "* "):
			chatContent.WriteString(eventStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		case strings.HasPrefix(message, "[DEBUG] "):
			chatContent.WriteString(debugStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		default:
			chatContent.WriteString(messageStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		}
	}

	chat := chatPanel.Render(chatContent.String())
	status := statusPanel.Render(m.renderStatus())
	top := lipgloss.JoinHorizontal(lipgloss.Top, chat, status)
	input := inputStyle.Render(m.input + "│")

	return top + "\n" + input
}

func (m Model) renderStatus() string {
	titleStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Day %d  %s  (%s)", m.clock.Day(), m.clock.Label(), m.clock.Period())))
	b.WriteString("\n\n")

	all := m.registry.All()
	for i, orch := range all {
		p := orch.Persona()
		sc := orch.State()

		name := p.Name
		if i == m.selected%len(all) {
			name = "▸ " + name
		} else {
			name = "  " + name
		}
		b.WriteString(titleStyle.Render(name) + "\n")

		state := "awake"
		if !sc.Awake {
			state = "asleep"
		}
		fmt.Fprintf(&b, "  %s, %s\n", state, sc.Mood)
		fmt.Fprintf(&b, "  %s\n", sc.Activity)
		fmt.Fprintf(&b, "  @ %s\n", sc.Location)
		if items := orch.PlanItems(); len(items) > 0 {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  %d plan items", len(items))) + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("tab: switch  q: quit"))
	return b.String()
}

func wrapAndIndent(text string, width int, indent string) string {
	if len(text) <= width {
		return indent + text
	}

	var result strings.Builder
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + text
	}

	currentLine := indent + words[0]
	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result.WriteString(currentLine + "\n")
			currentLine = indent + word
		}
	}
	result.WriteString(currentLine)
	return result.String()
}

func getLoadingAnimation(frame int) string {
	arc := []string{"◜", "◠", "◝", "◞", "◡", "◟"}
	return arc[frame%len(arc)]
}
