// npcmind demo: a village of LLM-driven characters with long-term memory,
// daily plans, and moods, chatted with through a Bubble Tea TUI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"npcmind/internal/logging"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "review", "--review":
			runReviewMode()
			return
		case "rate":
			if len(os.Args) < 4 {
				fmt.Println("Usage: npcmind rate <id> <rating> [notes]")
				return
			}
			runRatingMode()
			return
		}
	}

	model, cleanup, err := createApp()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func openCompletionLog() (*logging.CompletionLogger, error) {
	dataDir := os.Getenv("NPCMIND_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	return logging.NewCompletionLogger(filepath.Join(dataDir, "completions.db"))
}

func runReviewMode() {
	logger, err := openCompletionLog()
	if err != nil {
		fmt.Printf("Failed to open completion database: %v\n", err)
		return
	}
	defer logger.Close()

	completions, err := logger.GetRecentCompletions(10)
	if err != nil {
		fmt.Printf("Failed to get completions: %v\n", err)
		return
	}
	if len(completions) == 0 {
		fmt.Println("No completions found. Run the demo first to generate data!")
		return
	}

	fmt.Printf("Recent completions (%d):\n\n", len(completions))
	for _, comp := range completions {
		var metadata logging.CompletionMetadata
		if err := json.Unmarshal([]byte(comp.Metadata), &metadata); err == nil {
			fmt.Printf("[%d] %s | %s | %s | %v\n",
				comp.ID,
				comp.Timestamp.Format("15:04:05"),
				comp.CharacterID,
				comp.Operation,
				metadata.ResponseTime)
		} else {
			fmt.Printf("[%d] %s | %s | %s\n", comp.ID, comp.Timestamp.Format("15:04:05"), comp.CharacterID, comp.Operation)
		}

		fmt.Printf("Response: %s\n", comp.Response)
		if comp.Rating != nil {
			fmt.Printf("Rating: %d/5", *comp.Rating)
			if comp.Notes != nil {
				fmt.Printf(" - %s", *comp.Notes)
			}
		} else {
			fmt.Printf("Rating: not rated")
		}
		fmt.Println("\n" + strings.Repeat("-", 50))
	}

	fmt.Println("\nTo rate a completion: npcmind rate <id> <rating> [notes]")
}

func runRatingMode() {
	id, err := strconv.Atoi(os.Args[2])
	if err != nil {
		fmt.Printf("Invalid ID: %v\n", err)
		return
	}
	rating, err := strconv.Atoi(os.Args[3])
	if err != nil {
		fmt.Printf("Invalid rating: %v\n", err)
		return
	}

	var notes string
	if len(os.Args) > 4 {
		notes = strings.Join(os.Args[4:], " ")
	}

	logger, err := openCompletionLog()
	if err != nil {
		fmt.Printf("Failed to open completion database: %v\n", err)
		return
	}
	defer logger.Close()

	if err := logger.RateCompletion(id, rating, notes); err != nil {
		fmt.Printf("Failed to rate completion: %v\n", err)
		return
	}

	fmt.Printf("Rated completion %d as %d/5", id, rating)
	if notes != "" {
		fmt.Printf(" with notes: %s", notes)
	}
	fmt.Println()
}
