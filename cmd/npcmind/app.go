package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"npcmind/cmd/npcmind/ui"
	"npcmind/internal/agent"
	"npcmind/internal/clock"
	"npcmind/internal/debug"
	"npcmind/internal/events"
	"npcmind/internal/llm"
	"npcmind/internal/logging"
	"npcmind/internal/mcp"
	"npcmind/internal/observability"
	"npcmind/internal/world"
)

// simulated minutes per real second
const defaultTimeScale = 5

func createApp() (ui.Model, func(), error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return ui.Model{}, nil, fmt.Errorf("please set OPENAI_API_KEY environment variable")
	}

	debugMode := os.Getenv("DEBUG") == "1" || os.Getenv("DEBUG") == "true"
	debugLogger := debug.NewLogger(debugMode)

	dataDir := os.Getenv("NPCMIND_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}

	ctx := context.Background()
	tracingConfig := observability.LoadConfigFromEnv()
	tracerProvider, err := observability.InitTracing(ctx, tracingConfig)
	if err != nil {
		debugLogger.Printf("Failed to initialize tracing: %v", err)
	} else if tracerProvider.IsEnabled() {
		debugLogger.Println("OpenTelemetry tracing initialized and enabled")
	} else {
		debugLogger.Println("OpenTelemetry tracing disabled (set OTEL_TRACES_ENABLED=true to enable)")
	}

	llmService := llm.NewService(apiKey, debugLogger)

	completionLogger, err := logging.NewCompletionLogger(filepath.Join(dataDir, "completions.db"))
	if err != nil {
		return ui.Model{}, nil, fmt.Errorf("failed to initialize completion logger: %w", err)
	}
	llmService.SetCompletionLogger(completionLogger)

	w, worldCleanup, err := createWorld(ctx, debugLogger)
	if err != nil {
		return ui.Model{}, nil, err
	}

	bus := events.NewBus()
	eventCh := make(chan events.Event, 64)
	bus.SubscribeAll(func(ev events.Event) {
		select {
		case eventCh <- ev:
		default:
			debugLogger.Printf("event channel full, dropping %s for %s", ev.Type, ev.CharacterID)
		}
	})

	registry := agent.NewRegistry(llmService, bus, w, dataDir, debugLogger)
	if err := populateVillage(registry, w); err != nil {
		return ui.Model{}, nil, fmt.Errorf("failed to set up village: %w", err)
	}

	clk := newSimulationClock(registry, debugLogger)
	ticker := clock.NewTicker(clk, defaultTimeScale)

	loggers := ui.Loggers{Debug: debugLogger, Completion: completionLogger}
	model := ui.NewModel(registry, clk, eventCh, loggers)

	cleanup := func() {
		ticker.Stop()
		if worldCleanup != nil {
			worldCleanup()
		}
		completionLogger.Close()
		if tracerProvider != nil {
			tracerProvider.Shutdown(context.Background())
		}
	}
	return model, cleanup, nil
}

// createWorld picks the world backend: an external MCP server when
// NPCMIND_WORLD_MCP names its command, else the in-process grid.
func createWorld(ctx context.Context, dbg *debug.Logger) (world.World, func(), error) {
	command := os.Getenv("NPCMIND_WORLD_MCP")
	if command == "" {
		return buildVillageGrid(), nil, nil
	}

	client := mcp.NewWorldClient(dbg)
	if err := client.Connect(ctx, command); err != nil {
		return nil, nil, fmt.Errorf("failed to connect world server: %w", err)
	}
	return client, func() { client.Close() }, nil
}

// newSimulationClock wires the calendar to every character: ticks advance
// plans and perception, morning wakes them, night puts them to bed.
func newSimulationClock(registry *agent.Registry, dbg *debug.Logger) *clock.Clock {
	clk := clock.New(1, 6, 55)

	clk.OnTime(func(day int, label string) {
		for _, orch := range registry.All() {
			orch.Tick(label)
			orch.Perceive()
		}
	})

	clk.OnPeriod(func(day int, period clock.Period) {
		switch period {
		case clock.Morning:
			for _, orch := range registry.All() {
				if orch.State().Awake {
					continue
				}
				ctx := observability.WithCharacterID(context.Background(), orch.Persona().ID)
				orch.WakeUp(ctx, "07:00")
			}
		case clock.Night:
			for _, orch := range registry.All() {
				if !orch.State().Awake {
					continue
				}
				ctx := observability.WithCharacterID(context.Background(), orch.Persona().ID)
				orch.Sleep(ctx)
			}
		}
		dbg.Printf("clock: day %d entered %s", day, period)
	})

	return clk
}
