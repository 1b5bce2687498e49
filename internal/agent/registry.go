package agent

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"npcmind/internal/agent/memory"
	"npcmind/internal/debug"
	"npcmind/internal/events"
	"npcmind/internal/world"
)

// Registry owns every character orchestrator in the process and the shared
// collaborators they are built with. Core logic never reaches for globals;
// the registry is constructed once in main and handed down.
type Registry struct {
	completer Completer
	bus       *events.Bus
	world     world.World
	dataDir   string
	dbg       *debug.Logger

	mu     sync.Mutex
	agents map[string]*Orchestrator
}

func NewRegistry(completer Completer, bus *events.Bus, w world.World, dataDir string, dbg *debug.Logger) *Registry {
	return &Registry{
		completer: completer,
		bus:       bus,
		world:     w,
		dataDir:   dataDir,
		dbg:       dbg,
		agents:    make(map[string]*Orchestrator),
	}
}

// Create builds an orchestrator for the persona, backed by a JSONL memory
// log under <dataDir>/npcs/<id>/memories.jsonl, and registers it.
func (r *Registry) Create(persona Persona) (*Orchestrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[persona.ID]; exists {
		return nil, fmt.Errorf("character %q already registered", persona.ID)
	}

	logPath := filepath.Join(r.dataDir, "npcs", persona.ID, "memories.jsonl")
	log, err := memory.NewJSONLLog(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open memory log for %s: %w", persona.ID, err)
	}
	store, err := memory.NewStore(log, r.dbg)
	if err != nil {
		return nil, fmt.Errorf("failed to load memories for %s: %w", persona.ID, err)
	}

	orch := NewOrchestrator(persona, store, r.completer, r.bus, r.world, r.dbg)
	r.agents[persona.ID] = orch
	return orch, nil
}

// Get returns the orchestrator for a character id.
func (r *Registry) Get(id string) (*Orchestrator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	orch, ok := r.agents[id]
	return orch, ok
}

// All returns every registered orchestrator, ordered by character id.
func (r *Registry) All() []*Orchestrator {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.agents))
	for id := range r.agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Orchestrator, len(ids))
	for i, id := range ids {
		out[i] = r.agents[id]
	}
	return out
}
