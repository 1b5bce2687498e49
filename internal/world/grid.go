package world

import (
	"fmt"
	"strings"
	"sync"
)

// Grid is a minimal in-process world: named locations on a tile grid,
// characters and objects placed on it, Chebyshev-distance vision. Movement
// is instantaneous; the demo clock is coarse enough that travel time adds
// nothing.
type Grid struct {
	mu          sync.Mutex
	visionRange int
	locations   map[string]Position // canonical lowercase name -> position
	characters  map[string]*gridCharacter
	objects     map[string]*Object
}

type gridCharacter struct {
	id       string
	name     string
	position Position
	location string
}

// NewGrid creates an empty world with the given vision range in tiles.
func NewGrid(visionRange int) *Grid {
	if visionRange < 1 {
		visionRange = 5
	}
	return &Grid{
		visionRange: visionRange,
		locations:   make(map[string]Position),
		characters:  make(map[string]*gridCharacter),
		objects:     make(map[string]*Object),
	}
}

// AddLocation registers a named place.
func (g *Grid) AddLocation(name string, pos Position) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locations[strings.ToLower(strings.TrimSpace(name))] = pos
}

// AddCharacter places a character at a registered location.
func (g *Grid) AddCharacter(id, name, location string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	canonical, pos, ok := g.resolveLocked(location)
	if !ok {
		return fmt.Errorf("unknown location %q", location)
	}
	g.characters[id] = &gridCharacter{id: id, name: name, position: pos, location: canonical}
	return nil
}

// AddObject places an object at a registered location.
func (g *Grid) AddObject(id, name, state, location string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, pos, ok := g.resolveLocked(location)
	if !ok {
		return fmt.Errorf("unknown location %q", location)
	}
	g.objects[id] = &Object{ID: id, Name: name, State: state, Position: pos}
	return nil
}

// SetObjectState updates an object's state label.
func (g *Grid) SetObjectState(id, state string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	obj, ok := g.objects[id]
	if !ok {
		return fmt.Errorf("unknown object %q", id)
	}
	obj.State = state
	return nil
}

// RemoveObject deletes an object from the world.
func (g *Grid) RemoveObject(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.objects, id)
}

// Snapshot implements World.
func (g *Grid) Snapshot(characterID string) (Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ch, ok := g.characters[characterID]
	if !ok {
		return Snapshot{}, fmt.Errorf("unknown character %q", characterID)
	}

	snap := Snapshot{Position: ch.position, Location: ch.location}
	for _, other := range g.characters {
		if other.id == characterID {
			continue
		}
		if visible(ch.position, other.position, g.visionRange) {
			snap.Entities = append(snap.Entities, Entity{
				ID:       other.id,
				Name:     other.name,
				Position: other.position,
			})
		}
	}
	for _, obj := range g.objects {
		if visible(ch.position, obj.Position, g.visionRange) {
			snap.Objects = append(snap.Objects, *obj)
		}
	}
	return snap, nil
}

// MoveToward implements World. The grid teleports; onArrival fires before
// MoveToward returns.
func (g *Grid) MoveToward(characterID, location string, onArrival func()) error {
	g.mu.Lock()
	ch, ok := g.characters[characterID]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("unknown character %q", characterID)
	}
	canonical, pos, found := g.resolveLocked(location)
	if !found {
		g.mu.Unlock()
		return fmt.Errorf("unknown location %q", location)
	}
	ch.position = pos
	ch.location = canonical
	g.mu.Unlock()

	if onArrival != nil {
		onArrival()
	}
	return nil
}

// resolveLocked matches a requested location name against registered places:
// exact match first, then substring either way. Plans name locations in free
// text, so a strict lookup would strand characters.
func (g *Grid) resolveLocked(location string) (string, Position, bool) {
	want := strings.ToLower(strings.TrimSpace(location))
	if want == "" {
		return "", Position{}, false
	}
	if pos, ok := g.locations[want]; ok {
		return want, pos, true
	}
	for name, pos := range g.locations {
		if strings.Contains(want, name) || strings.Contains(name, want) {
			return name, pos, true
		}
	}
	return "", Position{}, false
}

func visible(from, to Position, visionRange int) bool {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		dx = dy
	}
	return dx <= visionRange
}
