// Package world defines the narrow spatial interface the cognition pipeline
// consumes, plus a small in-process grid world for the demo and tests. The
// pipeline never pathfinds or renders; it only asks what a character can see
// and requests movement toward a named location.
package world

// Position is a tile coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Entity is another character visible in a snapshot.
type Entity struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

// Object is an interactable thing visible in a snapshot. State is a short
// label like "lit" or "broken".
type Object struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	State    string   `json:"state"`
	Position Position `json:"position"`
}

// Snapshot is everything a character perceives at one instant.
type Snapshot struct {
	Position Position `json:"position"`
	Location string   `json:"location"`
	Entities []Entity `json:"entities"`
	Objects  []Object `json:"objects"`
}

// World is the spatial collaborator consumed by the pipeline.
type World interface {
	// Snapshot reports what the named character currently perceives.
	Snapshot(characterID string) (Snapshot, error)
	// MoveToward starts moving the character to a named location and calls
	// onArrival when it gets there. Unknown locations resolve to the nearest
	// name match; onArrival may be nil.
	MoveToward(characterID, location string, onArrival func()) error
}
