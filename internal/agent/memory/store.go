package memory

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"npcmind/internal/debug"
)

// Store holds one character's memory stream. It is owned by that character's
// orchestrator; the mutex exists only because the reflection cycle mutates
// importances asynchronously while new chat turns append.
type Store struct {
	mu      sync.Mutex
	log     Log
	records []Record
	nextID  int
	now     func() time.Time
	dbg     *debug.Logger
}

// NewStore loads all persisted records. Ids must be strictly increasing in
// the log; anything else means the log was tampered with.
func NewStore(log Log, dbg *debug.Logger) (*Store, error) {
	records, err := log.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to load memory log: %w", err)
	}

	nextID := 1
	for _, rec := range records {
		if rec.ID < nextID {
			return nil, fmt.Errorf("memory log ids out of order: id %d after %d", rec.ID, nextID-1)
		}
		nextID = rec.ID + 1
	}

	return &Store{
		log:     log,
		records: records,
		nextID:  nextID,
		now:     time.Now,
		dbg:     dbg,
	}, nil
}

// SetClock overrides the store's time source. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Append creates and durably persists a new record, returning it with its
// assigned id.
func (s *Store) Append(kind Kind, content string, importance Importance, sources []int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec := Record{
		ID:         s.nextID,
		Kind:       kind,
		Content:    content,
		CreatedAt:  now,
		LastAccess: now,
		Importance: importance,
		Sources:    sources,
	}

	if err := s.log.Append(rec); err != nil {
		return Record{}, fmt.Errorf("failed to persist record: %w", err)
	}

	s.records = append(s.records, rec)
	s.nextID++

	s.dbg.Printf("memory: appended %s record %d (importance %s)", kind, rec.ID, importance)
	return rec, nil
}

// All returns every record in creation order.
func (s *Store) All() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// ByKind filters records of one kind, creation order preserved.
func (s *Store) ByKind(kind Kind) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Record
	for _, rec := range s.records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// UpdateImportance overwrites a record's importance, clamped to [1,10].
// Unknown ids are a silent no-op.
func (s *Store) UpdateImportance(id, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i].Importance = Rated(value)
			if err := s.log.OverwriteAll(s.records); err != nil {
				return fmt.Errorf("failed to persist importance update: %w", err)
			}
			return nil
		}
	}
	return nil
}

// HasKnowledgeLike reports whether any knowledge record already contains the
// given text. Used to avoid reseeding duplicate world facts.
func (s *Store) HasKnowledgeLike(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.records {
		if rec.Kind == KindKnowledge && strings.Contains(rec.Content, text) {
			return true
		}
	}
	return false
}
