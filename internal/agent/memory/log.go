package memory

// Log is the persistence collaborator for a single character's records.
// Implementations must make writes durable before returning.
type Log interface {
	Append(rec Record) error
	LoadAll() ([]Record, error)
	OverwriteAll(recs []Record) error
}

// MemoryLog is an in-process Log for tests and throwaway characters.
type MemoryLog struct {
	records []Record
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{}
}

func (l *MemoryLog) Append(rec Record) error {
	l.records = append(l.records, rec)
	return nil
}

func (l *MemoryLog) LoadAll() ([]Record, error) {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out, nil
}

func (l *MemoryLog) OverwriteAll(recs []Record) error {
	l.records = make([]Record, len(recs))
	copy(l.records, recs)
	return nil
}
