package memory

import (
	"math"
	"sort"
	"strings"
)

// recencyDecay is the per-hour decay applied to hours since last access.
const recencyDecay = 0.995

// Retrieve scores every record against the query and returns the topK,
// highest score first. The three components carry equal unit weights:
//
//	recency    = 0.995^(hours since last access)
//	importance = score value / 10 (unrated counts as mid-scale 5)
//	relevance  = matched query tokens / total query tokens
//
// Returned records get their last-access stamped to now and persisted, which
// is what makes recency decay meaningful across calls.
func (s *Store) Retrieve(query string, topK int) []Retrieved {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 || topK <= 0 {
		return nil
	}

	tokens := queryTokens(query)
	now := s.now()

	scored := make([]Retrieved, 0, len(s.records))
	for _, rec := range s.records {
		hours := now.Sub(rec.LastAccess).Hours()
		if hours < 0 {
			hours = 0
		}
		recency := math.Pow(recencyDecay, hours)
		impScore := float64(rec.Importance.ScoreValue()) / 10
		relevance := relevanceScore(tokens, rec.Content)

		scored = append(scored, Retrieved{
			Record:    rec,
			Score:     recency + impScore + relevance,
			Recency:   recency,
			ImpScore:  impScore,
			Relevance: relevance,
		})
	}

	// Stable: ties keep creation order.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK < len(scored) {
		scored = scored[:topK]
	}

	touched := make(map[int]struct{}, len(scored))
	for _, r := range scored {
		touched[r.ID] = struct{}{}
	}
	for i := range s.records {
		if _, ok := touched[s.records[i].ID]; ok {
			s.records[i].LastAccess = now
		}
	}
	if err := s.log.OverwriteAll(s.records); err != nil {
		s.dbg.Printf("memory: failed to persist last-access update: %v", err)
	}

	return scored
}

// queryTokens lowercases and whitespace-splits the query, keeping only
// tokens longer than one rune.
func queryTokens(query string) []string {
	var out []string
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		out = append(out, tok)
	}
	return out
}

// relevanceScore is the cheap lexical proxy: the fraction of query tokens
// (length > 1) that occur as substrings of the content.
func relevanceScore(tokens []string, content string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	lower := strings.ToLower(content)
	matched := 0
	for _, tok := range tokens {
		if len([]rune(tok)) > 1 && strings.Contains(lower, tok) {
			matched++
		}
	}
	return float64(matched) / float64(len(tokens))
}
