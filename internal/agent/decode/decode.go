// Package decode is the lenient boundary between free-text completion
// replies and the structured shapes the cognition pipeline expects. The
// completion service gives no well-formedness guarantee, so every shape is
// recovered from the first plausible JSON fragment and validated field by
// field; callers substitute defaults rather than discarding a whole turn.
package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNoFragment = errors.New("no decodable fragment found")

// FirstObject finds the first brace-delimited JSON fragment in raw and
// unmarshals it into v.
func FirstObject(raw string, v interface{}) error {
	return decodeFragment(raw, '{', '}', v)
}

// FirstArray finds the first bracket-delimited JSON fragment in raw and
// unmarshals it into v.
func FirstArray(raw string, v interface{}) error {
	return decodeFragment(raw, '[', ']', v)
}

func decodeFragment(raw string, open, close byte, v interface{}) error {
	cleaned := stripFences(raw)

	if frag, ok := balancedFragment(cleaned, open, close); ok {
		if err := json.Unmarshal([]byte(frag), v); err == nil {
			return nil
		}
	}

	// Greedy fallback: first opener to last closer, the way the fragment
	// would look if the model wrapped prose around it.
	start := strings.IndexByte(cleaned, open)
	end := strings.LastIndexByte(cleaned, close)
	if start < 0 || end <= start {
		return ErrNoFragment
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("fragment does not parse: %w", err)
	}
	return nil
}

// balancedFragment scans for the first structurally balanced fragment,
// respecting string literals and escapes.
func balancedFragment(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// flexInt tolerates numeric ids arriving as numbers, numeric strings, or
// prefixed strings like "m007".
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(int(n))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("unparseable id %q", s)
	}
	*f = flexInt(v)
	return nil
}
