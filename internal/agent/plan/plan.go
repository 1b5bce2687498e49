// Package plan holds the daily-schedule model and the clock-driven
// progression machine. Nothing here talks to the completion service; the
// progression machine is pure state-transition logic and total over any
// time input.
package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// Status is the lifecycle state of one schedule slot.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
)

// Item is one scheduled activity slot.
type Item struct {
	Start       string `json:"time"`     // "HH:MM"
	Activity    string `json:"activity"`
	Location    string `json:"location,omitempty"`
	Duration    int    `json:"duration"` // minutes
	Status      Status `json:"status"`
	GoalRelated bool   `json:"goalRelated,omitempty"`
}

func (i Item) String() string {
	return fmt.Sprintf("%s %s (%dm)", i.Start, i.Activity, i.Duration)
}

// ParseMinutes converts an "HH:MM" label to minutes of day. Malformed labels
// report ok=false; callers treat that as "matches nothing".
func ParseMinutes(label string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(label), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}
