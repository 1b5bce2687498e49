// Package clock provides the simulation calendar that drives wake/sleep and
// plan progression. Simulated time only moves when Advance is called; the
// Ticker maps wall-clock time onto Advance at a configurable scale.
package clock

import (
	"fmt"
	"sync"
)

// Period is a named slice of the simulated day.
type Period string

const (
	Dawn      Period = "dawn"
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
	Night     Period = "night"
)

func periodOf(hour int) Period {
	switch {
	case hour >= 5 && hour < 7:
		return Dawn
	case hour >= 7 && hour < 12:
		return Morning
	case hour >= 12 && hour < 18:
		return Afternoon
	case hour >= 18 && hour < 22:
		return Evening
	default:
		return Night
	}
}

// Clock tracks simulated day and time of day.
type Clock struct {
	mu     sync.Mutex
	day    int
	minute int // minutes since midnight

	onTime   []func(day int, label string)
	onPeriod []func(day int, period Period)
	onDay    []func(day int)
}

// New starts at the given day and "HH:MM" position.
func New(day, hour, minute int) *Clock {
	return &Clock{day: day, minute: hour*60 + minute}
}

// OnTime registers a callback fired after every Advance.
func (c *Clock) OnTime(fn func(day int, label string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTime = append(c.onTime, fn)
}

// OnPeriod registers a callback fired when the day period changes.
func (c *Clock) OnPeriod(fn func(day int, period Period)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPeriod = append(c.onPeriod, fn)
}

// OnDay registers a callback fired at each midnight rollover.
func (c *Clock) OnDay(fn func(day int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDay = append(c.onDay, fn)
}

// Advance moves simulated time forward and fires callbacks in registration
// order: day rollovers first, then period changes, then the time callback.
// Callbacks run on the caller's goroutine.
func (c *Clock) Advance(minutes int) {
	if minutes <= 0 {
		return
	}

	c.mu.Lock()
	prevPeriod := periodOf(c.minute / 60)
	c.minute += minutes
	daysRolled := 0
	for c.minute >= 24*60 {
		c.minute -= 24 * 60
		c.day++
		daysRolled++
	}
	day := c.day
	label := c.labelLocked()
	period := periodOf(c.minute / 60)
	onDay := append([]func(int){}, c.onDay...)
	onPeriod := append([]func(int, Period){}, c.onPeriod...)
	onTime := append([]func(int, string){}, c.onTime...)
	c.mu.Unlock()

	for i := 0; i < daysRolled; i++ {
		for _, fn := range onDay {
			fn(day - daysRolled + i + 1)
		}
	}
	if period != prevPeriod || daysRolled > 0 {
		for _, fn := range onPeriod {
			fn(day, period)
		}
	}
	for _, fn := range onTime {
		fn(day, label)
	}
}

// Label returns the current "HH:MM" time of day.
func (c *Clock) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.labelLocked()
}

func (c *Clock) labelLocked() string {
	return fmt.Sprintf("%02d:%02d", c.minute/60, c.minute%60)
}

// Day returns the current simulated day number.
func (c *Clock) Day() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

// Period returns the current day period.
func (c *Clock) Period() Period {
	c.mu.Lock()
	defer c.mu.Unlock()
	return periodOf(c.minute / 60)
}
