package plan

// Progress advances a day's schedule against clock ticks. It activates at
// most one target index per tick and never fails, whatever the input time.
type Progress struct {
	items  []Item
	active int // -1 until the first item activates
}

// NewProgress takes ownership of the items; callers hand over a fresh slice.
func NewProgress(items []Item) *Progress {
	return &Progress{items: items, active: -1}
}

// Change reports what a tick did.
type Change struct {
	Changed bool
	Index   int
	Item    Item
}

// Advance finds the item whose [start, start+duration) interval contains the
// given time and activates it, completing or skipping everything between the
// previously active item and the new one. Past the last item's end the day
// is complete and nothing changes.
func (p *Progress) Advance(timeLabel string) Change {
	nowMinutes, ok := ParseMinutes(timeLabel)
	if !ok || len(p.items) == 0 {
		return Change{}
	}

	target := -1
	for i, item := range p.items {
		start, ok := ParseMinutes(item.Start)
		if !ok {
			continue
		}
		if nowMinutes >= start && nowMinutes < start+item.Duration {
			target = i
			break
		}
	}

	if target == -1 || target == p.active {
		return Change{}
	}

	// The clock only moves forward within a day; a target behind the active
	// index means the plan overlaps or the driver jumped backwards. Either
	// way, activating an earlier slot would violate the one-way lifecycle,
	// so hold position.
	if target < p.active {
		return Change{}
	}

	from := p.active
	if from < 0 {
		from = 0
	}
	for i := from; i < target; i++ {
		switch p.items[i].Status {
		case StatusInProgress:
			p.items[i].Status = StatusCompleted
		case StatusPending:
			p.items[i].Status = StatusSkipped
		}
	}

	p.items[target].Status = StatusInProgress
	p.active = target

	return Change{Changed: true, Index: target, Item: p.items[target]}
}

// Items returns a copy of the schedule with current statuses.
func (p *Progress) Items() []Item {
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out
}

// Active returns the in-progress item, if any.
func (p *Progress) Active() (Item, int, bool) {
	if p.active < 0 || p.active >= len(p.items) {
		return Item{}, -1, false
	}
	return p.items[p.active], p.active, true
}

// Next returns the item after the active one, if any.
func (p *Progress) Next() (Item, bool) {
	next := p.active + 1
	if next <= 0 || next >= len(p.items) {
		return Item{}, false
	}
	return p.items[next], true
}

// CompletionCounts reports completed items against the total, for the
// end-of-day summary.
func (p *Progress) CompletionCounts() (completed, total int) {
	for _, item := range p.items {
		if item.Status == StatusCompleted {
			completed++
		}
	}
	return completed, len(p.items)
}
