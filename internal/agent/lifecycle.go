package agent

import (
	"context"
	"fmt"

	"npcmind/internal/agent/memory"
	"npcmind/internal/agent/plan"
	"npcmind/internal/events"
)

// WakeUp starts the character's day: generate a schedule, activate its first
// slot, and record the moment.
func (o *Orchestrator) WakeUp(ctx context.Context, timeLabel string) {
	items := o.generatePlan(ctx)

	o.mu.Lock()
	o.scratch.Awake = true
	o.scratch.TimeLabel = timeLabel
	o.progress = plan.NewProgress(items)
	o.mu.Unlock()

	o.appendObservation(fmt.Sprintf("I woke up at %s and planned my day.", timeLabel), memory.Unrated())
	o.bus.Publish(events.New(o.persona.ID, events.PlanGenerated, planSummary(items)))
	o.percept.Reset()

	// Let the first slot activate immediately if the wake time falls inside it.
	o.Tick(timeLabel)
}

// Sleep ends the day: record how much of the plan got done, then clear it.
func (o *Orchestrator) Sleep(ctx context.Context) {
	o.mu.Lock()
	var completed, total int
	if o.progress != nil {
		completed, total = o.progress.CompletionCounts()
	}
	o.progress = nil
	o.scratch.Awake = false
	o.scratch.Activity = "sleeping"
	o.mu.Unlock()

	o.appendObservation(
		fmt.Sprintf("The day is over. I completed %d of %d planned tasks.", completed, total),
		memory.Unrated())
}

// Tick advances plan progression to the given time. When the active slot
// changes, Scratch follows, an activity-changed event fires, and the world
// (if any) is asked to move the character.
func (o *Orchestrator) Tick(timeLabel string) {
	o.mu.Lock()
	o.scratch.TimeLabel = timeLabel
	if !o.scratch.Awake || o.progress == nil {
		o.mu.Unlock()
		return
	}
	change := o.progress.Advance(timeLabel)
	if change.Changed {
		o.scratch.Activity = change.Item.Activity
		if change.Item.Location != "" {
			o.scratch.Location = change.Item.Location
		}
	}
	o.mu.Unlock()

	if !change.Changed {
		return
	}

	o.dbg.Printf("tick: %s now %q at %q", o.persona.ID, change.Item.Activity, change.Item.Location)
	o.bus.Publish(events.New(o.persona.ID, events.ActivityChanged, change.Item.Activity))

	if o.world != nil && change.Item.Location != "" {
		loc := change.Item.Location
		if err := o.world.MoveToward(o.persona.ID, loc, func() {
			o.Perceive()
		}); err != nil {
			o.dbg.Printf("tick: move failed for %s: %v", o.persona.ID, err)
		}
	}
}

// Perceive snapshots the world and records anything that changed since the
// character last looked.
func (o *Orchestrator) Perceive() {
	if o.world == nil {
		return
	}
	snap, err := o.world.Snapshot(o.persona.ID)
	if err != nil {
		o.dbg.Printf("perceive: snapshot failed for %s: %v", o.persona.ID, err)
		return
	}

	o.mu.Lock()
	if snap.Location != "" {
		o.scratch.Location = snap.Location
	}
	observations := o.percept.Observe(snap)
	o.mu.Unlock()

	for _, obs := range observations {
		o.appendObservation(obs.Text, obs.Importance)
	}
}
