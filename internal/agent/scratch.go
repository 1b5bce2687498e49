package agent

// Scratch is a character's mutable short-term state. The orchestrator owns
// it; external readers get copies via Orchestrator.State.
type Scratch struct {
	Location  string
	Activity  string
	Mood      Mood
	TimeLabel string
	Awake     bool
}

// NewScratch starts a character asleep and neutral at its home location.
func NewScratch(home string) Scratch {
	return Scratch{
		Location: home,
		Activity: "sleeping",
		Mood:     MoodNeutral,
	}
}
