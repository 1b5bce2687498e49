package agent

// reflectionCycle is the two-state guard around the asynchronous importance
// and reflection pass. The token channel has capacity one: holding the token
// means Running, an empty channel means Idle. A trigger that cannot take the
// token is refused, never queued.
type reflectionCycle struct {
	token chan struct{}
}

func newReflectionCycle() reflectionCycle {
	return reflectionCycle{token: make(chan struct{}, 1)}
}

// tryStart moves Idle -> Running. Reports false if already Running.
func (c reflectionCycle) tryStart() bool {
	select {
	case c.token <- struct{}{}:
		return true
	default:
		return false
	}
}

// finish moves Running -> Idle.
func (c reflectionCycle) finish() {
	<-c.token
}
