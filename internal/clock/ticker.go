package clock

import "time"

// Ticker advances a Clock on wall time. Scale is simulated minutes per real
// second; a scale of 1 runs a full day in 24 real minutes.
type Ticker struct {
	clock *Clock
	scale int
	stop  chan struct{}
	done  chan struct{}
}

// NewTicker starts driving the clock immediately. Stop must be called to
// release the goroutine.
func NewTicker(c *Clock, scale int) *Ticker {
	if scale < 1 {
		scale = 1
	}
	t := &Ticker{
		clock: c,
		scale: scale,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Ticker) run() {
	defer close(t.done)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			t.clock.Advance(t.scale)
		case <-t.stop:
			return
		}
	}
}

// Stop halts the ticker and waits for the driving goroutine to exit.
func (t *Ticker) Stop() {
	close(t.stop)
	<-t.done
}
