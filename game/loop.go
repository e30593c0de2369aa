package game

import (
	"context"
	"log"
	"time"
)

// Loop drives a Simulation from a fixed-rate ticker for hosts that do not
// schedule frames themselves
type Loop struct {
	sim   *Simulation
	rate  int
	inbox chan func(*Simulation)
}

// NewLoop creates a loop ticking sim rate times per second
func NewLoop(sim *Simulation, rate int) *Loop {
	if rate <= 0 {
		rate = TickRate
	}
	return &Loop{sim: sim, rate: rate, inbox: make(chan func(*Simulation), 64)}
}

// Do queues fn to run on the loop goroutine between ticks. It is how other
// goroutines resize, pause or reset the simulation. Commands sent after Run
// has returned are never executed.
func (l *Loop) Do(fn func(*Simulation)) {
	l.inbox <- fn
}

// Run ticks until ctx is cancelled. frame, if set, is called after every tick
// with the state to draw; it runs on the loop goroutine and must not block.
func (l *Loop) Run(ctx context.Context, frame func(View)) {
	ticker := time.NewTicker(time.Second / time.Duration(l.rate))
	defer ticker.Stop()
	log.Printf("simulation loop started at %d ticks/sec", l.rate)

	for {
		select {
		case <-ctx.Done():
			log.Printf("simulation loop stopped after %d ticks", l.sim.state.Tick)
			return
		case fn := <-l.inbox:
			fn(l.sim)
		case <-ticker.C:
			l.sim.Tick()
			if frame != nil {
				frame(l.sim.View())
			}
		}
	}
}
