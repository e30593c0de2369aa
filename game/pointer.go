package game

import "sync"

// Pointer holds the latest pointer position in viewport pixels. Input
// goroutines write it; the simulation reads it once per tick.
type Pointer struct {
	mu  sync.Mutex
	pos Vec2
}

// NewPointer creates a pointer resting at pos
func NewPointer(pos Vec2) *Pointer {
	return &Pointer{pos: pos}
}

// Set stores a new position
func (p *Pointer) Set(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = Vec2{X: x, Y: y}
}

// Load returns the last stored position as one consistent pair
func (p *Pointer) Load() Vec2 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}
