package game

import (
	"sort"
	"sync"
)

// RemoteBuffer collects remote player updates from the network goroutine
// until the simulation picks them up at the end of its next tick
type RemoteBuffer struct {
	mu      sync.Mutex
	players map[string]RemotePlayer
	version uint64
}

// NewRemoteBuffer creates an empty buffer
func NewRemoteBuffer() *RemoteBuffer {
	return &RemoteBuffer{players: make(map[string]RemotePlayer)}
}

// Apply replaces the buffered set with a full snapshot. Entries that are not
// renderable are dropped; the number dropped is returned.
func (b *RemoteBuffer) Apply(players []RemotePlayer) int {
	next := make(map[string]RemotePlayer, len(players))
	rejected := 0
	for _, p := range players {
		if !p.Valid() {
			rejected++
			continue
		}
		next[p.ID] = p
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.players = next
	b.version++
	return rejected
}

// Remove drops a single remote player
func (b *RemoteBuffer) Remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.players[id]; !ok {
		return
	}
	delete(b.players, id)
	b.version++
}

// Clear empties the buffer, e.g. when the connection drops
func (b *RemoteBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.players) == 0 {
		return
	}
	b.players = make(map[string]RemotePlayer)
	b.version++
}

// Version increases on every change
func (b *RemoteBuffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Snapshot returns the buffered players ordered by id, with the version they
// belong to
func (b *RemoteBuffer) Snapshot() ([]RemotePlayer, uint64) {
	b.mu.Lock()
	out := make([]RemotePlayer, 0, len(b.players))
	for _, p := range b.players {
		out = append(out, p)
	}
	version := b.version
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, version
}
