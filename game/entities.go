package game

import (
	"fmt"
	"math"
)

// Player is the locally controlled disc
type Player struct {
	ID        string
	Position  Vec2
	Size      float64
	BaseSpeed float64
}

// NewPlayer creates a player at the centre of the world with the starting size
func NewPlayer(id string, world World) Player {
	return Player{
		ID:        id,
		Position:  world.Bounds.Center(),
		Size:      InitialPlayerSize,
		BaseSpeed: PlayerBaseSpeed,
	}
}

// Speed returns the distance the player covers in one tick. Larger players are
// slower: BaseSpeed / sqrt(Size).
func Speed(p Player) float64 {
	if !(p.Size > 0) {
		panic(fmt.Errorf("%w: speed of player %q with size %v", ErrInvariant, p.ID, p.Size))
	}
	return p.BaseSpeed / math.Sqrt(p.Size)
}

// Circle returns the player's disc
func (p Player) Circle() Circle {
	return Circle{Center: p.Position, Radius: p.Size}
}

// Food is a stationary pellet. It never moves after it spawns.
type Food struct {
	ID       uint64
	Position Vec2
	Size     float64
}

// Circle returns the food's disc
func (f Food) Circle() Circle {
	return Circle{Center: f.Position, Radius: f.Size}
}

// RemotePlayer is another client's disc as last reported by the network
type RemotePlayer struct {
	ID       string
	Name     string
	Position Vec2
	Size     float64
}

// Valid reports whether a remote entry is safe to render
func (r RemotePlayer) Valid() bool {
	return r.ID != "" && r.Position.IsFinite() && r.Size > 0 && !math.IsInf(r.Size, 0)
}
