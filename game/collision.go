package game

import (
	"fmt"
	"sort"
)

// GrowthEvent records one consumed pellet
type GrowthEvent struct {
	FoodID     uint64
	FoodSize   float64
	Position   Vec2    // where the pellet was
	PlayerSize float64 // player size after this pellet
	Count      int     // food counter after this pellet
}

// Resolution is the outcome of one collision pass
type Resolution struct {
	Player   Player
	Events   []GrowthEvent
	Consumed int
	Counter  int
}

// Resolve consumes every pellet the player overlaps. Detection runs against
// a snapshot of the pool and the player as it was at the start of the pass,
// so each overlapping pellet is consumed exactly once and the result does not
// depend on scan order. Each consumed pellet is replaced in the pool before
// Resolve returns.
func Resolve(p Player, pool *FoodPool, counter int) Resolution {
	matched := overlapping(p, pool)

	res := Resolution{Player: p, Counter: counter}
	if len(matched) == 0 {
		return res
	}
	res.Events = make([]GrowthEvent, 0, len(matched))

	for _, f := range matched {
		if _, ok := pool.Replace(f.ID); !ok {
			panic(fmt.Errorf("%w: matched pellet %d missing from pool", ErrInvariant, f.ID))
		}
		res.Player.Size += f.Size * GrowthFactor
		res.Counter++
		res.Consumed++
		res.Events = append(res.Events, GrowthEvent{
			FoodID:     f.ID,
			FoodSize:   f.Size,
			Position:   f.Position,
			PlayerSize: res.Player.Size,
			Count:      res.Counter,
		})
	}
	return res
}

// overlapping returns the pellets colliding with p, ordered by id
func overlapping(p Player, pool *FoodPool) []Food {
	snapshot := pool.Snapshot()
	candidates := snapshot
	if len(snapshot) > SpatialIndexThreshold {
		qt, outside := BuildQuadtree(pool.world, snapshot)
		candidates = qt.QueryCircle(p.Circle(), maxFoodSize(snapshot), outside)
	}

	body := p.Circle()
	var matched []Food
	for _, f := range candidates {
		if Collides(body, f.Circle()) {
			matched = append(matched, f)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched
}

func maxFoodSize(foods []Food) float64 {
	m := 0.0
	for _, f := range foods {
		if f.Size > m {
			m = f.Size
		}
	}
	return m
}
