package game

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrInvariant marks a corrupted simulation state. It is only ever
	// raised through panic: there is no sensible way to continue a tick
	// once an entity has a non-positive size or has left the world.
	ErrInvariant = errors.New("simulation invariant violated")

	// ErrInvalidWorld is returned when world dimensions are not positive
	ErrInvalidWorld = errors.New("invalid world")
)

// World holds the immutable rules of the arena
type World struct {
	Bounds       Size
	FoodPoolSize int
	FoodSize     float64
}

// NewWorld creates a world of the given size with the default food rules
func NewWorld(width, height float64) (World, error) {
	if !(width > 0) || !(height > 0) {
		return World{}, fmt.Errorf("%w: dimensions %vx%v must be positive", ErrInvalidWorld, width, height)
	}
	return World{
		Bounds:       Size{W: width, H: height},
		FoodPoolSize: FoodPoolSize,
		FoodSize:     FoodSize,
	}, nil
}

// DefaultWorld returns the standard 3000x3000 arena
func DefaultWorld() World {
	w, _ := NewWorld(WorldWidth, WorldHeight)
	return w
}

// randomPosition draws a point uniformly from [0, W) x [0, H)
func (w World) randomPosition(r *rand.Rand) Vec2 {
	return Vec2{X: RandomFloat(r, 0, w.Bounds.W), Y: RandomFloat(r, 0, w.Bounds.H)}
}

// FoodPool is the fixed-size set of food in the world. Its length never
// changes: every removal is paired with a spawn.
type FoodPool struct {
	world  World
	rng    *rand.Rand
	items  []Food
	slots  map[uint64]int // food id -> index in items
	size   int
	nextID uint64
}

// NewFoodPool fills a pool with world.FoodPoolSize randomly placed pellets
func NewFoodPool(world World, rng *rand.Rand) *FoodPool {
	p := &FoodPool{
		world:  world,
		rng:    rng,
		items:  make([]Food, 0, world.FoodPoolSize),
		slots:  make(map[uint64]int, world.FoodPoolSize),
		size:   world.FoodPoolSize,
		nextID: 1,
	}
	for i := 0; i < world.FoodPoolSize; i++ {
		f := p.spawn()
		p.slots[f.ID] = len(p.items)
		p.items = append(p.items, f)
	}
	return p
}

// NewFoodPoolFrom builds a pool around explicit pellets; its size is fixed at
// len(items). Pellet ids must be unique. Replacements are drawn from rng.
func NewFoodPoolFrom(world World, rng *rand.Rand, items []Food) *FoodPool {
	p := &FoodPool{
		world:  world,
		rng:    rng,
		items:  append([]Food(nil), items...),
		slots:  make(map[uint64]int, len(items)),
		size:   len(items),
		nextID: 1,
	}
	for i, f := range p.items {
		p.slots[f.ID] = i
		if f.ID >= p.nextID {
			p.nextID = f.ID + 1
		}
	}
	return p
}

func (p *FoodPool) spawn() Food {
	f := Food{
		ID:       p.nextID,
		Position: p.world.randomPosition(p.rng),
		Size:     p.world.FoodSize,
	}
	p.nextID++
	return f
}

// Len returns the number of pellets in the pool
func (p *FoodPool) Len() int {
	return len(p.items)
}

// Snapshot returns a copy of the pool that callers may keep
func (p *FoodPool) Snapshot() []Food {
	out := make([]Food, len(p.items))
	copy(out, p.items)
	return out
}

// Replace removes the pellet with the given id and spawns a new one in its
// slot. It reports false if no such pellet exists.
func (p *FoodPool) Replace(id uint64) (Food, bool) {
	i, ok := p.slots[id]
	if !ok {
		return Food{}, false
	}
	delete(p.slots, id)
	f := p.spawn()
	p.items[i] = f
	p.slots[f.ID] = i
	return f, true
}

// checkPlayer panics if the player breaks the size or bounds invariants
func checkPlayer(p Player, w World) {
	if !(p.Size > 0) {
		panic(fmt.Errorf("%w: player %q size %v", ErrInvariant, p.ID, p.Size))
	}
	if !p.Position.IsFinite() {
		panic(fmt.Errorf("%w: player %q position %v", ErrInvariant, p.ID, p.Position))
	}
	if p.Position.X < 0 || p.Position.X > w.Bounds.W || p.Position.Y < 0 || p.Position.Y > w.Bounds.H {
		panic(fmt.Errorf("%w: player %q at %v outside %vx%v", ErrInvariant, p.ID, p.Position, w.Bounds.W, w.Bounds.H))
	}
}

// checkPool panics if the pool lost or gained pellets
func checkPool(p *FoodPool) {
	if p.Len() != p.size || len(p.slots) != p.size {
		panic(fmt.Errorf("%w: food pool has %d pellets, want %d", ErrInvariant, p.Len(), p.size))
	}
}
