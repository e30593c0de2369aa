package game

import (
	"math/rand"

	"github.com/google/uuid"
)

// Status is the loop's operating state
type Status int

const (
	StatusRunning Status = iota
	StatusPaused
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// CounterSink is told the new food total after any tick that consumed food
type CounterSink interface {
	FoodCounterChanged(total int)
}

// GrowthListener receives every consumption as it is applied
type GrowthListener interface {
	OnGrowth(ev GrowthEvent)
}

// SimulationState is everything a tick reads and writes. It is owned by a
// single Simulation and never shared.
type SimulationState struct {
	Tick     uint64
	Status   Status
	Player   Player
	Food     *FoodPool
	Remote   []RemotePlayer
	Camera   Camera
	Viewport Size
	Counter  int
}

// Options configures a Simulation. Zero values pick the defaults.
type Options struct {
	PlayerID  string        // defaults to a fresh uuid
	Player    *Player       // overrides the starting player
	Food      []Food        // overrides the random starting pool
	Rand      *rand.Rand    // defaults to a clock-seeded source
	Pointer   *Pointer      // defaults to a pointer at the viewport centre
	Remote    *RemoteBuffer // defaults to an empty buffer
	Viewport  Size          // defaults to DefaultViewportWidth x DefaultViewportHeight
	Smoothing float64       // camera factor, see Smoothing
	DeadZone  float64       // defaults to MovementDeadZone
}

// TickReport summarises one tick
type TickReport struct {
	Tick     uint64
	Consumed int
	Events   []GrowthEvent
	Counter  int
}

// View is the read-only picture a renderer draws from
type View struct {
	Tick     uint64
	Status   Status
	Player   Player
	Food     []Food
	Remote   []RemotePlayer
	Camera   Camera
	Viewport Size
	Counter  int
}

// Simulation runs the local player's tick loop
type Simulation struct {
	world         World
	state         SimulationState
	pointer       *Pointer
	remote        *RemoteBuffer
	remoteVersion uint64
	smoothing     float64
	deadZone      float64
	sinks         []CounterSink
	listeners     []GrowthListener
}

// NewSimulation creates a running simulation with the player at the centre
// of the world and the camera settled on it
func NewSimulation(world World, opts Options) *Simulation {
	if opts.PlayerID == "" {
		opts.PlayerID = uuid.New().String()
	}
	if opts.Rand == nil {
		opts.Rand = NewRand()
	}
	if opts.Viewport.W <= 0 || opts.Viewport.H <= 0 {
		opts.Viewport = Size{W: DefaultViewportWidth, H: DefaultViewportHeight}
	}
	if opts.Pointer == nil {
		opts.Pointer = NewPointer(opts.Viewport.Center())
	}
	if opts.Remote == nil {
		opts.Remote = NewRemoteBuffer()
	}
	if opts.DeadZone == 0 {
		opts.DeadZone = MovementDeadZone
	}

	player := NewPlayer(opts.PlayerID, world)
	if opts.Player != nil {
		player = *opts.Player
	}
	checkPlayer(player, world)

	var pool *FoodPool
	if opts.Food != nil {
		pool = NewFoodPoolFrom(world, opts.Rand, opts.Food)
	} else {
		pool = NewFoodPool(world, opts.Rand)
	}

	return &Simulation{
		world: world,
		state: SimulationState{
			Status:   StatusRunning,
			Player:   player,
			Food:     pool,
			Camera:   CenteredCamera(player.Position, opts.Viewport),
			Viewport: opts.Viewport,
		},
		pointer:   opts.Pointer,
		remote:    opts.Remote,
		smoothing: Smoothing(opts.Smoothing),
		deadZone:  opts.DeadZone,
	}
}

// AddCounterSink registers a consumer of food counter changes
func (s *Simulation) AddCounterSink(sink CounterSink) {
	s.sinks = append(s.sinks, sink)
}

// AddGrowthListener registers a consumer of individual growth events
func (s *Simulation) AddGrowthListener(l GrowthListener) {
	s.listeners = append(s.listeners, l)
}

// World returns the rules the simulation runs under
func (s *Simulation) World() World { return s.world }

// Pointer returns the pointer the simulation reads each tick
func (s *Simulation) Pointer() *Pointer { return s.pointer }

// Remote returns the buffer remote updates should be written to
func (s *Simulation) Remote() *RemoteBuffer { return s.remote }

// Player returns the local player
func (s *Simulation) Player() Player { return s.state.Player }

// Counter returns how many pellets have been eaten this session
func (s *Simulation) Counter() int { return s.state.Counter }

// Status returns the loop state
func (s *Simulation) Status() Status { return s.state.Status }

// Pause stops ticks from changing state
func (s *Simulation) Pause() { s.state.Status = StatusPaused }

// Resume restarts a paused simulation
func (s *Simulation) Resume() { s.state.Status = StatusRunning }

// SetViewport records the host's drawable size. The camera shifts by half
// the change so the view stays centred where it was. Non-positive sizes, as
// reported by minimised windows, are ignored.
func (s *Simulation) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	next := Size{W: width, H: height}
	if next == s.state.Viewport {
		return
	}
	shift := s.state.Viewport.Center().Sub(next.Center())
	s.state.Camera.Offset = s.state.Camera.Offset.Add(shift)
	s.state.Viewport = next
}

// Reset puts the player back at the centre with the starting size. The food
// counter and pool are kept.
func (s *Simulation) Reset() {
	id := s.state.Player.ID
	s.state.Player = NewPlayer(id, s.world)
	s.state.Camera = CenteredCamera(s.state.Player.Position, s.state.Viewport)
}

// Tick advances the simulation by one step:
// read input, move, resolve collisions, update camera, sync remote players.
func (s *Simulation) Tick() TickReport {
	st := &s.state
	if st.Status != StatusRunning {
		return TickReport{Tick: st.Tick, Counter: st.Counter}
	}
	st.Tick++

	// Read input
	target := s.pointer.Load()

	// Move
	p := st.Player
	if inDeadZone(target, st.Viewport, s.deadZone) {
		p.Position = ClampToWorld(p.Position, p.Size, s.world)
	} else {
		p.Position = MoveToward(p, target, st.Viewport, s.world)
	}
	checkPlayer(p, s.world)

	// Resolve collisions
	res := Resolve(p, st.Food, st.Counter)
	p = res.Player
	p.Position = ClampToWorld(p.Position, p.Size, s.world)
	checkPlayer(p, s.world)
	checkPool(st.Food)
	st.Player = p
	st.Counter = res.Counter

	// Update camera
	st.Camera = UpdateCamera(st.Camera, p.Position, st.Viewport, s.smoothing)

	// Sync remote players
	if v := s.remote.Version(); v != s.remoteVersion {
		st.Remote, s.remoteVersion = s.remote.Snapshot()
	}

	for _, ev := range res.Events {
		for _, l := range s.listeners {
			l.OnGrowth(ev)
		}
	}
	if res.Consumed > 0 {
		for _, sink := range s.sinks {
			sink.FoodCounterChanged(st.Counter)
		}
	}

	return TickReport{
		Tick:     st.Tick,
		Consumed: res.Consumed,
		Events:   res.Events,
		Counter:  st.Counter,
	}
}

// View copies the state a renderer needs
func (s *Simulation) View() View {
	st := &s.state
	return View{
		Tick:     st.Tick,
		Status:   st.Status,
		Player:   st.Player,
		Food:     st.Food.Snapshot(),
		Remote:   append([]RemotePlayer(nil), st.Remote...),
		Camera:   st.Camera,
		Viewport: st.Viewport,
		Counter:  st.Counter,
	}
}
