package game

import (
	"math"
	"testing"
)

type recordingSink struct {
	totals []int
}

func (r *recordingSink) FoodCounterChanged(total int) {
	r.totals = append(r.totals, total)
}

type recordingListener struct {
	events []GrowthEvent
}

func (r *recordingListener) OnGrowth(ev GrowthEvent) {
	r.events = append(r.events, ev)
}

// newTestSimulation builds a simulation with a deterministic pool laid out
// away from the centre
func newTestSimulation(t *testing.T, foods []Food) *Simulation {
	t.Helper()
	if foods == nil {
		foods = farFood(FoodPoolSize)
	}
	return NewSimulation(DefaultWorld(), Options{
		PlayerID: "local",
		Food:     foods,
		Rand:     testRand(),
		Viewport: viewport,
	})
}

func TestNewSimulationDefaults(t *testing.T) {
	sim := NewSimulation(DefaultWorld(), Options{Rand: testRand()})
	p := sim.Player()
	if p.ID == "" {
		t.Fatalf("player has no id")
	}
	if p.Position != (Vec2{X: 1500, Y: 1500}) || p.Size != InitialPlayerSize {
		t.Fatalf("unexpected starting player %+v", p)
	}
	v := sim.View()
	if len(v.Food) != FoodPoolSize {
		t.Fatalf("pool has %d pellets", len(v.Food))
	}
	if v.Viewport != (Size{W: DefaultViewportWidth, H: DefaultViewportHeight}) {
		t.Fatalf("viewport = %v", v.Viewport)
	}
	if sim.Status() != StatusRunning || sim.Counter() != 0 {
		t.Fatalf("status %v counter %d", sim.Status(), sim.Counter())
	}
	if got := sim.Pointer().Load(); got != v.Viewport.Center() {
		t.Fatalf("pointer starts at %v", got)
	}
}

func TestTickMovesTowardPointer(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.Pointer().Set(1280, 360)

	rep := sim.Tick()

	if rep.Tick != 1 || rep.Consumed != 0 {
		t.Fatalf("unexpected report %+v", rep)
	}
	p := sim.Player()
	if !approx(p.Position.X, 1500+5/math.Sqrt(10), 1e-9) || p.Position.Y != 1500 {
		t.Fatalf("position = %v", p.Position)
	}
}

func TestTickEatsFoodUnderPlayer(t *testing.T) {
	foods := farFood(FoodPoolSize)
	foods[0].Position = Vec2{X: 1500, Y: 1500}
	sim := newTestSimulation(t, foods)
	// Pointer to the left keeps the player over the pellet for the tick
	sim.Pointer().Set(0, 360)
	sink := &recordingSink{}
	listener := &recordingListener{}
	sim.AddCounterSink(sink)
	sim.AddGrowthListener(listener)

	rep := sim.Tick()

	if rep.Consumed != 1 || rep.Counter != 1 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if sim.Player().Size != 12.5 {
		t.Fatalf("size = %v, want 12.5", sim.Player().Size)
	}
	if len(sim.View().Food) != FoodPoolSize {
		t.Fatalf("pool size changed")
	}
	if len(sink.totals) != 1 || sink.totals[0] != 1 {
		t.Fatalf("sink saw %v", sink.totals)
	}
	if len(listener.events) != 1 || listener.events[0].FoodID != 1 {
		t.Fatalf("listener saw %+v", listener.events)
	}
}

func TestSinkOnlyNotifiedWhenFoodEaten(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sink := &recordingSink{}
	sim.AddCounterSink(sink)
	sim.Pointer().Set(640, 720)

	for i := 0; i < 30; i++ {
		sim.Tick()
	}
	if len(sink.totals) != 0 {
		t.Fatalf("sink notified %d times without food eaten", len(sink.totals))
	}
}

func TestCounterIsMonotonic(t *testing.T) {
	sim := NewSimulation(DefaultWorld(), Options{Rand: testRand(), Viewport: viewport})
	sink := &recordingSink{}
	sim.AddCounterSink(sink)

	corners := []Vec2{{X: 0, Y: 0}, {X: 1280, Y: 0}, {X: 1280, Y: 720}, {X: 0, Y: 720}}
	last := 0
	for i := 0; i < 4000; i++ {
		c := corners[(i/500)%len(corners)]
		sim.Pointer().Set(c.X, c.Y)
		rep := sim.Tick()
		if rep.Counter < last {
			t.Fatalf("counter went from %d to %d", last, rep.Counter)
		}
		if rep.Counter-last != rep.Consumed {
			t.Fatalf("counter moved by %d but %d consumed", rep.Counter-last, rep.Consumed)
		}
		last = rep.Counter
	}
	for i := 1; i < len(sink.totals); i++ {
		if sink.totals[i] <= sink.totals[i-1] {
			t.Fatalf("sink totals not increasing: %v", sink.totals)
		}
	}
	if want := InitialPlayerSize + float64(last)*FoodSize*GrowthFactor; !approx(sim.Player().Size, want, 1e-6) {
		t.Fatalf("size = %v, want %v", sim.Player().Size, want)
	}
}

func TestPausedSimulationDoesNotChange(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.Pointer().Set(0, 0)
	sim.Tick()
	before := sim.View()

	sim.Pause()
	for i := 0; i < 10; i++ {
		rep := sim.Tick()
		if rep.Tick != before.Tick || rep.Consumed != 0 {
			t.Fatalf("paused tick reported %+v", rep)
		}
	}
	after := sim.View()
	if after.Player != before.Player || after.Camera != before.Camera || after.Status != StatusPaused {
		t.Fatalf("paused simulation changed: %+v -> %+v", before.Player, after.Player)
	}

	sim.Resume()
	if rep := sim.Tick(); rep.Tick != before.Tick+1 {
		t.Fatalf("resumed tick = %d", rep.Tick)
	}
}

func TestResetKeepsCounter(t *testing.T) {
	foods := farFood(FoodPoolSize)
	foods[0].Position = Vec2{X: 1500, Y: 1500}
	sim := newTestSimulation(t, foods)
	sim.Pointer().Set(0, 0)
	for i := 0; i < 50; i++ {
		sim.Tick()
	}

	sim.Reset()

	p := sim.Player()
	if p.ID != "local" || p.Position != (Vec2{X: 1500, Y: 1500}) || p.Size != InitialPlayerSize {
		t.Fatalf("player after reset %+v", p)
	}
	if sim.Counter() != 1 {
		t.Fatalf("counter = %d, want 1", sim.Counter())
	}
	if got := sim.View().Camera.ToScreen(p.Position); got != viewport.Center() {
		t.Fatalf("camera not recentred: player at %v", got)
	}
}

func TestSetViewportIgnoresEmptySizes(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.SetViewport(0, 600)
	sim.SetViewport(800, -1)
	if sim.View().Viewport != viewport {
		t.Fatalf("viewport changed to %v", sim.View().Viewport)
	}
	sim.SetViewport(800, 600)
	if sim.View().Viewport != (Size{W: 800, H: 600}) {
		t.Fatalf("viewport = %v", sim.View().Viewport)
	}
}

func TestTickSyncsRemotePlayers(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.Remote().Apply([]RemotePlayer{
		{ID: "b", Position: Vec2{X: 10, Y: 10}, Size: 10},
		{ID: "a", Position: Vec2{X: 20, Y: 20}, Size: 12},
	})
	if len(sim.View().Remote) != 0 {
		t.Fatalf("remote players visible before a tick")
	}

	sim.Tick()
	remote := sim.View().Remote
	if len(remote) != 2 || remote[0].ID != "a" || remote[1].ID != "b" {
		t.Fatalf("remote = %+v", remote)
	}

	sim.Remote().Clear()
	sim.Tick()
	if len(sim.View().Remote) != 0 {
		t.Fatalf("remote players survived Clear")
	}
}

func TestViewIsACopy(t *testing.T) {
	sim := newTestSimulation(t, nil)
	v := sim.View()
	v.Food[0].Position = Vec2{X: -1, Y: -1}
	if sim.View().Food[0].Position == v.Food[0].Position {
		t.Fatalf("View shares the food slice")
	}
}

func TestStatusString(t *testing.T) {
	if StatusRunning.String() != "running" || StatusPaused.String() != "paused" || Status(9).String() != "unknown" {
		t.Fatalf("unexpected status names")
	}
}

func TestSetViewportKeepsPlayerCentred(t *testing.T) {
	sim := newTestSimulation(t, nil)
	sim.SetViewport(640, 384)
	v := sim.View()
	if got := v.Camera.ToScreen(v.Player.Position); got != (Vec2{X: 320, Y: 192}) {
		t.Fatalf("player drawn at %v after resize", got)
	}
}
