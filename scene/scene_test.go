package scene

import (
	"math/rand"
	"testing"

	"growth-arena/game"
)

var world = game.Size{W: 3000, H: 3000}

func testView() game.View {
	vp := game.Size{W: 1280, H: 720}
	player := game.Player{ID: "me", Position: game.Vec2{X: 1500, Y: 1500}, Size: 10, BaseSpeed: 5}
	return game.View{
		Player:   player,
		Viewport: vp,
		Camera:   game.CenteredCamera(player.Position, vp),
		Food: []game.Food{
			{ID: 1, Position: game.Vec2{X: 1510, Y: 1500}, Size: 5},
			{ID: 2, Position: game.Vec2{X: 100, Y: 100}, Size: 5},
		},
		Remote: []game.RemotePlayer{
			{ID: "near", Position: game.Vec2{X: 1400, Y: 1450}, Size: 12},
			{ID: "far", Position: game.Vec2{X: 2900, Y: 2900}, Size: 12},
		},
		Counter: 3,
	}
}

func TestBuildCullsAndOrders(t *testing.T) {
	f := Build(testView(), world)

	if len(f.Discs) != 3 {
		t.Fatalf("got %d discs, want 3: %+v", len(f.Discs), f.Discs)
	}
	kinds := []Kind{KindFood, KindPlayer, KindRemote}
	for i, k := range kinds {
		if f.Discs[i].Kind != k {
			t.Fatalf("disc %d kind = %v, want %v", i, f.Discs[i].Kind, k)
		}
	}
	if f.Discs[0].ID != "1" || f.Discs[2].ID != "near" {
		t.Fatalf("unexpected discs %+v", f.Discs)
	}
}

func TestBuildPlayerAtViewportCentre(t *testing.T) {
	f := Build(testView(), world)
	p := f.Discs[1]
	if p.Center != (game.Vec2{X: 640, Y: 360}) || p.Radius != 10 {
		t.Fatalf("player disc %+v", p)
	}
	if food := f.Discs[0]; food.Center != (game.Vec2{X: 650, Y: 360}) {
		t.Fatalf("food drawn at %v", food.Center)
	}
}

func TestBuildBorder(t *testing.T) {
	f := Build(testView(), world)
	want := game.Rect{X: 640 - 1500, Y: 360 - 1500, Width: 3000, Height: 3000}
	if f.Border != want {
		t.Fatalf("border = %+v, want %+v", f.Border, want)
	}
	if f.Counter != 3 {
		t.Fatalf("counter = %d", f.Counter)
	}
}

func TestKindColors(t *testing.T) {
	if KindPlayer.Color().B != 255 || KindRemote.Color().R != 255 || KindFood.Color().G == 0 {
		t.Fatalf("unexpected palette")
	}
}

func TestCounterLabelOnlyChangesOnNotify(t *testing.T) {
	c := NewCounter()
	if c.Label() != "Eaten: 0" {
		t.Fatalf("label = %q", c.Label())
	}

	foods := make([]game.Food, 0, game.FoodPoolSize)
	foods = append(foods, game.Food{ID: 1, Position: game.Vec2{X: 1500, Y: 1500}, Size: 5})
	for i := 1; i < game.FoodPoolSize; i++ {
		foods = append(foods, game.Food{ID: uint64(i + 1), Position: game.Vec2{X: float64(10 + 25*i), Y: 20}, Size: 5})
	}
	sim := game.NewSimulation(game.DefaultWorld(), game.Options{
		Food:     foods,
		Rand:     rand.New(rand.NewSource(7)),
		Viewport: game.Size{W: 1280, H: 720},
	})
	sim.AddCounterSink(c)
	sim.Pointer().Set(640, 720)

	sim.Tick()
	if c.Label() != "Eaten: 1" {
		t.Fatalf("label after eating = %q", c.Label())
	}
	for i := 0; i < 20; i++ {
		sim.Tick()
	}
	if c.Label() != "Eaten: 1" {
		t.Fatalf("label changed without food: %q", c.Label())
	}
}
