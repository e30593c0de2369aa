// Package scene turns a simulation view into screen-space shapes that any
// host can draw: the ebiten window and the terminal both render from it.
package scene

import (
	"fmt"
	"image/color"
	"sync"

	"growth-arena/game"
)

type Kind int

const (
	KindFood Kind = iota
	KindPlayer
	KindRemote
)

var (
	Background  = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	BorderColor = color.NRGBA{R: 180, G: 180, B: 180, A: 255}
	TextColor   = color.NRGBA{R: 32, G: 32, B: 32, A: 255}
)

// Color returns the fill for a kind of disc
func (k Kind) Color() color.NRGBA {
	switch k {
	case KindPlayer:
		return color.NRGBA{B: 255, A: 255}
	case KindRemote:
		return color.NRGBA{R: 255, A: 255}
	default:
		return color.NRGBA{G: 128, A: 255}
	}
}

// Disc is one filled circle in viewport pixels
type Disc struct {
	Kind   Kind
	ID     string
	Center game.Vec2
	Radius float64
}

// Frame is everything a host draws for one tick, back to front
type Frame struct {
	Viewport game.Size
	Border   game.Rect // world edges in viewport pixels
	Discs    []Disc
	Status   game.Status
	Counter  int
}

// Build projects a view through its camera for a world of the given size.
// Discs entirely off screen are dropped. Food is drawn first, then the local
// player, then remote players.
func Build(v game.View, world game.Size) Frame {
	origin := v.Camera.ToScreen(game.Vec2{})
	f := Frame{
		Viewport: v.Viewport,
		Border:   game.Rect{X: origin.X, Y: origin.Y, Width: world.W, Height: world.H},
		Status:   v.Status,
		Counter:  v.Counter,
		Discs:    make([]Disc, 0, len(v.Food)+len(v.Remote)+1),
	}

	for _, food := range v.Food {
		if v.Camera.Visible(food.Position, food.Size, v.Viewport) {
			f.Discs = append(f.Discs, Disc{
				Kind:   KindFood,
				ID:     fmt.Sprint(food.ID),
				Center: v.Camera.ToScreen(food.Position),
				Radius: food.Size,
			})
		}
	}
	f.Discs = append(f.Discs, Disc{
		Kind:   KindPlayer,
		ID:     v.Player.ID,
		Center: v.Camera.ToScreen(v.Player.Position),
		Radius: v.Player.Size,
	})
	for _, r := range v.Remote {
		if v.Camera.Visible(r.Position, r.Size, v.Viewport) {
			f.Discs = append(f.Discs, Disc{
				Kind:   KindRemote,
				ID:     r.ID,
				Center: v.Camera.ToScreen(r.Position),
				Radius: r.Size,
			})
		}
	}
	return f
}

// CounterLabel formats the food counter the way the HUD shows it
func CounterLabel(n int) string {
	return fmt.Sprintf("Eaten: %d", n)
}

// Counter is a CounterSink holding the HUD label. The label only changes
// when the simulation reports consumption.
type Counter struct {
	mu    sync.Mutex
	label string
}

func NewCounter() *Counter {
	return &Counter{label: CounterLabel(0)}
}

func (c *Counter) FoodCounterChanged(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.label = CounterLabel(total)
}

func (c *Counter) Label() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.label
}
