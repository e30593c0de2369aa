package render

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"growth-arena/game"
	"growth-arena/scene"
)

// Publisher receives the local player after every tick, e.g. a network
// client
type Publisher interface {
	PublishPosition(p game.Player)
}

// Status is optional connection info shown in the HUD
type Status interface {
	Connected() bool
	RTT() time.Duration
}

// Game hosts a Simulation in an ebiten window. ebiten calls Update at
// the simulation's tick rate and Draw once per frame.
type Game struct {
	sim       *game.Simulation
	counter   *scene.Counter
	publisher Publisher
	status    Status

	width, height int
	focusPaused   bool
}

// New creates a window host. publisher and status may be nil when playing
// offline.
func New(sim *game.Simulation, publisher Publisher, status Status) *Game {
	counter := scene.NewCounter()
	sim.AddCounterSink(counter)
	return &Game{
		sim:       sim,
		counter:   counter,
		publisher: publisher,
		status:    status,
	}
}

// Update runs one simulation tick
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.togglePause()
	}

	// The game stops while the window is in the background
	if !ebiten.IsFocused() {
		if g.sim.Status() == game.StatusRunning {
			g.sim.Pause()
			g.focusPaused = true
		}
	} else if g.focusPaused {
		g.sim.Resume()
		g.focusPaused = false
	}

	if g.width > 0 && g.height > 0 {
		g.sim.SetViewport(float64(g.width), float64(g.height))
	}

	mx, my := ebiten.CursorPosition()
	g.sim.Pointer().Set(float64(mx), float64(my))

	g.sim.Tick()
	if g.publisher != nil {
		g.publisher.PublishPosition(g.sim.Player())
	}
	return nil
}

func (g *Game) togglePause() {
	if g.sim.Status() == game.StatusPaused {
		g.sim.Resume()
	} else {
		g.sim.Pause()
	}
	g.focusPaused = false
}

// Draw renders the current view
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(scene.Background)

	f := scene.Build(g.sim.View(), g.sim.World().Bounds)

	b := f.Border
	vector.StrokeRect(screen, float32(b.X), float32(b.Y), float32(b.Width), float32(b.Height), 2, scene.BorderColor, true)

	for _, d := range f.Discs {
		vector.DrawFilledCircle(screen, float32(d.Center.X), float32(d.Center.Y), float32(d.Radius), d.Kind.Color(), true)
	}

	g.drawHUD(screen, f)
}

func (g *Game) drawHUD(screen *ebiten.Image, f scene.Frame) {
	text.Draw(screen, g.counter.Label(), basicfont.Face7x13, 12, 22, scene.TextColor)

	line := 40
	if g.status != nil {
		msg := "offline"
		if g.status.Connected() {
			msg = fmt.Sprintf("ping %d ms", g.status.RTT().Milliseconds())
		}
		text.Draw(screen, msg, basicfont.Face7x13, 12, line, scene.TextColor)
		line += 18
	}
	if f.Status == game.StatusPaused {
		msg := "paused - press P"
		w := text.BoundString(basicfont.Face7x13, msg).Dx()
		text.Draw(screen, msg, basicfont.Face7x13, int(f.Viewport.W)/2-w/2, int(f.Viewport.H)/2-40, color.Black)
	}
}

// Layout follows the window size so the viewport always fills it
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it is closed
func Run(g *Game, title string, tickRate int) error {
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(game.DefaultViewportWidth, game.DefaultViewportHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tickRate)
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
