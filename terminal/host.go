package terminal

import (
	"context"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"growth-arena/game"
	"growth-arena/scene"
)

// A terminal cell stands for a CellWidth x CellHeight block of viewport
// pixels, which keeps discs round on typical 1:2 fonts
const (
	CellWidth  = 8
	CellHeight = 16
)

const (
	foodRune   = '•'
	playerRune = '█'
	remoteRune = '▓'
)

// Publisher receives the local player after every tick
type Publisher interface {
	PublishPosition(p game.Player)
}

// Host runs a Simulation in a terminal, steered with the mouse
type Host struct {
	screen    tcell.Screen
	sim       *game.Simulation
	loop      *game.Loop
	counter   *scene.Counter
	publisher Publisher

	focusPaused bool // only touched on the loop goroutine
}

// NewHost wires a simulation to an initialised screen. publisher may be nil.
func NewHost(screen tcell.Screen, sim *game.Simulation, tickRate int, publisher Publisher) *Host {
	h := &Host{
		screen:    screen,
		sim:       sim,
		loop:      game.NewLoop(sim, tickRate),
		counter:   scene.NewCounter(),
		publisher: publisher,
	}
	sim.AddCounterSink(h.counter)

	screen.EnableMouse()
	screen.EnableFocus()
	screen.HideCursor()
	w, ht := screen.Size()
	vp := viewportFor(w, ht)
	sim.SetViewport(vp.W, vp.H)
	sim.Pointer().Set(vp.W/2, vp.H/2)
	return h
}

func viewportFor(cols, rows int) game.Size {
	return game.Size{W: float64(cols * CellWidth), H: float64(rows * CellHeight)}
}

// Run ticks the simulation and draws every frame until ctx is cancelled or
// the user quits
func (h *Host) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return // screen finalised
			}
			if h.HandleEvent(ev) {
				cancel()
				return
			}
		}
	}()

	h.loop.Run(ctx, func(v game.View) {
		h.Draw(v)
		if h.publisher != nil {
			h.publisher.PublishPosition(v.Player)
		}
	})
}

// HandleEvent applies one input event and reports whether the user asked
// to quit. Simulation changes are queued on the loop.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		x, y := ev.Position()
		h.sim.Pointer().Set(float64(x*CellWidth+CellWidth/2), float64(y*CellHeight+CellHeight/2))

	case *tcell.EventResize:
		w, ht := ev.Size()
		vp := viewportFor(w, ht)
		h.loop.Do(func(s *game.Simulation) { s.SetViewport(vp.W, vp.H) })
		h.screen.Sync()

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return true
			case 'p':
				h.loop.Do(func(s *game.Simulation) {
					h.focusPaused = false
					if s.Status() == game.StatusPaused {
						s.Resume()
					} else {
						s.Pause()
					}
				})
			case 'r':
				h.loop.Do(func(s *game.Simulation) { s.Reset() })
			}
		}

	case *tcell.EventFocus:
		focused := ev.Focused
		h.loop.Do(func(s *game.Simulation) {
			switch {
			case !focused && s.Status() == game.StatusRunning:
				s.Pause()
				h.focusPaused = true
			case focused && h.focusPaused:
				s.Resume()
				h.focusPaused = false
			}
		})
	}
	return false
}

// Draw renders one view and shows it
func (h *Host) Draw(v game.View) {
	h.screen.Clear()
	f := scene.Build(v, h.sim.World().Bounds)
	cols, rows := h.screen.Size()

	drawBorder(h.screen, f.Border, cols, rows)
	for _, d := range f.Discs {
		drawDisc(h.screen, d, cols, rows)
	}

	label := styleFor(scene.TextColor)
	drawText(h.screen, 1, 0, label, h.counter.Label())
	if f.Status == game.StatusPaused {
		msg := "paused - press p"
		drawText(h.screen, cols/2-len(msg)/2, rows/2, label.Bold(true), msg)
	}
	h.screen.Show()
}

func styleFor(c color.NRGBA) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
}

// drawDisc fills every cell whose centre lies inside the disc, plus the cell
// holding the disc's centre so small discs never vanish
func drawDisc(s tcell.Screen, d scene.Disc, cols, rows int) {
	r := rune(foodRune)
	switch d.Kind {
	case scene.KindPlayer:
		r = playerRune
	case scene.KindRemote:
		r = remoteRune
	}
	style := styleFor(d.Kind.Color())

	x0 := int(math.Floor((d.Center.X - d.Radius) / CellWidth))
	x1 := int(math.Floor((d.Center.X + d.Radius) / CellWidth))
	y0 := int(math.Floor((d.Center.Y - d.Radius) / CellHeight))
	y1 := int(math.Floor((d.Center.Y + d.Radius) / CellHeight))
	for cy := max(y0, 0); cy <= min(y1, rows-1); cy++ {
		for cx := max(x0, 0); cx <= min(x1, cols-1); cx++ {
			centre := game.Vec2{X: float64(cx*CellWidth + CellWidth/2), Y: float64(cy*CellHeight + CellHeight/2)}
			if game.Distance(centre, d.Center) <= d.Radius {
				s.SetContent(cx, cy, r, nil, style)
			}
		}
	}

	cx := int(math.Floor(d.Center.X / CellWidth))
	cy := int(math.Floor(d.Center.Y / CellHeight))
	if cx >= 0 && cx < cols && cy >= 0 && cy < rows {
		s.SetContent(cx, cy, r, nil, style)
	}
}

// drawBorder outlines the world edges that fall on screen
func drawBorder(s tcell.Screen, b game.Rect, cols, rows int) {
	style := styleFor(scene.BorderColor)
	left := int(math.Floor(b.X / CellWidth))
	right := int(math.Floor((b.X + b.Width) / CellWidth))
	top := int(math.Floor(b.Y / CellHeight))
	bottom := int(math.Floor((b.Y + b.Height) / CellHeight))

	for y := max(top, 0); y <= min(bottom, rows-1); y++ {
		if left >= 0 && left < cols {
			s.SetContent(left, y, '│', nil, style)
		}
		if right >= 0 && right < cols {
			s.SetContent(right, y, '│', nil, style)
		}
	}
	for x := max(left, 0); x <= min(right, cols-1); x++ {
		if top >= 0 && top < rows {
			s.SetContent(x, top, '─', nil, style)
		}
		if bottom >= 0 && bottom < rows {
			s.SetContent(x, bottom, '─', nil, style)
		}
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
