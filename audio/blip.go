package audio

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"growth-arena/game"
)

const (
	sampleRate   = beep.SampleRate(44100)
	blipDuration = 60 * time.Millisecond

	basePitch = 880.0 // Hz at the starting size
	minPitch  = 220.0
)

// Blip plays a short tone every time the player eats. The tone drops as the
// player grows.
type Blip struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

// NewBlip creates a silent blip; call Init to open the speaker
func NewBlip(muted bool) *Blip {
	return &Blip{mixer: &beep.Mixer{}, muted: muted}
}

// Init opens the audio device
func (b *Blip) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Close stops playback and releases the device
func (b *Blip) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	b.initialized = false
}

func (b *Blip) SetMuted(muted bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.muted = muted
}

func (b *Blip) Muted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.muted
}

// OnGrowth queues one tone for the pellet just eaten
func (b *Blip) OnGrowth(ev game.GrowthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized || b.muted {
		return
	}
	tone, err := Tone(sampleRate, Pitch(ev.PlayerSize))
	if err != nil {
		log.Printf("blip: %v", err)
		return
	}
	speaker.Lock()
	b.mixer.Add(tone)
	speaker.Unlock()
}

// Pitch maps a player size to a tone frequency
func Pitch(size float64) float64 {
	if !(size > 0) {
		return basePitch
	}
	p := basePitch * math.Sqrt(game.InitialPlayerSize/size)
	return math.Max(minPitch, math.Min(basePitch, p))
}

// Tone builds a short, quiet sine blip
func Tone(rate beep.SampleRate, freq float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(rate.N(blipDuration), sine),
		Base:     2,
		Volume:   -2,
	}, nil
}
