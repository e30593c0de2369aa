package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"growth-arena/game"
)

// Environment variables read by Load
const (
	EnvServerURL = "ARENA_WS_URL"
	EnvName      = "ARENA_NAME"
	EnvOffline   = "ARENA_OFFLINE"
	EnvMute      = "ARENA_MUTE"
	EnvListen    = "ARENA_LISTEN"
)

const (
	DefaultServerURL  = "ws://127.0.0.1:8080/ws"
	DefaultPlayerName = "player"
	DefaultListenAddr = ":8080"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the runtime configuration shared by the binaries
type Config struct {
	ServerURL   string
	ListenAddr  string
	PlayerName  string
	Offline     bool
	Mute        bool
	WorldWidth  float64
	WorldHeight float64
	TickRate    int
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ServerURL:   DefaultServerURL,
		ListenAddr:  DefaultListenAddr,
		PlayerName:  DefaultPlayerName,
		WorldWidth:  game.WorldWidth,
		WorldHeight: game.WorldHeight,
		TickRate:    game.TickRate,
	}
}

// Load reads a .env file from the working directory if one exists, then
// overlays the environment on the defaults. Flags are applied by each binary
// afterwards.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv overlays variables looked up through getenv on the defaults
func FromEnv(getenv func(string) string) Config {
	c := Default()
	c.ServerURL = lookup(getenv, EnvServerURL, c.ServerURL)
	c.ListenAddr = lookup(getenv, EnvListen, c.ListenAddr)
	c.PlayerName = lookup(getenv, EnvName, c.PlayerName)
	c.Offline = lookupBool(getenv, EnvOffline, c.Offline)
	c.Mute = lookupBool(getenv, EnvMute, c.Mute)
	return c
}

func lookup(getenv func(string) string, k, def string) string {
	if v := strings.TrimSpace(getenv(k)); v != "" {
		return v
	}
	return def
}

func lookupBool(getenv func(string) string, k string, def bool) bool {
	v := strings.TrimSpace(getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("%s=%q is not a boolean, using %v", k, v, def)
		return def
	}
	return b
}

// Validate reports the first unusable setting
func (c Config) Validate() error {
	if !(c.WorldWidth > 0) || !(c.WorldHeight > 0) {
		return fmt.Errorf("%w: world %vx%v must be positive", ErrInvalidConfig, c.WorldWidth, c.WorldHeight)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("%w: tick rate %d must be positive", ErrInvalidConfig, c.TickRate)
	}
	if c.Offline {
		return nil
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("%w: server url: %v", ErrInvalidConfig, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: server url %q must use ws or wss", ErrInvalidConfig, c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: server url %q has no host", ErrInvalidConfig, c.ServerURL)
	}
	return nil
}

// World builds the game world the configuration describes
func (c Config) World() (game.World, error) {
	return game.NewWorld(c.WorldWidth, c.WorldHeight)
}
