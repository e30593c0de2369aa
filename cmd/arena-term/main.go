package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"growth-arena/audio"
	"growth-arena/config"
	"growth-arena/game"
	"growth-arena/network"
	"growth-arena/terminal"
)

func main() {
	log.SetPrefix("arena-term: ")
	cfg := config.Load()

	flag.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "relay websocket URL")
	flag.StringVar(&cfg.PlayerName, "name", cfg.PlayerName, "name shown to other players")
	flag.BoolVar(&cfg.Offline, "offline", cfg.Offline, "play without connecting to a relay")
	flag.BoolVar(&cfg.Mute, "mute", cfg.Mute, "disable sound")
	flag.IntVar(&cfg.TickRate, "tps", cfg.TickRate, "simulation ticks per second")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	world, err := cfg.World()
	if err != nil {
		log.Fatal(err)
	}

	// Log lines would corrupt the screen
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}

	// Restore the terminal even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nARENA CRASHED: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	sim := game.NewSimulation(world, game.Options{})

	blip := audio.NewBlip(cfg.Mute)
	if !cfg.Mute {
		if err := blip.Init(); err != nil {
			log.Printf("audio initialization failed: %v", err)
		}
	}
	defer blip.Close()
	sim.AddGrowthListener(blip)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var publisher terminal.Publisher
	if !cfg.Offline {
		client := network.NewClient(cfg.ServerURL, sim.Player().ID, cfg.PlayerName, sim.Remote())
		go client.Run(ctx)
		publisher = client
	}

	terminal.NewHost(screen, sim, cfg.TickRate, publisher).Run(ctx)
}
