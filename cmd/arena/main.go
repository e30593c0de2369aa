package main

import (
	"context"
	"flag"
	"log"

	"growth-arena/audio"
	"growth-arena/config"
	"growth-arena/game"
	"growth-arena/network"
	"growth-arena/render"
)

func main() {
	log.SetPrefix("arena: ")
	cfg := config.Load()

	flag.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "relay websocket URL")
	flag.StringVar(&cfg.PlayerName, "name", cfg.PlayerName, "name shown to other players")
	flag.BoolVar(&cfg.Offline, "offline", cfg.Offline, "play without connecting to a relay")
	flag.BoolVar(&cfg.Mute, "mute", cfg.Mute, "disable sound")
	flag.IntVar(&cfg.TickRate, "tps", cfg.TickRate, "simulation ticks per second")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	world, err := cfg.World()
	if err != nil {
		log.Fatal(err)
	}

	sim := game.NewSimulation(world, game.Options{})

	blip := audio.NewBlip(cfg.Mute)
	if !cfg.Mute {
		if err := blip.Init(); err != nil {
			// Non-fatal, the game runs without sound
			log.Printf("audio initialization failed: %v", err)
		}
	}
	defer blip.Close()
	sim.AddGrowthListener(blip)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var g *render.Game
	if cfg.Offline {
		g = render.New(sim, nil, nil)
	} else {
		client := network.NewClient(cfg.ServerURL, sim.Player().ID, cfg.PlayerName, sim.Remote())
		go client.Run(ctx)
		g = render.New(sim, client, client)
	}

	log.Printf("starting as %s", sim.Player().ID)
	if err := render.Run(g, "Growth Arena", cfg.TickRate); err != nil {
		log.Fatal(err)
	}
}
