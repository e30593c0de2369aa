package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"growth-arena/config"
	"growth-arena/relay"
)

func main() {
	log.SetPrefix("relay: ")
	cfg := config.Load()

	addr := flag.String("listen", cfg.ListenAddr, "address to serve the websocket endpoint on")
	flag.Float64Var(&cfg.WorldWidth, "width", cfg.WorldWidth, "world width advertised to clients")
	flag.Float64Var(&cfg.WorldHeight, "height", cfg.WorldHeight, "world height advertised to clients")
	flag.Parse()

	if !(cfg.WorldWidth > 0) || !(cfg.WorldHeight > 0) {
		log.Fatalf("world %vx%v must be positive", cfg.WorldWidth, cfg.WorldHeight)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := relay.NewHub(cfg.WorldWidth, cfg.WorldHeight)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", relay.HandleWebSocket(hub))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Growth Arena Relay Running"))
	})
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("Starting relay on %s", *addr)
	log.Printf("WebSocket endpoint: ws://localhost%s/ws", *addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server error:", err)
	}
	log.Printf("relay stopped")
}
