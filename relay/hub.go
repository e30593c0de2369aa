package relay

import (
	"context"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"growth-arena/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Hub fans every joined client's last position out to the others. It does
// not simulate anything: each client owns its own world.
type Hub struct {
	Width  float64
	Height float64

	mu      sync.RWMutex
	clients map[string]*Client
	tick    uint64
}

// NewHub creates a hub that advertises the given world size in welcome
func NewHub(width, height float64) *Hub {
	return &Hub{
		Width:   width,
		Height:  height,
		clients: make(map[string]*Client),
	}
}

// Join registers c under its final id. A requested id is kept when it is a
// valid uuid that no other client holds; otherwise the assigned id stays.
// A second hello from the same client changes nothing.
func (h *Hub) Join(c *Client, requested string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.clients[c.ID]; ok && existing == c {
		return
	}
	if requested != "" && requested != c.ID {
		if _, err := uuid.Parse(requested); err == nil {
			if _, taken := h.clients[requested]; !taken {
				c.mu.Lock()
				c.ID = requested
				c.mu.Unlock()
			}
		}
	}
	h.clients[c.ID] = c
}

// Disconnect removes a client, stops its write pump and tells the others
// it left
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	var remaining []*Client
	if existing, ok := h.clients[c.ID]; ok && existing == c {
		delete(h.clients, c.ID)
		log.Printf("client %s disconnected (%d remaining)", c.ID, len(h.clients))
		remaining = make([]*Client, 0, len(h.clients))
		for _, other := range h.clients {
			remaining = append(remaining, other)
		}
	}
	h.mu.Unlock()
	c.close()

	for _, other := range remaining {
		other.SendMessage(protocol.MsgLeave, protocol.Leave{ID: c.ID})
	}
}

// Len returns the number of joined clients
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends every joined client a state frame listing everyone else
func (h *Hub) Broadcast() {
	h.mu.Lock()
	h.tick++
	tick := h.tick
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	states := make([]protocol.PlayerState, 0, len(clients))
	for _, c := range clients {
		if s, ok := c.snapshot(); ok {
			states = append(states, s)
		}
	}
	sort.Slice(states, func(i, j int) bool { return states[i].ID < states[j].ID })

	for _, c := range clients {
		others := make([]protocol.PlayerState, 0, len(states))
		for _, s := range states {
			if s.ID != c.ID {
				others = append(others, s)
			}
		}
		data, err := protocol.EncodeState(protocol.State{Tick: tick, Players: others})
		if err != nil {
			log.Printf("encode state for %s: %v", c.ID, err)
			continue
		}
		c.queue(frame{kind: websocket.BinaryMessage, data: data})
	}
}

// Run broadcasts at protocol.BroadcastRate until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / protocol.BroadcastRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Broadcast()
		}
	}
}

// HandleWebSocket upgrades HTTP connection to WebSocket
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade error: %v", err)
			return
		}

		client := NewClient(uuid.New().String(), conn, hub)
		log.Printf("client %s connected from %s", client.ID, r.RemoteAddr)

		// Start read and write pumps
		go client.WritePump()
		go client.ReadPump()
	}
}
