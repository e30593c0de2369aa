package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"growth-arena/game"
	"growth-arena/protocol"
)

// Reconnect backoff bounds
const (
	MinBackoff = 250 * time.Millisecond
	MaxBackoff = 5 * time.Second
)

// LatencyInterval is how often an application ping measures round trip time
const LatencyInterval = 2 * time.Second

var ErrClosedByServer = errors.New("connection closed by server")

// Client keeps a connection to the relay alive, publishes the local player's
// position and writes everyone else into a RemoteBuffer
type Client struct {
	URL  string
	Name string

	remote *game.RemoteBuffer
	dialer websocket.Dialer

	mu      sync.Mutex
	id      string
	pending protocol.Pos
	dirty   bool

	connected atomic.Bool
	rtt       atomic.Int64 // nanoseconds
}

// NewClient creates a client for url. id is offered to the relay in hello and
// replaced by whatever id the relay assigns.
func NewClient(url, id, name string, remote *game.RemoteBuffer) *Client {
	return &Client{
		URL:    url,
		Name:   name,
		remote: remote,
		id:     id,
		dialer: websocket.Dialer{
			HandshakeTimeout:  5 * time.Second,
			EnableCompression: true,
			Proxy:             http.ProxyFromEnvironment,
		},
	}
}

// ID returns the id the relay knows this client by
func (c *Client) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

// Connected reports whether a session is currently open
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// RTT returns the last measured round trip time, or zero before the first
// pong
func (c *Client) RTT() time.Duration {
	return time.Duration(c.rtt.Load())
}

// PublishPosition records the player's position for the next send. It never
// blocks; a newer position overwrites one that has not been sent yet.
func (c *Client) PublishPosition(p game.Player) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = protocol.Pos{X: p.Position.X, Y: p.Position.Y, Size: p.Size}
	c.dirty = true
}

func (c *Client) takePosition() (protocol.Pos, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return protocol.Pos{}, false
	}
	c.dirty = false
	return c.pending, true
}

// Run connects and reconnects until ctx is cancelled. Remote players are
// cleared whenever the connection drops.
func (c *Client) Run(ctx context.Context) error {
	backoff := MinBackoff
	for {
		started := time.Now()
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if time.Since(started) > MaxBackoff {
			backoff = MinBackoff
		}
		log.Printf("connection to %s lost: %v; retrying in %v", c.URL, err, backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff)
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > MaxBackoff {
		d = MaxBackoff
	}
	return d
}

// session runs one connection from dial to disconnect
func (c *Client) session(ctx context.Context) error {
	conn, resp, err := c.dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		if resp != nil {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("dial: %s: %s", resp.Status, body)
		}
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	c.connected.Store(true)
	defer func() {
		c.connected.Store(false)
		c.remote.Clear()
	}()
	log.Printf("connected to %s", c.URL)

	if err := c.write(conn, protocol.MsgHello, protocol.Hello{ID: c.ID(), Name: c.Name}); err != nil {
		return err
	}

	readErr := make(chan error, 1)
	go func() { readErr <- c.readPump(conn) }()

	return c.writePump(ctx, conn, readErr)
}

// readPump applies inbound frames until the connection fails
func (c *Client) readPump(conn *websocket.Conn) error {
	conn.SetReadDeadline(time.Now().Add(protocol.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(protocol.PongWait))
		return nil
	})

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ErrClosedByServer
			}
			return err
		}
		conn.SetReadDeadline(time.Now().Add(protocol.PongWait))

		switch kind {
		case websocket.BinaryMessage:
			st, err := protocol.DecodeState(data)
			if err != nil {
				log.Printf("bad state frame: %v", err)
				continue
			}
			c.applyState(st)
		case websocket.TextMessage:
			env, err := protocol.DecodeEnvelope(data)
			if err != nil {
				log.Printf("bad message: %v", err)
				continue
			}
			c.handleMessage(env)
		}
	}
}

func (c *Client) handleMessage(env protocol.Envelope) {
	switch env.T {
	case protocol.MsgWelcome:
		w, err := protocol.DecodePayload[protocol.Welcome](env)
		if err != nil {
			log.Printf("bad welcome: %v", err)
			return
		}
		c.mu.Lock()
		c.id = w.ID
		c.mu.Unlock()
		log.Printf("joined as %s", w.ID)
	case protocol.MsgPong:
		p, err := protocol.DecodePayload[protocol.Pong](env)
		if err != nil || p.Sent == 0 {
			return
		}
		if rtt := time.Since(time.UnixMilli(p.Sent)); rtt >= 0 {
			c.rtt.Store(int64(rtt))
		}
	case protocol.MsgLeave:
		if l, err := protocol.DecodePayload[protocol.Leave](env); err == nil && l.ID != "" {
			c.remote.Remove(l.ID)
		}
	}
}

// applyState replaces the remote set with the frame's players
func (c *Client) applyState(st protocol.State) {
	self := c.ID()
	players := make([]game.RemotePlayer, 0, len(st.Players))
	for _, p := range st.Players {
		if p.ID == self {
			continue
		}
		players = append(players, game.RemotePlayer{
			ID:       p.ID,
			Name:     p.Name,
			Position: game.Vec2{X: p.X, Y: p.Y},
			Size:     p.Size,
		})
	}
	if rejected := c.remote.Apply(players); rejected > 0 {
		log.Printf("dropped %d invalid remote players", rejected)
	}
}

// writePump is the only writer on conn. It sends the latest position at
// protocol.SendRate plus keepalive and latency pings.
func (c *Client) writePump(ctx context.Context, conn *websocket.Conn, readErr <-chan error) error {
	send := time.NewTicker(time.Second / protocol.SendRate)
	ping := time.NewTicker(protocol.PingPeriod)
	latency := time.NewTicker(LatencyInterval)
	defer func() {
		send.Stop()
		ping.Stop()
		latency.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			c.write(conn, protocol.MsgLeave, protocol.Leave{ID: c.ID()})
			conn.SetWriteDeadline(time.Now().Add(protocol.WriteWait))
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return ctx.Err()

		case err := <-readErr:
			return err

		case <-send.C:
			if pos, ok := c.takePosition(); ok {
				if err := c.write(conn, protocol.MsgPos, pos); err != nil {
					return err
				}
			}

		case <-latency.C:
			if err := c.write(conn, protocol.MsgPing, protocol.Ping{Sent: time.Now().UnixMilli()}); err != nil {
				return err
			}

		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(protocol.WriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

func (c *Client) write(conn *websocket.Conn, t string, payload any) error {
	data, err := protocol.Encode(t, payload)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(protocol.WriteWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}
