package relay

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"growth-arena/protocol"
)

// SendBufferSize is how many frames may queue for a client before it is
// considered too slow and dropped
const SendBufferSize = 32

// MaxPlayerNameLen caps the name a client announces in hello
const MaxPlayerNameLen = 24

type frame struct {
	kind int // websocket.TextMessage or websocket.BinaryMessage
	data []byte
}

// Client is one connected peer
type Client struct {
	ID   string
	Conn *websocket.Conn
	Hub  *Hub

	sendMu sync.Mutex
	send   chan frame
	closed bool

	mu     sync.Mutex
	name   string
	pos    protocol.Pos
	hasPos bool
	joined bool
}

// NewClient creates a client for an upgraded connection
func NewClient(id string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   id,
		Conn: conn,
		Hub:  hub,
		send: make(chan frame, SendBufferSize),
	}
}

// snapshot returns the client's last reported state, if any
func (c *Client) snapshot() (protocol.PlayerState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined || !c.hasPos {
		return protocol.PlayerState{}, false
	}
	return protocol.PlayerState{
		ID:   c.ID,
		Name: c.name,
		X:    c.pos.X,
		Y:    c.pos.Y,
		Size: c.pos.Size,
	}, true
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Disconnect(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(protocol.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(protocol.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(protocol.PongWait))
		return nil
	})

	for {
		kind, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %s read error: %v", c.ID, err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		env, err := protocol.DecodeEnvelope(message)
		if err != nil {
			log.Printf("client %s sent bad message: %v", c.ID, err)
			continue
		}
		if !c.HandleMessage(env) {
			return
		}
	}
}

// WritePump sends queued frames and keepalive pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(protocol.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(protocol.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(f.kind, f.data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(protocol.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleMessage processes one control envelope. It reports false when the
// client asked to leave.
func (c *Client) HandleMessage(env protocol.Envelope) bool {
	switch env.T {
	case protocol.MsgHello:
		c.HandleHello(env)
	case protocol.MsgPos:
		c.HandlePos(env)
	case protocol.MsgPing:
		ping, err := protocol.DecodePayload[protocol.Ping](env)
		if err != nil {
			ping = protocol.Ping{}
		}
		c.SendMessage(protocol.MsgPong, protocol.Pong{Sent: ping.Sent})
	case protocol.MsgLeave:
		log.Printf("client %s left", c.ID)
		return false
	default:
		log.Printf("unknown message type %q from %s", env.T, c.ID)
	}
	return true
}

// HandleHello registers the client and answers with its id
func (c *Client) HandleHello(env protocol.Envelope) {
	hello, err := protocol.DecodePayload[protocol.Hello](env)
	if err != nil {
		log.Printf("client %s sent bad hello: %v", c.ID, err)
		return
	}
	name := hello.Name
	if len(name) > MaxPlayerNameLen {
		name = name[:MaxPlayerNameLen]
	}

	c.Hub.Join(c, hello.ID)

	c.mu.Lock()
	c.name = name
	c.joined = true
	c.mu.Unlock()

	c.SendMessage(protocol.MsgWelcome, protocol.Welcome{
		ID:          c.ID,
		WorldWidth:  c.Hub.Width,
		WorldHeight: c.Hub.Height,
	})
	log.Printf("player %q (%s) joined", name, c.ID)
}

// HandlePos stores the client's latest position. Updates before hello or
// with unusable numbers are ignored.
func (c *Client) HandlePos(env protocol.Envelope) {
	pos, err := protocol.DecodePayload[protocol.Pos](env)
	if err != nil {
		return
	}
	if !finite(pos.X) || !finite(pos.Y) || !finite(pos.Size) || pos.Size <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.joined {
		return
	}
	c.pos = pos
	c.hasPos = true
}

// SendMessage queues a control envelope
func (c *Client) SendMessage(t string, payload any) {
	data, err := protocol.Encode(t, payload)
	if err != nil {
		log.Printf("encode %s for %s: %v", t, c.ID, err)
		return
	}
	c.queue(frame{kind: websocket.TextMessage, data: data})
}

// queue hands a frame to the write pump, dropping the client if it cannot
// keep up
func (c *Client) queue(f frame) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- f:
	default:
		log.Printf("client %s send channel full, closing connection", c.ID)
		go c.Hub.Disconnect(c)
	}
}

// close stops the write pump once the queued frames are flushed
func (c *Client) close() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
