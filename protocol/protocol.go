package protocol

import (
	"encoding/json"
	"time"
)

// ProtocolVersion is carried in every control envelope
const ProtocolVersion = 1

// Control message types, sent as JSON text frames
const (
	MsgHello   = "hello"
	MsgWelcome = "welcome"
	MsgPos     = "pos"
	MsgPing    = "ping"
	MsgPong    = "pong"
	MsgLeave   = "leave"
)

const (
	SendRate      = 15 // position updates per second, client to relay
	BroadcastRate = 15 // state frames per second, relay to client
)

// Connection timing shared by both ends
const (
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4096
)

type Envelope struct {
	V int             `json:"v"`
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"` // raw payload bytes
}

// Hello is the first message a client sends after connecting
type Hello struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Welcome answers Hello with the id the relay will use for this client
type Welcome struct {
	ID          string  `json:"id"`
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`
}

// Pos is the sender's latest position
type Pos struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
}

type Ping struct {
	Sent int64 `json:"sent"` // unix millis
}

type Pong struct {
	Sent int64 `json:"sent"` // echoed from Ping
}

// Leave announces a clean disconnect
type Leave struct {
	ID string `json:"id,omitempty"`
}

// State is the binary frame listing every other connected player
type State struct {
	Tick    uint64        `msgpack:"tick"`
	Players []PlayerState `msgpack:"players"`
}

type PlayerState struct {
	ID   string  `msgpack:"id"`
	Name string  `msgpack:"name,omitempty"`
	X    float64 `msgpack:"x"`
	Y    float64 `msgpack:"y"`
	Size float64 `msgpack:"size"`
}
