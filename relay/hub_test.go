package relay

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"growth-arena/protocol"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub(3000, 3000)
	srv := httptest.NewServer(HandleWebSocket(hub))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	data, err := protocol.Encode(typ, payload)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readEnvelope returns the next text frame, skipping state frames
func readEnvelope(t *testing.T, conn *websocket.Conn) protocol.Envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if kind != websocket.TextMessage {
			continue
		}
		env, err := protocol.DecodeEnvelope(data)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		return env
	}
}

// readState returns the next binary frame, skipping control messages
func readState(t *testing.T, conn *websocket.Conn) protocol.State {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if kind != websocket.BinaryMessage {
			continue
		}
		st, err := protocol.DecodeState(data)
		if err != nil {
			t.Fatalf("decode state: %v", err)
		}
		return st
	}
}

func join(t *testing.T, conn *websocket.Conn, hello protocol.Hello) protocol.Welcome {
	t.Helper()
	send(t, conn, protocol.MsgHello, hello)
	env := readEnvelope(t, conn)
	if env.T != protocol.MsgWelcome {
		t.Fatalf("got %q, want welcome", env.T)
	}
	w, err := protocol.DecodePayload[protocol.Welcome](env)
	if err != nil {
		t.Fatalf("welcome payload: %v", err)
	}
	return w
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHelloGetsWelcome(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)

	w := join(t, conn, protocol.Hello{Name: "ann"})

	if _, err := uuid.Parse(w.ID); err != nil {
		t.Fatalf("assigned id %q is not a uuid", w.ID)
	}
	if w.WorldWidth != 3000 || w.WorldHeight != 3000 {
		t.Fatalf("welcome world %vx%v", w.WorldWidth, w.WorldHeight)
	}
	waitFor(t, "join", func() bool { return hub.Len() == 1 })
}

func TestHelloKeepsRequestedUUID(t *testing.T) {
	_, url := startHub(t)
	want := uuid.New().String()

	w := join(t, dial(t, url), protocol.Hello{ID: want})
	if w.ID != want {
		t.Fatalf("id = %q, want %q", w.ID, want)
	}

	// A second client asking for the same id gets its own
	other := join(t, dial(t, url), protocol.Hello{ID: want})
	if other.ID == want {
		t.Fatalf("duplicate id handed out")
	}

	// Non-uuid ids are replaced
	if w := join(t, dial(t, url), protocol.Hello{ID: "not-a-uuid"}); w.ID == "not-a-uuid" {
		t.Fatalf("non-uuid id accepted")
	}
}

func TestPingIsAnswered(t *testing.T) {
	_, url := startHub(t)
	conn := dial(t, url)
	send(t, conn, protocol.MsgPing, protocol.Ping{Sent: 1234})

	env := readEnvelope(t, conn)
	if env.T != protocol.MsgPong {
		t.Fatalf("got %q, want pong", env.T)
	}
	pong, err := protocol.DecodePayload[protocol.Pong](env)
	if err != nil || pong.Sent != 1234 {
		t.Fatalf("pong = %+v, %v", pong, err)
	}
}

func TestBroadcastExcludesRecipient(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)
	wa := join(t, a, protocol.Hello{Name: "a"})
	wb := join(t, b, protocol.Hello{Name: "b"})

	send(t, a, protocol.MsgPos, protocol.Pos{X: 100, Y: 200, Size: 10})
	send(t, b, protocol.MsgPos, protocol.Pos{X: 300, Y: 400, Size: 12.5})
	waitFor(t, "positions", func() bool {
		n := 0
		hub.mu.RLock()
		for _, c := range hub.clients {
			if _, ok := c.snapshot(); ok {
				n++
			}
		}
		hub.mu.RUnlock()
		return n == 2
	})

	hub.Broadcast()

	sa := readState(t, a)
	if len(sa.Players) != 1 || sa.Players[0].ID != wb.ID || sa.Players[0].X != 300 || sa.Players[0].Size != 12.5 {
		t.Fatalf("a saw %+v", sa.Players)
	}
	if sa.Players[0].Name != "b" {
		t.Fatalf("name = %q, want b", sa.Players[0].Name)
	}
	sb := readState(t, b)
	if len(sb.Players) != 1 || sb.Players[0].ID != wa.ID || sb.Players[0].Y != 200 {
		t.Fatalf("b saw %+v", sb.Players)
	}
	if sa.Tick != sb.Tick || sa.Tick == 0 {
		t.Fatalf("ticks %d and %d", sa.Tick, sb.Tick)
	}
}

func TestInvalidPositionIgnored(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	w := join(t, conn, protocol.Hello{})

	send(t, conn, protocol.MsgPos, protocol.Pos{X: 1, Y: 1, Size: -3})
	// The ping round trip orders the pos message before the check
	send(t, conn, protocol.MsgPing, protocol.Ping{})
	readEnvelope(t, conn)

	hub.mu.RLock()
	c := hub.clients[w.ID]
	hub.mu.RUnlock()
	if c == nil {
		t.Fatalf("client %s not joined", w.ID)
	}
	if _, ok := c.snapshot(); ok {
		t.Fatalf("negative size stored")
	}
}

func TestLeaveDisconnects(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	join(t, conn, protocol.Hello{})
	waitFor(t, "join", func() bool { return hub.Len() == 1 })

	send(t, conn, protocol.MsgLeave, protocol.Leave{})
	waitFor(t, "leave", func() bool { return hub.Len() == 0 })
}

func TestClosedConnectionIsRemoved(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, url)
	join(t, conn, protocol.Hello{})
	waitFor(t, "join", func() bool { return hub.Len() == 1 })

	conn.Close()
	waitFor(t, "disconnect", func() bool { return hub.Len() == 0 })
}

func TestQueueDropsSlowClient(t *testing.T) {
	hub := NewHub(100, 100)
	c := NewClient("slow", nil, hub)
	hub.Join(c, "")

	for i := 0; i < SendBufferSize+1; i++ {
		c.queue(frame{kind: websocket.BinaryMessage, data: []byte{1}})
	}
	waitFor(t, "slow client drop", func() bool { return hub.Len() == 0 })

	// Further frames after the drop are discarded without panicking
	c.queue(frame{kind: websocket.BinaryMessage, data: []byte{1}})
}

func TestDisconnectAnnouncesLeave(t *testing.T) {
	hub, url := startHub(t)
	a := dial(t, url)
	b := dial(t, url)
	join(t, a, protocol.Hello{})
	wb := join(t, b, protocol.Hello{})
	waitFor(t, "join", func() bool { return hub.Len() == 2 })

	b.Close()

	env := readEnvelope(t, a)
	if env.T != protocol.MsgLeave {
		t.Fatalf("got %q, want leave", env.T)
	}
	l, err := protocol.DecodePayload[protocol.Leave](env)
	if err != nil || l.ID != wb.ID {
		t.Fatalf("leave = %+v, %v", l, err)
	}
}
