// Package transport provides the websocket implementation of the core's
// PlayerChannel boundary (§6.2). The sim package never imports this
// package; wiring happens one level up in cmd/coreserver.
package transport

import (
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"fight-club-core/internal/corelog"
	"fight-club-core/internal/sim"
)

const (
	// MaxConnectionsTotal bounds process-wide live sockets regardless of IP.
	MaxConnectionsTotal = 500
	sendBufferSize       = 64
	writeWait            = 5 * time.Second
	pongWait             = 30 * time.Second
	pingPeriod           = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return IsAllowedOrigin(r.Header.Get("Origin"))
	},
}

// clientEnvelope is the wire shape of every inbound websocket message: a
// discriminator plus the payload for that message type (§6.1).
type clientEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// joinPayload is the first message a new connection must send before any
// input is accepted.
type joinPayload struct {
	PlayerID   sim.PlayerID `json:"playerId"`
	Team       int32        `json:"team"`
	Name       string       `json:"name"`
	FactionTag string       `json:"factionTag"`
	Spectator  bool         `json:"spectator"`
}

// wsChannel is one connection's duplex I/O half, satisfying sim.PlayerChannel.
// Writes never block the tick goroutine: Send enqueues onto a bounded buffer
// and a per-connection pump goroutine does the actual socket write; a full
// buffer drops the snapshot/event rather than stalling the simulation (§5).
type wsChannel struct {
	conn   *websocket.Conn
	send   chan interface{}
	closed int32
	once   sync.Once
}

func newWSChannel(conn *websocket.Conn) *wsChannel {
	return &wsChannel{conn: conn, send: make(chan interface{}, sendBufferSize)}
}

func (c *wsChannel) IsOpen() bool {
	return atomic.LoadInt32(&c.closed) == 0
}

// Send is non-blocking: a stalled client drops messages instead of backing
// up the tick orchestrator (§5's "writer=any" contract for the channel
// registry implies the reader side must never wait on a slow peer).
func (c *wsChannel) Send(v interface{}) {
	if !c.IsOpen() {
		return
	}
	select {
	case c.send <- v:
	default:
	}
}

func (c *wsChannel) closeOnce() {
	c.once.Do(func() {
		atomic.StoreInt32(&c.closed, 1)
		close(c.send)
		c.conn.Close()
	})
}

func (c *wsChannel) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.closeOnce()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump parses the join handshake, registers the connection with the
// engine, then dispatches every subsequent message as an input frame until
// the socket closes.
func (c *wsChannel) readPump(engine *sim.Engine) {
	defer func() {
		c.closeOnce()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	var pid sim.PlayerID
	registered := false

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var env clientEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			corelog.Warn("transport: malformed envelope discarded: %v", err)
			continue
		}

		switch env.Type {
		case "join":
			if registered {
				continue
			}
			var j joinPayload
			if err := json.Unmarshal(env.Data, &j); err != nil || j.PlayerID == "" {
				corelog.Warn("transport: malformed join discarded: %v", err)
				continue
			}
			pid = j.PlayerID
			registered = true
			if j.Spectator {
				engine.RegisterSpectator(pid, c)
			} else {
				engine.RegisterPlayer(pid, j.Team, j.Name, j.FactionTag, c)
			}
		case "input":
			if !registered {
				continue
			}
			var frame sim.InputFrame
			if err := json.Unmarshal(env.Data, &frame); err != nil {
				corelog.Warn("transport: malformed input frame from %s discarded: %v", pid, err)
				continue
			}
			engine.AcceptPlayerInput(pid, frame)
		default:
			corelog.Warn("transport: unknown envelope type %q discarded", env.Type)
		}
	}

	if registered {
		engine.UnregisterPlayer(pid)
	}
}

// HandleWebSocket upgrades an HTTP request to a websocket connection and
// wires it to the engine. The initial message on every connection must be
// a "join" envelope (§6.2); input frames sent before that are discarded.
func HandleWebSocket(engine *sim.Engine, activeConns *int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(activeConns) >= MaxConnectionsTotal {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			corelog.Warn("transport: websocket upgrade failed: %v", err)
			return
		}

		atomic.AddInt32(activeConns, 1)
		ch := newWSChannel(conn)
		go func() {
			ch.readPump(engine)
			atomic.AddInt32(activeConns, -1)
		}()
		go ch.writePump()
	}
}
