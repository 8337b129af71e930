package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jetctf/jetctf-web/bot"
	"github.com/jetctf/jetctf-web/game"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:    1024,
	WriteBufferSize:   4096,
	EnableCompression: true,
	CheckOrigin:       isValidOrigin,
}

// isValidOrigin accepts same-host connections and local development
// origins.
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	host := r.Host
	if strings.Contains(origin, host) {
		return true
	}
	return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
}

// Client is one websocket connection: a spectator until it sends a
// join frame, then the owner of a player pawn.
type Client struct {
	id       int
	conn     *websocket.Conn
	send     chan []byte
	server   *Server
	playerID bot.EntityID
}

// ServerMessage is the envelope for everything pushed to spectators.
type ServerMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	Text string          `json:"text,omitempty"`
}

// ClientMessage is one control frame from a client: "join" claims a
// pawn, "input" drives it.
type ClientMessage struct {
	Type string `json:"type"`

	// join
	Name string `json:"name,omitempty"`
	Team int    `json:"team,omitempty"`

	// input
	Forward float64      `json:"forward,omitempty"`
	Right   float64      `json:"right,omitempty"`
	Look    game.Rotator `json:"look,omitempty"`
	Jet     bool         `json:"jet,omitempty"`
	Skate   bool         `json:"skate,omitempty"`
	Trigger bool         `json:"trigger,omitempty"`
	Weapon  *int         `json:"weapon,omitempty"`
}

// PawnSnapshot is one pawn's state in a frame snapshot.
type PawnSnapshot struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Team        int       `json:"team"`
	Bot         bool      `json:"bot"`
	Position    game.Vec3 `json:"position"`
	Velocity    game.Vec3 `json:"velocity"`
	Health      float64   `json:"health"`
	Energy      float64   `json:"energy"`
	Weapon      string    `json:"weapon"`
	Heat        float64   `json:"heat"`
	HoldingFlag bool      `json:"holding_flag"`
}

// FlagSnapshot is one flag's state in a frame snapshot.
type FlagSnapshot struct {
	Team     int       `json:"team"`
	Location game.Vec3 `json:"location"`
	AtHome   bool      `json:"at_home"`
	Held     bool      `json:"held"`
}

// StateSnapshot is the full spectator view of one frame.
type StateSnapshot struct {
	Time   float64        `json:"time"`
	Pawns  []PawnSnapshot `json:"pawns"`
	Flags  []FlagSnapshot `json:"flags"`
	Scores map[int]int    `json:"scores"`
}

// HandleWebSocket upgrades a spectator connection and hands it to the
// hub.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	s.mu.Lock()
	s.nextClientID++
	client := &Client{
		id:       s.nextClientID,
		conn:     conn,
		send:     make(chan []byte, 64),
		server:   s,
		playerID: bot.NoEntity,
	}
	s.mu.Unlock()

	s.register <- client

	go client.writePump()
	go client.readPump()
}

// snapshot builds the spectator view under the simulation lock.
func (s *Server) snapshot() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StateSnapshot{
		Time:   s.now,
		Scores: map[int]int{},
	}
	for _, p := range s.pawns {
		w, _ := p.Weapon()
		snap.Pawns = append(snap.Pawns, PawnSnapshot{
			ID:          int(p.ID()),
			Name:        p.Name(),
			Team:        p.Team(),
			Bot:         p.isBot,
			Position:    p.Position(),
			Velocity:    p.Velocity(),
			Health:      p.Health(),
			Energy:      p.Energy(),
			Weapon:      w.Kind.String(),
			Heat:        w.Heat,
			HoldingFlag: p.HoldingFlag(),
		})
	}
	for _, team := range []int{game.TeamRed, game.TeamBlue} {
		f := s.match.Flag(team)
		snap.Flags = append(snap.Flags, FlagSnapshot{
			Team:     team,
			Location: f.Location,
			AtHome:   f.Home,
			Held:     f.Held,
		})
		snap.Scores[team] = s.match.Score(team)
	}
	return snap
}

// broadcastState pushes a frame snapshot to every spectator. Called
// outside the simulation lock.
func (s *Server) broadcastState() {
	snap := s.snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("snapshot marshal failed: %v", err)
		return
	}
	payload, err := json.Marshal(ServerMessage{Type: "state", Data: data})
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, client := range s.clients {
		select {
		case client.send <- payload:
		default:
			// Slow consumer: drop it rather than stall the loop.
			close(client.send)
			delete(s.clients, id)
		}
	}
}

// broadcastMessage pushes a chat-style line to every spectator. The
// caller holds the simulation lock.
func (s *Server) broadcastMessage(text string) {
	payload, err := json.Marshal(ServerMessage{Type: "message", Text: text})
	if err != nil {
		return
	}
	for id, client := range s.clients {
		select {
		case client.send <- payload:
		default:
			close(client.send)
			delete(s.clients, id)
		}
	}
}

// writePump drains the send channel onto the wire and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// readPump processes join and input frames from the client and
// unregisters on close.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("client %d read error: %v", c.id, err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "join":
			c.server.joinPlayer(c, msg)
		case "input":
			c.server.applyPlayerInput(c, msg)
		}
	}
}
