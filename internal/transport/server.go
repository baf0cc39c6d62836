package transport

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wormarena/internal/broadcast"
	"wormarena/internal/config"
	"wormarena/internal/ids"
	"wormarena/internal/inputqueue"
	"wormarena/internal/room"
)

// Server exposes a room.Manager over WebSocket (spec.md §4.8). Grounded
// on the teacher's main.go WebSocket handler and ConnManager, generalized
// to dispatch joining players across rooms via room.Manager instead of a
// single implicit World, and to the named wire-event envelope scheme
// instead of the teacher's single-char "t" field.
type Server struct {
	cfg         config.Config
	logger      *log.Logger
	upgrader    websocket.Upgrader
	rateLimiter *ipRateLimiter

	rooms *room.Manager

	mu           sync.Mutex
	broadcasters map[string]*broadcast.Broadcaster
	conns        map[string]map[string]*conn // roomID -> playerID -> conn
}

// NewServer creates a server and its default room. room.Manager runs
// each room's loop in its own goroutine; callers register HandleWS with
// an http.ServeMux and run Run in a goroutine until shutdown.
func NewServer(cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin:       func(r *http.Request) bool { return true },
			ReadBufferSize:    1024,
			WriteBufferSize:   4096,
			EnableCompression: true,
		},
		rateLimiter:  newIPRateLimiter(cfg.IPCooldown),
		broadcasters: make(map[string]*broadcast.Broadcaster),
		conns:        make(map[string]map[string]*conn),
	}
	s.rooms = room.NewManager(cfg, logger, s.onBroadcastFor, func() int64 { return time.Now().UnixMilli() })
	return s
}

// Run starts background maintenance (the IP rate limiter's sweep) until
// done closes.
func (s *Server) Run(done <-chan struct{}) {
	s.rateLimiter.sweep(done)
}

// conn wraps one upgraded WebSocket with the state needed to validate and
// route its input (teacher's Conn, extended with a Validator and a
// delivery channel into the room's inputqueue.Manager).
type conn struct {
	id        string
	roomID    string
	ws        *websocket.Conn
	mu        sync.Mutex
	closed    bool
	validator *inputqueue.Validator
	deliver   chan<- inputqueue.Delivery
}

func (c *conn) send(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	_ = c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *conn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// HandleWS upgrades the request to a WebSocket and runs the connection's
// read loop until it disconnects. Register under the room path, e.g.
// mux.HandleFunc("/ws", server.HandleWS).
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip, _, _ = net.SplitHostPort(r.RemoteAddr)
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("transport: ws upgrade error: %v", err)
		return
	}

	if !s.rateLimiter.allow(ip) {
		s.sendErrorAndClose(ws, "too many connections, please wait")
		return
	}

	ws.EnableWriteCompression(true)

	r2 := s.rooms.AssignPlayer()
	if r2 == nil {
		s.sendErrorAndClose(ws, "no room available")
		return
	}
	if len(r2.World.Players) >= s.cfg.MaxPlayers {
		s.sendErrorAndClose(ws, "room is full")
		return
	}

	playerID := ids.New()
	c := &conn{
		id:        playerID,
		roomID:    r2.ID,
		ws:        ws,
		validator: inputqueue.NewValidator(s.cfg),
	}

	c.send(WelcomeEnvelope{
		Type:        EventWelcome,
		PlayerID:    playerID,
		WorldRadius: s.cfg.MapRadius,
	})

	s.readLoop(c, r2)
}

func (s *Server) sendErrorAndClose(ws *websocket.Conn, msg string) {
	data, _ := json.Marshal(ErrorEnvelope{Type: EventError, Message: msg})
	_ = ws.WriteMessage(websocket.TextMessage, data)
	ws.Close()
}

// readLoop blocks reading client envelopes until the socket closes,
// mirroring the teacher's Conn.ReadLoop.
func (s *Server) readLoop(c *conn, r *room.Room) {
	defer s.onDisconnect(c, r)

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("transport: ws read error for %s: %v", c.id, err)
			}
			return
		}

		var msg ClientEnvelope
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.send(ErrorEnvelope{Type: EventError, Message: "malformed message"})
			continue
		}

		switch msg.Type {
		case EventJoinRoom:
			name := msg.Name
			if name == "" {
				name = "Player"
			}
			s.onJoin(c, r, name)

		case EventInput:
			s.onInput(c, msg)

		case EventPing:
			c.send(PongEnvelope{Type: EventPong})
		}
	}
}

func (s *Server) onJoin(c *conn, r *room.Room, name string) {
	_, deliver := r.JoinPlayer(c.id, name, time.Now().UnixMilli())
	c.deliver = deliver

	s.mu.Lock()
	byRoom, ok := s.conns[r.ID]
	if !ok {
		byRoom = make(map[string]*conn)
		s.conns[r.ID] = byRoom
	}
	byRoom[c.id] = c
	s.mu.Unlock()

	s.broadcastToRoom(r.ID, PlayerJoinedEnvelope{Type: EventPlayerJoined, PlayerID: c.id, Name: name}, c.id)
}

func (s *Server) onInput(c *conn, msg ClientEnvelope) {
	if c.deliver == nil {
		return
	}
	in, err := c.validator.Validate(msg.Angle, msg.Boost, msg.ClientTime, msg.SeqNum, time.Now().UnixMilli(), time.Now())
	if err != nil {
		c.send(ErrorEnvelope{Type: EventError, Message: err.Error()})
		return
	}
	select {
	case c.deliver <- inputqueue.Delivery{PlayerID: c.id, Input: in}:
	default:
		// delivery channel full: the Tick Loop's pump is lagging behind
		// this connection; drop rather than block the read loop.
	}
}

func (s *Server) onDisconnect(c *conn, r *room.Room) {
	c.close()
	r.RemovePlayer(c.id)

	s.mu.Lock()
	if byRoom, ok := s.conns[r.ID]; ok {
		delete(byRoom, c.id)
	}
	b := s.broadcasters[r.ID]
	s.mu.Unlock()
	if b != nil {
		b.Forget(c.id)
	}

	s.broadcastToRoom(r.ID, PlayerLeftEnvelope{Type: EventPlayerLeft, PlayerID: c.id}, "")
}

func (s *Server) broadcasterFor(roomID string) *broadcast.Broadcaster {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.broadcasters[roomID]
	if !ok {
		b = broadcast.New(s.cfg)
		s.broadcasters[roomID] = b
	}
	return b
}

func (s *Server) connsIn(roomID string) []*conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	byRoom := s.conns[roomID]
	out := make([]*conn, 0, len(byRoom))
	for _, c := range byRoom {
		out = append(out, c)
	}
	return out
}

// broadcastToRoom sends v to every connection in roomID except
// excludePlayerID (pass "" to exclude no one).
func (s *Server) broadcastToRoom(roomID string, v interface{}, excludePlayerID string) {
	for _, c := range s.connsIn(roomID) {
		if c.id == excludePlayerID {
			continue
		}
		c.send(v)
	}
}

// onBroadcastFor adapts the room.Manager's per-room broadcast hook into a
// method bound to this server (spec.md §4.10, the lower-rate F_net
// schedule).
func (s *Server) onBroadcastFor(roomID string) room.BroadcastFunc {
	return func(nowMs int64, ev room.TickEvents) {
		s.broadcastTick(roomID, ev)
	}
}

func (s *Server) broadcastTick(roomID string, ev room.TickEvents) {
	r := s.rooms.Room(roomID)
	if r == nil {
		return
	}
	b := s.broadcasterFor(roomID)

	for _, c := range s.connsIn(roomID) {
		snap := b.BuildFor(c.id, r.World, r.Grid, ev.Leaderboard)
		c.send(gameStateEnvelope(ev.Tick, snap))
	}

	for _, d := range ev.Deaths {
		s.notifyDeath(roomID, d)
	}
}

func (s *Server) notifyDeath(roomID string, d room.DeathEvent) {
	msg := PlayerDiedEnvelope{
		Type:       EventPlayerDied,
		PlayerID:   d.VictimPlayerID,
		KillerName: d.KillerName,
		Score:      d.Score,
	}
	s.broadcastToRoom(roomID, msg, "")
}
