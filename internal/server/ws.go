package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/mathspire/mathspire-server/internal/config"
	"github.com/mathspire/mathspire-server/internal/game"
	"github.com/mathspire/mathspire-server/internal/repository"
	"github.com/mathspire/mathspire-server/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// The game is served from arbitrary school networks; combat
		// state carries no secrets beyond the session token.
		return true
	},
}

// Message is one client request on the websocket.
type Message struct {
	Type     string          `json:"type"`
	CombatID string          `json:"combat_id,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Response is one server reply. Events carry what happened since the
// previous snapshot so the client can pace its animations.
type Response struct {
	Type     string      `json:"type"`
	CombatID string      `json:"combat_id,omitempty"`
	Data     any         `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// Client is one websocket connection. A connection drives at most one
// combat at a time.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu          sync.Mutex
	combatID    string
	encounterID string
	profileID   string
	username    string
}

// Hub owns the connected clients and routes messages to the engine.
type Hub struct {
	engine   *game.Engine
	sessions *session.Manager
	profiles *repository.ProfileRepository
	cfg      config.Config
	logger   *zap.Logger

	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates the hub. profiles may be nil, in which case clients
// play as guests with the starter deck.
func NewHub(engine *game.Engine, sessions *session.Manager, profiles *repository.ProfileRepository, cfg config.Config, logger *zap.Logger) *Hub {
	return &Hub{
		engine:     engine,
		sessions:   sessions,
		profiles:   profiles,
		cfg:        cfg,
		logger:     logger,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run processes client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.dropCombat(client)
			h.logger.Debug("client unregistered")
		}
	}
}

// dropCombat discards the client's combat. Finished combats already
// had their replay saved at the terminal transition.
func (h *Hub) dropCombat(c *Client) {
	c.mu.Lock()
	combatID := c.combatID
	c.mu.Unlock()
	if combatID != "" {
		h.engine.Remove(combatID)
	}
}

// ServeWS upgrades an HTTP request to a websocket client.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.register <- client

	go client.writePump(h.cfg.Server.WriteTimeout)
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(1 << 16)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("", "malformed message")
			continue
		}
		c.hub.handleMessage(c, msg)
	}
}

func (c *Client) writePump(writeTimeout time.Duration) {
	defer c.conn.Close()
	for raw := range c.send {
		if writeTimeout > 0 {
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return
		}
	}
}

func (c *Client) sendResponse(resp Response) {
	raw, err := json.Marshal(resp)
	if err != nil {
		c.hub.logger.Error("marshal response", zap.Error(err))
		return
	}
	select {
	case c.send <- raw:
	default:
		// Slow client; drop the frame rather than block the hub.
		c.hub.logger.Warn("dropping frame for slow client")
	}
}

func (c *Client) sendError(combatID, msg string) {
	c.sendResponse(Response{Type: "error", CombatID: combatID, Error: msg})
}

// Server wraps the HTTP listener exposing the websocket endpoint.
type Server struct {
	hub    *Hub
	logger *zap.Logger
	http   *http.Server
}

// NewServer builds the HTTP server around the hub.
func NewServer(hub *Hub, cfg config.ServerConfig, logger *zap.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return &Server{
		hub:    hub,
		logger: logger,
		http:   &http.Server{Addr: cfg.Address, Handler: mux},
	}
}

// ListenAndServe blocks serving the websocket endpoint.
func (s *Server) ListenAndServe() error {
	s.logger.Info("websocket server listening", zap.String("address", s.http.Addr))
	return s.http.ListenAndServe()
}

// Shutdown drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
