// Package stream serves live particle snapshots to websocket clients, for
// watching a headless run from a browser.
package stream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/brine/telemetry"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server broadcasts snapshots to every connected client on /ws.
type Server struct {
	addr   string
	server *http.Server

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// NewServer creates a snapshot server listening on addr.
func NewServer(addr string) *Server {
	s := &Server{
		addr:  addr,
		conns: make(map[*websocket.Conn]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	s.server = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Start begins serving. Listen errors after startup are logged, not fatal;
// the simulation keeps running without the stream.
func (s *Server) Start() {
	go func() {
		slog.Info("stream listening", "addr", s.addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("stream server stopped", "error", err)
		}
	}()
}

// wsHandler upgrades the connection and registers the client.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			slog.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		}
		return
	}

	s.mu.Lock()
	s.conns[conn] = true
	clients := len(s.conns)
	s.mu.Unlock()
	slog.Info("stream client connected", "remote", r.RemoteAddr, "clients", clients)

	// Drain incoming messages so pings and close frames are processed.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					slog.Warn("stream client error", "error", err)
				}
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	conn.Close()
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Broadcast sends a snapshot to every client. Clients that fail to accept
// the write are dropped.
func (s *Server) Broadcast(snap *telemetry.Snapshot) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		if err := c.WriteJSON(snap); err != nil {
			s.drop(c)
		}
	}
}

// Close disconnects all clients and stops the listener.
func (s *Server) Close() error {
	s.mu.Lock()
	for c := range s.conns {
		c.Close()
	}
	s.conns = make(map[*websocket.Conn]bool)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down stream server: %w", err)
	}
	return nil
}
