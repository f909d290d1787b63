// Package remote bridges the camera core to remote hosts over WebSocket.
// Clients send commands and input; the server streams the camera pose back.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/normanking/cortexcam/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

const (
	inboxSize      = 256
	clientSendSize = 32
	writeTimeout   = 5 * time.Second
)

// Server accepts WebSocket clients and queues their messages on an inbox
// that the frame loop drains between frames
type Server struct {
	cfg      config.RemoteConfig
	logger   zerolog.Logger
	gatherer prometheus.Gatherer
	upgrader websocket.Upgrader

	inbox chan Inbound

	mu      sync.RWMutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewServer creates a server. gatherer may be nil to disable the metrics endpoint.
func NewServer(cfg config.RemoteConfig, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		logger:   logger.With().Str("component", "remote").Logger(),
		gatherer: gatherer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		inbox:   make(chan Inbound, inboxSize),
		clients: make(map[*client]struct{}),
	}
}

// Inbox returns decoded client messages
func (s *Server) Inbox() <-chan Inbound {
	return s.inbox
}

// Handler returns the HTTP handler serving /ws and the metrics endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	if s.gatherer != nil && s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

// Start listens on the configured address until ctx is done
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{Addr: s.cfg.ListenAddr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("Remote bridge listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		s.closeClients()
		return server.Shutdown(shutdownCtx)
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		return err
	}
}

// ClientCount returns the number of connected clients
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends msg to every client. Clients that are not keeping up
// miss the message.
func (s *Server) Broadcast(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
		}
	}
	return nil
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientSendSize)}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Info().Str("remote", r.RemoteAddr).Msg("Remote client connected")

	go s.writeLoop(c)

	defer func() {
		s.mu.Lock()
		if _, ok := s.clients[c]; ok {
			delete(s.clients, c)
			close(c.send)
		}
		s.mu.Unlock()
		conn.Close()
		s.logger.Info().Str("remote", r.RemoteAddr).Msg("Remote client disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Msg("WebSocket read error")
			}
			return
		}

		in, err := DecodeInbound(data)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Ignoring client message")
			continue
		}

		select {
		case s.inbox <- in:
		default:
			s.logger.Warn().Msg("Inbox full, client message dropped")
		}
	}
}

func (s *Server) writeLoop(c *client) {
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.logger.Debug().Err(err).Msg("WebSocket write failed")
			c.conn.Close()
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) closeClients() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		close(c.send)
	}
}
