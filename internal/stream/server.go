package stream

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hjmartin/autobidder/internal/model"
)

// subscriberBuffer bounds how far a slow websocket client may lag
// before it starts losing messages.
const subscriberBuffer = 64

// envelope is the wire shape sent to websocket observers.
type envelope struct {
	Type string        `json:"type"`
	Time time.Time     `json:"time"`
	Data model.Message `json:"data"`
}

func messageType(m model.Message) string {
	switch m.(type) {
	case model.ErrorReport:
		return "error"
	case model.CycleResult:
		return "cycle_result"
	case model.PriceSnapshot:
		return "price_snapshot"
	case model.LogLine:
		return "log"
	default:
		return "unknown"
	}
}

// Server exposes the hub over a websocket endpoint.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer creates a websocket server over hub.
func NewServer(hub *Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		hub:      hub,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		logger:   logger,
	}
}

// Handler returns the websocket upgrade handler.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleStream)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	sub := s.hub.Subscribe(subscriberBuffer)
	defer s.hub.Unsubscribe(sub)

	s.logger.Debug("stream observer connected", "remote", r.RemoteAddr)

	for msg := range sub.C() {
		env := envelope{Type: messageType(msg), Time: time.Now(), Data: msg}
		if err := conn.WriteJSON(env); err != nil {
			s.logger.Debug("stream observer dropped", "remote", r.RemoteAddr, "err", err)
			return
		}
	}
}
