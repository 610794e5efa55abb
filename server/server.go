package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sanity-io/litter"
	"go.uber.org/zap"

	"github.com/greenfelt/holdem/domain"
	"github.com/greenfelt/holdem/events"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Server exposes a read-only view of a table: a WebSocket feed of table
// events for spectators and a JSON snapshot endpoint. Betting actions are
// never accepted over the wire; driving the game belongs to the embedding
// process.
type Server struct {
	table  *domain.Table
	store  events.Store
	logger *zap.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New creates a server observing the given table. It registers itself as a
// table event handler and records every event into the store.
func New(table *domain.Table, store events.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		table:   table,
		store:   store,
		logger:  logger,
		clients: make(map[*websocket.Conn]struct{}),
	}

	table.RegisterEventHandler(s.handleEvent)
	return s
}

// eventEnvelope is the wire form of a broadcast event.
type eventEnvelope struct {
	Type string       `json:"type"`
	Data events.Event `json:"data"`
}

func (s *Server) handleEvent(event events.Event) {
	if s.store != nil {
		if err := s.store.Append(s.table.ID(), event); err != nil {
			s.logger.Error("failed to store event", zap.Error(err))
		}
	}

	s.logger.Debug("table event",
		zap.String("event", event.Name()),
		zap.String("dump", litter.Sdump(event)),
	)

	s.broadcast(eventEnvelope{Type: event.Name(), Data: event})
}

func (s *Server) broadcast(envelope eventEnvelope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.clients {
		if err := conn.WriteJSON(envelope); err != nil {
			s.logger.Warn("dropping spectator", zap.Error(err))
			conn.Close()
			delete(s.clients, conn)
		}
	}
}

// Start serves the spectator endpoints until the listener fails.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/events", s.handleEvents)

	s.logger.Info("spectator server listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	s.logger.Info("spectator connected", zap.String("remote", conn.RemoteAddr().String()))

	// Spectators only listen; drain and discard anything they send.
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// playerView is the spectator-safe projection of a player: no hole cards.
type playerView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Bank       int    `json:"bank"`
	SeatNumber int    `json:"seatNumber"`
	Position   string `json:"position"`
	State      string `json:"state"`
}

type tableView struct {
	ID             string       `json:"id"`
	Stage          string       `json:"stage"`
	Pot            int          `json:"pot"`
	LastBet        int          `json:"lastBet"`
	CommunityCards []string     `json:"communityCards"`
	Players        []playerView `json:"players"`
	Winners        []string     `json:"winners"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	view := tableView{
		ID:      s.table.ID(),
		Stage:   s.table.State().String(),
		Pot:     s.table.Pot(),
		LastBet: s.table.LastBet(),
	}

	for _, card := range s.table.CommunityCards() {
		view.CommunityCards = append(view.CommunityCards, card.String())
	}
	for _, p := range s.table.Players() {
		view.Players = append(view.Players, playerView{
			ID:         p.ID,
			Name:       p.Name,
			Bank:       p.Bank,
			SeatNumber: p.SeatNumber,
			Position:   p.Position.String(),
			State:      p.BettingState.String(),
		})
	}
	for _, p := range s.table.Winners() {
		view.Winners = append(view.Winners, p.ID)
	}

	writeJSON(w, view, s.logger)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "no event store configured", http.StatusNotFound)
		return
	}

	stored, err := s.store.LoadEvents(s.table.ID())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	envelopes := make([]eventEnvelope, len(stored))
	for i, event := range stored {
		envelopes[i] = eventEnvelope{Type: event.Name(), Data: event}
	}
	writeJSON(w, envelopes, s.logger)
}

func writeJSON(w http.ResponseWriter, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
