package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/peterkuimelis/skirmish/internal/game"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"go.uber.org/zap"
)

// CardInfo is the JSON representation of a card for the /api/cards endpoint.
type CardInfo struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	CardType    string       `json:"cardType"`
	Cost        int          `json:"cost"`
	Target      string       `json:"target"`
	Effects     []EffectInfo `json:"effects"`
}

// EffectInfo is one effect of a card or enemy action.
type EffectInfo struct {
	Kind      string `json:"kind"`
	Magnitude int    `json:"magnitude"`
}

// EnemyInfo is the JSON representation of an enemy template.
type EnemyInfo struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	MaxHealth int          `json:"maxHealth"`
	Sprite    string       `json:"sprite,omitempty"`
	Pattern   []ActionInfo `json:"pattern"`
}

// ActionInfo is one step of an enemy pattern.
type ActionInfo struct {
	Name    string       `json:"name"`
	Intent  string       `json:"intent"`
	Icon    string       `json:"icon,omitempty"`
	OnSelf  bool         `json:"onSelf,omitempty"`
	Effects []EffectInfo `json:"effects"`
}

// EncounterInfo is the JSON representation of an encounter for /api/encounters.
type EncounterInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Enemies []string `json:"enemies"`
}

// Server is the skirmish web server: catalog API plus one encounter per
// WebSocket connection.
type Server struct {
	host skirmishnet.HostConfig
	diag *zap.Logger
	mux  *http.ServeMux
}

// NewServer creates a new web server. host supplies the catalog, default
// encounter and pacing for every connection.
func NewServer(host skirmishnet.HostConfig) *Server {
	diag := host.Diag
	if diag == nil {
		diag = zap.NewNop()
	}
	s := &Server{
		host: host,
		diag: diag,
		mux:  http.NewServeMux(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /api/cards", s.handleCards)
	s.mux.HandleFunc("GET /api/enemies", s.handleEnemies)
	s.mux.HandleFunc("GET /api/encounters", s.handleEncounters)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func effectInfos(effects []game.EffectSpec) []EffectInfo {
	out := make([]EffectInfo, 0, len(effects))
	for _, e := range effects {
		out = append(out, EffectInfo{Kind: e.Kind.String(), Magnitude: e.Magnitude})
	}
	return out
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	var cards []CardInfo
	for _, c := range s.host.Catalog.Cards() {
		cards = append(cards, CardInfo{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			CardType:    c.Type.String(),
			Cost:        c.Cost,
			Target:      c.Target.String(),
			Effects:     effectInfos(c.Effects),
		})
	}
	s.writeJSON(w, cards)
}

func (s *Server) handleEnemies(w http.ResponseWriter, r *http.Request) {
	var enemies []EnemyInfo
	for _, e := range s.host.Catalog.Enemies() {
		info := EnemyInfo{ID: e.ID, Name: e.Name, MaxHealth: e.MaxHealth, Sprite: e.Sprite}
		for _, a := range e.Pattern {
			info.Pattern = append(info.Pattern, ActionInfo{
				Name:    a.Name,
				Intent:  a.Intent.String(),
				Icon:    a.Icon,
				OnSelf:  a.OnSelf,
				Effects: effectInfos(a.Effects),
			})
		}
		enemies = append(enemies, info)
	}
	s.writeJSON(w, enemies)
}

func (s *Server) handleEncounters(w http.ResponseWriter, r *http.Request) {
	var encounters []EncounterInfo
	for _, def := range s.host.Catalog.Encounters() {
		info := EncounterInfo{ID: def.ID, Name: def.Name}
		for _, e := range def.Enemies {
			info.Enemies = append(info.Enemies, e.ID)
		}
		encounters = append(encounters, info)
	}
	s.writeJSON(w, encounters)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.diag.Warn("write response", zap.Error(err))
	}
}

// wsTransport carries protocol envelopes as WebSocket text frames.
type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) Send(ctx context.Context, msg skirmishnet.ServerMessage) error {
	return wsjson.Write(ctx, t.conn, msg)
}

func (t *wsTransport) Recv(ctx context.Context) (skirmishnet.ClientMessage, error) {
	var msg skirmishnet.ClientMessage
	err := wsjson.Read(ctx, t.conn, &msg)
	return msg, err
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	cfg := s.host
	if id := r.URL.Query().Get("encounter"); id != "" {
		cfg.Encounter = id
	}
	if _, ok := cfg.Catalog.Encounter(cfg.Encounter); !ok {
		http.Error(w, "unknown encounter", http.StatusNotFound)
		return
	}
	if raw := r.URL.Query().Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid seed", http.StatusBadRequest)
			return
		}
		cfg.Seed = seed
	}

	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow connections from any origin
	})
	if err != nil {
		s.diag.Warn("websocket accept", zap.Error(err))
		return
	}
	defer wsConn.CloseNow()

	conn := uuid.NewString()
	cfg.Diag = s.diag.With(zap.String("conn", conn))
	cfg.Logger = nil // each connection keeps its own event log

	outcome, err := skirmishnet.Host(r.Context(), &wsTransport{conn: wsConn}, cfg)
	if err != nil {
		status := websocket.CloseStatus(err)
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
			cfg.Diag.Info("player left", zap.Stringer("outcome", outcome))
			return
		}
		cfg.Diag.Warn("encounter aborted", zap.Error(err))
		wsConn.Close(websocket.StatusInternalError, "encounter aborted")
		return
	}
	wsConn.Close(websocket.StatusNormalClosure, "encounter ended")
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	s.diag.Info("web server listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
