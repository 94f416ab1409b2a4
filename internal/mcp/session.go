package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"go.uber.org/zap"
)

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Session  string                  `json:"session"`
	Result   string                  `json:"result,omitempty"`
	Events   []skirmishnet.EventView `json:"events"`
	State    *skirmishnet.StateView  `json:"state,omitempty"`
	GameOver bool                    `json:"game_over"`
	Outcome  string                  `json:"outcome"`
}

// GameSession holds one encounter driven through MCP tool calls. Every
// battle action runs to completion inside the tool call that issued it.
type GameSession struct {
	battle    *game.Battle
	presenter *SessionPresenter

	mu     sync.Mutex
	events []skirmishnet.EventView
}

// NewGameSession creates and starts a new encounter from the catalog.
func NewGameSession(ctx context.Context, cat *game.Catalog, encounter string, seed int64, diag *zap.Logger) (*GameSession, error) {
	enc, err := cat.NewEncounter(encounter, game.NewRandom(seed))
	if err != nil {
		return nil, err
	}

	sess := &GameSession{}
	sess.presenter = NewSessionPresenter(sess)

	battle, err := game.NewBattle(game.BattleConfig{
		Encounter: enc,
		Logger:    log.NewMemoryLogger(),
		Diag:      diag,
		Presenter: sess.presenter,
	})
	if err != nil {
		return nil, fmt.Errorf("new battle: %w", err)
	}
	sess.battle = battle
	battle.Start(ctx)
	return sess, nil
}

// ID returns the encounter instance id.
func (s *GameSession) ID() string {
	return s.battle.Encounter().ID
}

// Over reports whether the encounter has ended.
func (s *GameSession) Over() bool {
	return s.battle.Outcome() != game.OutcomeOngoing
}

// appendEvent adds an event to the session's event log. Thread-safe.
func (s *GameSession) appendEvent(ev skirmishnet.EventView) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

// drainEvents returns all accumulated events and clears the buffer.
func (s *GameSession) drainEvents() []skirmishnet.EventView {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	if events == nil {
		events = []skirmishnet.EventView{}
	}
	return events
}

// apply runs a command and builds the tool response for it.
func (s *GameSession) apply(ctx context.Context, cmd game.Command) *ToolResponse {
	result := s.battle.Apply(ctx, cmd)
	resp := s.response()
	resp.Result = result.String()
	return resp
}

// response snapshots the battle and drains pending events.
func (s *GameSession) response() *ToolResponse {
	snap := s.battle.Snapshot()
	return &ToolResponse{
		Session:  snap.EncounterID,
		Events:   s.drainEvents(),
		State:    skirmishnet.BuildStateView(snap),
		GameOver: snap.Outcome != game.OutcomeOngoing,
		Outcome:  snap.Outcome.String(),
	}
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
