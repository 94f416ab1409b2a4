package net

import (
	"fmt"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
)

// Message types for the JSON protocol. The same envelopes travel over TCP
// and over WebSocket.

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"` // "state", "notify", "result", "error", "game_over"

	// For "notify"
	Event *EventView `json:"event,omitempty"`

	// For "result" and "game_over"
	Result string     `json:"result,omitempty"`
	State  *StateView `json:"state,omitempty"`

	// For "error"
	Error string `json:"error,omitempty"`
}

// EventView is a game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	State   string `json:"state"`
	Type    string `json:"type"`
	Actor   string `json:"actor,omitempty"`
	Target  string `json:"target,omitempty"`
	Card    string `json:"card,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// NewEventView converts a logged event.
func NewEventView(e log.GameEvent) *EventView {
	return &EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		State:   e.State,
		Type:    e.Type.String(),
		Actor:   e.Actor,
		Target:  e.Target,
		Card:    e.Card,
		Amount:  e.Amount,
		Details: e.Details,
	}
}

// StateView is the battle as the player sees it.
type StateView struct {
	Encounter  string      `json:"encounter"`
	State      string      `json:"state"`
	Turn       int         `json:"turn"`
	Outcome    string      `json:"outcome"`
	Player     PlayerView  `json:"player"`
	Hand       []CardView  `json:"hand"`
	DrawCount  int         `json:"draw_count"`
	Discard    int         `json:"discard_count"`
	Pending    *CardView   `json:"pending,omitempty"`
	Enemies    []EnemyView `json:"enemies"`
	IsYourTurn bool        `json:"is_your_turn"`
}

// PlayerView shows the player's health, block and energy.
type PlayerView struct {
	Health     int `json:"health"`
	MaxHealth  int `json:"max_health"`
	Block      int `json:"block"`
	Energy     int `json:"energy"`
	BaseEnergy int `json:"base_energy"`
}

// CardView is a card in hand.
type CardView struct {
	ID       int    `json:"id"`
	Card     string `json:"card"`
	Name     string `json:"name"`
	Cost     int    `json:"cost"`
	Target   string `json:"target"`
	Text     string `json:"text,omitempty"`
	Playable bool   `json:"playable"`
}

// EnemyView shows one enemy and what it will do next.
type EnemyView struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Health    int         `json:"health"`
	MaxHealth int         `json:"max_health"`
	Block     int         `json:"block"`
	Active    bool        `json:"active"`
	Intent    *IntentView `json:"intent,omitempty"`
}

// IntentView is an enemy's announced action.
type IntentView struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Icon    string `json:"icon,omitempty"`
	Summary string `json:"summary"`
}

func cardView(h game.HandView) CardView {
	return CardView{
		ID:       h.ID,
		Card:     h.CardID,
		Name:     h.Name,
		Cost:     h.Cost,
		Target:   h.Target.String(),
		Text:     h.Text,
		Playable: h.Playable,
	}
}

// BuildStateView creates a StateView from a battle snapshot.
func BuildStateView(snap game.Snapshot) *StateView {
	sv := &StateView{
		Encounter: snap.Definition,
		State:     snap.State.String(),
		Turn:      snap.Turn,
		Outcome:   snap.Outcome.String(),
		Player: PlayerView{
			Health:     snap.Player.Health,
			MaxHealth:  snap.Player.MaxHealth,
			Block:      snap.Player.Block,
			Energy:     snap.Energy,
			BaseEnergy: snap.BaseEnergy,
		},
		Hand:       make([]CardView, 0, len(snap.Hand)),
		DrawCount:  snap.DrawCount,
		Discard:    snap.Discard,
		IsYourTurn: snap.Outcome == game.OutcomeOngoing && (snap.State == game.StatePlayerTurn || snap.State == game.StateTargeting),
	}
	for _, h := range snap.Hand {
		sv.Hand = append(sv.Hand, cardView(h))
	}
	if snap.Pending != nil {
		p := cardView(*snap.Pending)
		sv.Pending = &p
	}
	for _, e := range snap.Enemies {
		ev := EnemyView{
			ID:        e.ID,
			Name:      e.Name,
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			Block:     e.Block,
			Active:    e.Active,
		}
		if e.Intent != nil {
			ev.Intent = &IntentView{
				Name:    e.Intent.Name,
				Kind:    e.Intent.Kind.String(),
				Icon:    e.Intent.Icon,
				Summary: e.Intent.Summary,
			}
		}
		sv.Enemies = append(sv.Enemies, ev)
	}
	return sv
}

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"` // "join", "select_card", "choose_target", "cancel", "end_turn", "state", "quit"

	// For "select_card"
	Card int `json:"card,omitempty"`

	// For "choose_target": "e1".."eN" or "player"
	Target string `json:"target,omitempty"`

	// For "join" (optional initial handshake)
	Encounter string `json:"encounter,omitempty"`
}

// Command converts the message into a battle command.
func (m ClientMessage) Command() (game.Command, error) {
	kind, err := game.ParseCommandKind(m.Type)
	if err != nil {
		return game.Command{}, err
	}
	cmd := game.Command{Kind: kind}
	switch kind {
	case game.CmdSelectCard:
		cmd.Card = m.Card
	case game.CmdChooseTarget:
		ref, err := game.ParseTargetRef(m.Target)
		if err != nil {
			return game.Command{}, fmt.Errorf("choose_target: %w", err)
		}
		cmd.Target = ref
	}
	return cmd, nil
}

// CommandMessage converts a battle command into its wire form.
func CommandMessage(cmd game.Command) ClientMessage {
	msg := ClientMessage{Type: cmd.Kind.String()}
	switch cmd.Kind {
	case game.CmdSelectCard:
		msg.Card = cmd.Card
	case game.CmdChooseTarget:
		msg.Target = cmd.Target.String()
	}
	return msg
}
