package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Encounter owns every combatant and pile of one fight. Enemies keep their
// registration order; enemy turns and "e1".."eN" ids follow it.
type Encounter struct {
	ID       string
	Def      *EncounterDef
	Player   *Combatant
	Enemies  []*Combatant
	Ledger   *Ledger
	Piles    *Piles
	HandSize int
	Turn     int // 1-based player turn counter
	Outcome  Outcome

	rng    RandomSource
	nextID int
}

// NewEncounter builds a fresh encounter from definitions. The starting deck
// goes to the draw pile in deck order; the caller decides whether to shuffle.
func NewEncounter(def *EncounterDef, base *PlayerBase, rng RandomSource) (*Encounter, error) {
	if def == nil || len(def.Enemies) == 0 {
		return nil, fmt.Errorf("%w: encounter has no enemies", ErrDataIntegrity)
	}
	if base == nil {
		return nil, fmt.Errorf("%w: missing player base data", ErrDataIntegrity)
	}
	if rng == nil {
		return nil, fmt.Errorf("encounter %q: nil random source", def.ID)
	}

	enc := &Encounter{
		ID:       uuid.NewString(),
		Def:      def,
		Player:   NewPlayerCombatant(base.MaxHealth),
		Ledger:   NewLedger(base.BaseEnergy),
		Piles:    &Piles{},
		HandSize: base.HandSize,
		rng:      rng,
	}

	for i, tmpl := range def.Enemies {
		if tmpl == nil || len(tmpl.Pattern) == 0 {
			return nil, fmt.Errorf("%w: enemy %d of %q has no pattern", ErrDataIntegrity, i+1, def.ID)
		}
		enc.Enemies = append(enc.Enemies, NewEnemyCombatant(fmt.Sprintf("e%d", i+1), tmpl))
	}

	for _, card := range base.Deck {
		enc.Piles.Draw = append(enc.Piles.Draw, enc.CreateCardInstance(card))
	}

	return enc, nil
}

// NewEncounter builds the catalog encounter with the given id.
func (cat *Catalog) NewEncounter(id string, rng RandomSource) (*Encounter, error) {
	def, ok := cat.Encounter(id)
	if !ok {
		return nil, fmt.Errorf("unknown encounter %q", id)
	}
	return NewEncounter(def, cat.Player, rng)
}

// CreateCardInstance creates a card instance with a unique id.
func (e *Encounter) CreateCardInstance(card *Card) *CardInstance {
	e.nextID++
	return &CardInstance{Card: card, ID: e.nextID}
}

// ActiveEnemies returns the enemies still targetable, in registration order.
func (e *Encounter) ActiveEnemies() []*Combatant {
	var result []*Combatant
	for _, c := range e.Enemies {
		if c.Active {
			result = append(result, c)
		}
	}
	return result
}

// Enemy returns the enemy with the given id, or nil.
func (e *Encounter) Enemy(id string) *Combatant {
	for _, c := range e.Enemies {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Lookup resolves a target reference to a combatant, or nil.
func (e *Encounter) Lookup(ref TargetRef) *Combatant {
	if ref.IsPlayer() {
		return e.Player
	}
	return e.Enemy(ref.Enemy)
}

// evaluateOutcome reports the terminal condition without recording it.
func (e *Encounter) evaluateOutcome() Outcome {
	if !e.Player.Alive() {
		return OutcomeDefeat
	}
	if len(e.ActiveEnemies()) == 0 {
		return OutcomeVictory
	}
	return OutcomeOngoing
}

// Over reports whether the encounter has ended.
func (e *Encounter) Over() bool {
	return e.Outcome != OutcomeOngoing
}
