package game

import (
	"fmt"
	"strings"
)

// --- Enums ---

// BattleState is the turn/targeting state of a battle.
type BattleState int

const (
	StatePlayerTurn BattleState = iota
	StateTargeting
	StateBusy
	StateEnemyTurn
)

func (s BattleState) String() string {
	switch s {
	case StatePlayerTurn:
		return "PlayerTurn"
	case StateTargeting:
		return "Targeting"
	case StateBusy:
		return "Busy"
	case StateEnemyTurn:
		return "EnemyTurn"
	default:
		return "Unknown"
	}
}

// Outcome is the terminal condition of an encounter.
type Outcome int

const (
	OutcomeOngoing Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeVictory:
		return "Victory"
	case OutcomeDefeat:
		return "Defeat"
	default:
		return "Ongoing"
	}
}

type TargetKind int

const (
	TargetSingleEnemy TargetKind = iota
	TargetAllEnemies
	TargetSelf
)

func (t TargetKind) String() string {
	switch t {
	case TargetSingleEnemy:
		return "SingleEnemy"
	case TargetAllEnemies:
		return "AllEnemies"
	case TargetSelf:
		return "Self"
	default:
		return "Unknown"
	}
}

type EffectKind int

const (
	EffectDamage EffectKind = iota
	EffectBlock
	EffectDraw
)

func (e EffectKind) String() string {
	switch e {
	case EffectDamage:
		return "Damage"
	case EffectBlock:
		return "Block"
	case EffectDraw:
		return "Draw"
	default:
		return "Unknown"
	}
}

type CardType int

const (
	CardTypeAttack CardType = iota
	CardTypeSkill
	CardTypePower
)

func (ct CardType) String() string {
	switch ct {
	case CardTypeAttack:
		return "Attack"
	case CardTypeSkill:
		return "Skill"
	case CardTypePower:
		return "Power"
	default:
		return "Unknown"
	}
}

// IntentKind is the presentation category of an enemy action.
type IntentKind int

const (
	IntentAttack IntentKind = iota
	IntentDefend
	IntentBuff
	IntentDebuff
)

func (i IntentKind) String() string {
	switch i {
	case IntentAttack:
		return "Attack"
	case IntentDefend:
		return "Defend"
	case IntentBuff:
		return "Buff"
	case IntentDebuff:
		return "Debuff"
	default:
		return "Unknown"
	}
}

// Result is the answer to a player action. Rejections are values, not errors.
type Result int

const (
	Accepted Result = iota
	RejectedInsufficientEnergy
	RejectedNotPlayerTurn
	RejectedInvalidTarget
	RejectedNotTargeting
	RejectedUnknownCard
	RejectedEncounterOver
)

func (r Result) String() string {
	switch r {
	case Accepted:
		return "Accepted"
	case RejectedInsufficientEnergy:
		return "RejectedInsufficientEnergy"
	case RejectedNotPlayerTurn:
		return "RejectedNotPlayerTurn"
	case RejectedInvalidTarget:
		return "RejectedInvalidTarget"
	case RejectedNotTargeting:
		return "RejectedNotTargeting"
	case RejectedUnknownCard:
		return "RejectedUnknownCard"
	case RejectedEncounterOver:
		return "RejectedEncounterOver"
	default:
		return "Unknown"
	}
}

// OK reports whether the action was accepted.
func (r Result) OK() bool {
	return r == Accepted
}

// --- Definitions (static, from the catalog) ---

// EffectSpec is one atomic rule of a card or enemy action.
type EffectSpec struct {
	Kind      EffectKind
	Magnitude int
	Duration  int // reserved; resolution ignores it
}

func (e EffectSpec) String() string {
	return fmt.Sprintf("%s %d", e.Kind, e.Magnitude)
}

// Card is an immutable card definition.
type Card struct {
	ID          string
	Name        string
	Description string
	Type        CardType
	Cost        int
	Target      TargetKind
	Effects     []EffectSpec
}

func (c *Card) String() string {
	return c.Name
}

// EnemyAction is one step of an enemy pattern.
type EnemyAction struct {
	Name    string
	Intent  IntentKind
	Icon    string // opaque presentation handle
	OnSelf  bool   // effects apply to the acting enemy instead of the player
	Effects []EffectSpec
}

// Summary renders the action's effects for intent display, e.g. "Damage 6, Block 3".
func (a *EnemyAction) Summary() string {
	parts := make([]string, 0, len(a.Effects))
	for _, e := range a.Effects {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

// EnemyTemplate is the immutable definition shared by all instances of an enemy.
type EnemyTemplate struct {
	ID        string
	Name      string
	MaxHealth int
	Sprite    string
	Pattern   []*EnemyAction // cyclic, non-empty
}

// PlayerBase holds the player's starting stats and deck.
type PlayerBase struct {
	MaxHealth  int
	BaseEnergy int
	HandSize   int
	Deck       []*Card
}

// EncounterDef lists the enemies of an encounter in registration order.
type EncounterDef struct {
	ID      string
	Name    string
	Enemies []*EnemyTemplate
}

// --- CardInstance (runtime card in a pile) ---

type CardInstance struct {
	Card *Card
	ID   int // unique instance ID within an encounter
}

func (ci *CardInstance) String() string {
	if ci == nil || ci.Card == nil {
		return "(missing card)"
	}
	return fmt.Sprintf("%s#%d", ci.Card.Name, ci.ID)
}

// --- Targets ---

// TargetRef names a combatant: the player, or an enemy by id.
type TargetRef struct {
	Enemy string // empty for the player
}

// PlayerTarget refers to the player.
var PlayerTarget = TargetRef{}

// EnemyTarget refers to the enemy with the given id.
func EnemyTarget(id string) TargetRef {
	return TargetRef{Enemy: id}
}

// IsPlayer reports whether the ref names the player.
func (t TargetRef) IsPlayer() bool {
	return t.Enemy == ""
}

func (t TargetRef) String() string {
	if t.IsPlayer() {
		return PlayerID
	}
	return t.Enemy
}

// ParseTargetRef parses "player" or an enemy id such as "e2".
func ParseTargetRef(s string) (TargetRef, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == PlayerID || s == "self":
		return PlayerTarget, nil
	case s == "":
		return TargetRef{}, fmt.Errorf("empty target")
	default:
		return EnemyTarget(s), nil
	}
}
