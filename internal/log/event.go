package log

// EventType enumerates all observable encounter events.
type EventType int

const (
	EventTurnStart EventType = iota
	EventEnergyReset
	EventBlockReset
	EventDraw
	EventShuffle
	EventReshuffle
	EventCardSelected
	EventTargetingCancelled
	EventCardPlayed
	EventEnergySpent
	EventDamage
	EventBlockGained
	EventDrawEffect
	EventDeath
	EventDiscard
	EventDiscardHand
	EventEnemyTurnStart
	EventEnemyAction
	EventIntent
	EventVictory
	EventDefeat
	EventIntegrityViolation
)

func (e EventType) String() string {
	switch e {
	case EventTurnStart:
		return "TurnStart"
	case EventEnergyReset:
		return "EnergyReset"
	case EventBlockReset:
		return "BlockReset"
	case EventDraw:
		return "Draw"
	case EventShuffle:
		return "Shuffle"
	case EventReshuffle:
		return "Reshuffle"
	case EventCardSelected:
		return "CardSelected"
	case EventTargetingCancelled:
		return "TargetingCancelled"
	case EventCardPlayed:
		return "CardPlayed"
	case EventEnergySpent:
		return "EnergySpent"
	case EventDamage:
		return "Damage"
	case EventBlockGained:
		return "BlockGained"
	case EventDrawEffect:
		return "DrawEffect"
	case EventDeath:
		return "Death"
	case EventDiscard:
		return "Discard"
	case EventDiscardHand:
		return "DiscardHand"
	case EventEnemyTurnStart:
		return "EnemyTurnStart"
	case EventEnemyAction:
		return "EnemyAction"
	case EventIntent:
		return "Intent"
	case EventVictory:
		return "Victory"
	case EventDefeat:
		return "Defeat"
	case EventIntegrityViolation:
		return "IntegrityViolation"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in an encounter.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which player turn (1-based)
	State   string    // battle state when the event was emitted
	Actor   string    // acting combatant ("player", "e1", ...)
	Target  string    // affected combatant, if any
	Type    EventType // event type
	Card    string    // card or enemy action name (if applicable)
	Amount  int       // damage dealt, block gained, cards drawn, energy spent
	Details string    // human-readable detail string
}
