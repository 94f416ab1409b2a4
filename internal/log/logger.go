package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// EventLogger is the interface for logging encounter events.
type EventLogger interface {
	// Log records event and returns it with its sequence number set.
	Log(event GameEvent) GameEvent
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	return event
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// Since returns every event with a sequence number greater than seq.
func (l *MemoryLogger) Since(seq int) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Seq > seq {
			result = append(result, e)
		}
	}
	return result
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) GameEvent {
	event = l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
	return event
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	state := e.State
	// Pad state to 11 chars for alignment
	for len(state) < 11 {
		state += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, state, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTurnStartEvent(turn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "PlayerTurn",
		Actor:   "player",
		Type:    EventTurnStart,
		Details: fmt.Sprintf("=== Turn %d ===", turn),
	}
}

func NewEnergyResetEvent(turn int, energy int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "PlayerTurn",
		Actor:   "player",
		Type:    EventEnergyReset,
		Amount:  energy,
		Details: fmt.Sprintf("Energy restored to %d", energy),
	}
}

func NewBlockResetEvent(turn int, state string, actor string, lost int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   actor,
		Target:  actor,
		Type:    EventBlockReset,
		Amount:  lost,
		Details: fmt.Sprintf("%s loses %d block", actor, lost),
	}
}

func NewDrawEvent(turn int, state string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   "player",
		Type:    EventDraw,
		Card:    cardName,
		Amount:  1,
		Details: fmt.Sprintf("player draws %s", cardName),
	}
}

func NewShuffleEvent(turn int, state string, size int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   "player",
		Type:    EventShuffle,
		Amount:  size,
		Details: fmt.Sprintf("Draw pile shuffled (%d cards)", size),
	}
}

func NewReshuffleEvent(turn int, state string, size int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   "player",
		Type:    EventReshuffle,
		Amount:  size,
		Details: fmt.Sprintf("Discard pile (%d cards) shuffled into draw pile", size),
	}
}

func NewCardSelectedEvent(turn int, cardName string, cost int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "Targeting",
		Actor:   "player",
		Type:    EventCardSelected,
		Card:    cardName,
		Amount:  cost,
		Details: fmt.Sprintf("player selects %s (cost %d)", cardName, cost),
	}
}

func NewTargetingCancelledEvent(turn int, cardName string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "PlayerTurn",
		Actor:   "player",
		Type:    EventTargetingCancelled,
		Card:    cardName,
		Details: fmt.Sprintf("Targeting for %s cancelled (%s)", cardName, reason),
	}
}

func NewCardPlayedEvent(turn int, cardName string, target string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "Busy",
		Actor:   "player",
		Target:  target,
		Type:    EventCardPlayed,
		Card:    cardName,
		Details: fmt.Sprintf("player plays %s on %s", cardName, target),
	}
}

func NewEnergySpentEvent(turn int, cost int, remaining int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "Busy",
		Actor:   "player",
		Type:    EventEnergySpent,
		Amount:  cost,
		Details: fmt.Sprintf("Energy spent: %d (remaining %d)", cost, remaining),
	}
}

func NewDamageEvent(turn int, state string, actor, target string, absorbed, dealt, health int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   actor,
		Target:  target,
		Type:    EventDamage,
		Amount:  dealt,
		Details: fmt.Sprintf("%s takes %d damage (%d blocked), health %d", target, dealt, absorbed, health),
	}
}

func NewBlockGainedEvent(turn int, state string, actor, target string, amount, total int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   actor,
		Target:  target,
		Type:    EventBlockGained,
		Amount:  amount,
		Details: fmt.Sprintf("%s gains %d block (total %d)", target, amount, total),
	}
}

func NewDrawEffectEvent(turn int, state string, requested, drawn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   "player",
		Target:  "player",
		Type:    EventDrawEffect,
		Amount:  drawn,
		Details: fmt.Sprintf("player draws %d of %d cards", drawn, requested),
	}
}

func NewDeathEvent(turn int, state string, target string, name string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Target:  target,
		Type:    EventDeath,
		Card:    name,
		Details: fmt.Sprintf("%s (%s) falls", name, target),
	}
}

func NewDiscardEvent(turn int, state string, cardName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   "player",
		Type:    EventDiscard,
		Card:    cardName,
		Details: fmt.Sprintf("%s goes to the discard pile", cardName),
	}
}

func NewDiscardHandEvent(turn int, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "EnemyTurn",
		Actor:   "player",
		Type:    EventDiscardHand,
		Amount:  count,
		Details: fmt.Sprintf("player discards hand (%d cards)", count),
	}
}

func NewEnemyTurnStartEvent(turn int) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "EnemyTurn",
		Type:    EventEnemyTurnStart,
		Details: "--- Enemy turn ---",
	}
}

func NewEnemyActionEvent(turn int, actor, enemyName, actionName string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "EnemyTurn",
		Actor:   actor,
		Type:    EventEnemyAction,
		Card:    actionName,
		Details: fmt.Sprintf("%s uses %s", enemyName, actionName),
	}
}

func NewIntentEvent(turn int, actor, enemyName, actionName, summary string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   "PlayerTurn",
		Actor:   actor,
		Type:    EventIntent,
		Card:    actionName,
		Details: fmt.Sprintf("%s intends %s (%s)", enemyName, actionName, summary),
	}
}

func NewVictoryEvent(turn int, state string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   "player",
		Type:    EventVictory,
		Details: "Victory: every enemy has fallen",
	}
}

func NewDefeatEvent(turn int, state string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Actor:   "player",
		Type:    EventDefeat,
		Details: "Defeat: the player has fallen",
	}
}

func NewIntegrityViolationEvent(turn int, state string, source string, reason string) GameEvent {
	return GameEvent{
		Turn:    turn,
		State:   state,
		Type:    EventIntegrityViolation,
		Card:    source,
		Details: fmt.Sprintf("Skipped %s: %s", source, reason),
	}
}
