package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/peterkuimelis/skirmish/internal/log"
	"go.uber.org/zap"
)

// BattleConfig holds configuration for creating a new battle.
type BattleConfig struct {
	Encounter *Encounter
	Logger    log.EventLogger
	Diag      *zap.Logger
	Presenter Presenter
	Delays    Delays
	NoShuffle bool // skip the opening shuffle (for deterministic tests)
}

// Battle is the turn/targeting state machine of one encounter.
//
// A single mutex guards all encounter state. It is released only inside
// presentation pauses, during which the state is Busy or EnemyTurn, so any
// concurrent player input is rejected rather than interleaved. This holds for
// the turn start pause too: PlayerTurn is entered only once it returns.
type Battle struct {
	mu        sync.Mutex
	enc       *Encounter
	state     BattleState
	pending   *CardInstance
	started   bool
	logger    log.EventLogger
	diag      *zap.Logger
	presenter Presenter
	delays    Delays
	noShuffle bool
}

// NewBattle creates a battle in PlayerTurn. Call Start to deal the first hand.
func NewBattle(cfg BattleConfig) (*Battle, error) {
	if cfg.Encounter == nil {
		return nil, errors.New("battle: nil encounter")
	}
	b := &Battle{
		enc:       cfg.Encounter,
		state:     StatePlayerTurn,
		logger:    cfg.Logger,
		diag:      cfg.Diag,
		presenter: cfg.Presenter,
		delays:    cfg.Delays,
		noShuffle: cfg.NoShuffle,
	}
	if b.logger == nil {
		b.logger = log.NewMemoryLogger()
	}
	if b.diag == nil {
		b.diag = zap.NewNop()
	}
	if b.presenter == nil {
		b.presenter = NopPresenter{}
	}
	b.diag = b.diag.With(zap.String("encounter", cfg.Encounter.ID))
	return b, nil
}

// NewRandom returns a seeded random source. Seed 0 uses the clock.
func NewRandom(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Start shuffles the draw pile and begins the first player turn. Later calls
// do nothing.
func (b *Battle) Start(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.started = true
	b.state = StateBusy

	if !b.noShuffle {
		Shuffle(b.enc.Piles.Draw, b.enc.rng)
		b.emit(ctx, log.NewShuffleEvent(b.enc.Turn, b.state.String(), len(b.enc.Piles.Draw)))
	}
	b.diag.Info("encounter started",
		zap.String("definition", b.enc.Def.ID),
		zap.Int("enemies", len(b.enc.Enemies)),
		zap.Int("deck", b.enc.Piles.Total()),
	)
	b.startPlayerTurn(ctx)
}

// --- Player actions ---

// SelectCard moves a hand card into targeting.
func (b *Battle) SelectCard(ctx context.Context, cardID int) Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.enc.Over() {
		return b.reject("select_card", RejectedEncounterOver)
	}
	if b.state != StatePlayerTurn {
		return b.reject("select_card", RejectedNotPlayerTurn)
	}
	card := b.enc.Piles.HandCard(cardID)
	if card == nil {
		return b.reject("select_card", RejectedUnknownCard)
	}
	if card.Card == nil {
		b.integrity(ctx, fmt.Sprintf("card #%d", cardID), errors.New("card instance has no definition"))
		return RejectedUnknownCard
	}
	if !b.enc.Ledger.CanAfford(card.Card.Cost) {
		return b.reject("select_card", RejectedInsufficientEnergy)
	}

	b.pending = card
	b.state = StateTargeting
	b.emit(ctx, log.NewCardSelectedEvent(b.enc.Turn, card.Card.Name, card.Card.Cost))
	return Accepted
}

// CancelTargeting clears the pending card. Outside Targeting it does nothing.
func (b *Battle) CancelTargeting(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelTargeting(ctx, "cancelled")
}

// ChooseTarget resolves the pending card against target. An incompatible
// target cancels the card. On acceptance the whole card resolution sequence
// runs before ChooseTarget returns.
func (b *Battle) ChooseTarget(ctx context.Context, target TargetRef) Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.enc.Over() {
		return b.reject("choose_target", RejectedEncounterOver)
	}
	if b.state != StateTargeting || b.pending == nil {
		return b.reject("choose_target", RejectedNotTargeting)
	}

	chosen := b.enc.Lookup(target)
	if !b.compatible(b.pending.Card.Target, chosen) {
		b.cancelTargeting(ctx, fmt.Sprintf("invalid target %s", target))
		return b.reject("choose_target", RejectedInvalidTarget)
	}

	b.playCard(ctx, b.pending, chosen)
	return Accepted
}

// EndTurn runs the enemy turn and then starts the next player turn. It is
// accepted in PlayerTurn and in Targeting, where the pending card is cancelled
// first.
func (b *Battle) EndTurn(ctx context.Context) Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.enc.Over() {
		return b.reject("end_turn", RejectedEncounterOver)
	}
	if b.state != StatePlayerTurn && b.state != StateTargeting {
		return b.reject("end_turn", RejectedNotPlayerTurn)
	}

	b.enemyTurn(ctx)
	return Accepted
}

// Apply dispatches a command to the matching action.
func (b *Battle) Apply(ctx context.Context, cmd Command) Result {
	switch cmd.Kind {
	case CmdSelectCard:
		return b.SelectCard(ctx, cmd.Card)
	case CmdChooseTarget:
		return b.ChooseTarget(ctx, cmd.Target)
	case CmdCancel:
		b.CancelTargeting(ctx)
		return Accepted
	case CmdEndTurn:
		return b.EndTurn(ctx)
	default:
		return Accepted
	}
}

// --- Sequences ---

// playCard is the card resolution sequence. Once it begins it always runs to
// completion.
func (b *Battle) playCard(ctx context.Context, card *CardInstance, chosen *Combatant) {
	enc := b.enc
	b.state = StateBusy

	b.emit(ctx, log.NewCardPlayedEvent(enc.Turn, card.Card.Name, chosen.ID))
	remaining := enc.Ledger.Spend(card.Card.Cost)
	b.emit(ctx, log.NewEnergySpentEvent(enc.Turn, card.Card.Cost, remaining))

	b.pause(ctx, CuePlayCard)

	targets := b.finalTargets(card.Card.Target, chosen)
	b.resolvePass(ctx, PlayerID, card.Card.Effects, targets)

	if enc.Piles.DiscardCard(card) {
		b.emit(ctx, log.NewDiscardEvent(enc.Turn, b.state.String(), card.Card.Name))
	} else {
		b.integrity(ctx, card.String(), errors.New("played card is no longer in hand"))
	}
	b.pending = nil
	b.state = StatePlayerTurn
	b.settleOutcome(ctx)
}

// enemyTurn discards the hand, lets each active enemy act in registration
// order, then starts a new player turn.
func (b *Battle) enemyTurn(ctx context.Context) {
	enc := b.enc
	if b.pending != nil {
		b.cancelTargeting(ctx, "turn ended")
	}
	b.state = StateEnemyTurn
	b.emit(ctx, log.NewEnemyTurnStartEvent(enc.Turn))

	discarded := enc.Piles.DiscardHand()
	b.emit(ctx, log.NewDiscardHandEvent(enc.Turn, len(discarded)))

	for _, enemy := range enc.Enemies {
		if !enemy.Active {
			continue
		}
		b.enemyAct(ctx, enemy)
		if enc.Over() {
			break
		}
	}

	if enc.Over() {
		b.state = StatePlayerTurn
		return
	}
	b.startPlayerTurn(ctx)
}

// enemyAct executes the enemy's current pattern action and advances its cursor.
func (b *Battle) enemyAct(ctx context.Context, enemy *Combatant) {
	enc := b.enc

	if lost := enemy.ResetBlock(); lost > 0 {
		b.emit(ctx, log.NewBlockResetEvent(enc.Turn, b.state.String(), enemy.ID, lost))
	}

	action := enemy.NextAction()
	if action == nil {
		b.integrity(ctx, enemy.Name, errors.New("enemy has no pattern action"))
		return
	}

	b.emit(ctx, log.NewEnemyActionEvent(enc.Turn, enemy.ID, enemy.Name, action.Name))
	b.pause(ctx, CueEnemyAction)

	target := enc.Player
	if action.OnSelf {
		target = enemy
	}
	b.resolvePass(ctx, enemy.ID, action.Effects, []*Combatant{target})
	enemy.AdvancePattern()
}

// startPlayerTurn resets block and energy, draws a fresh hand and announces
// enemy intents. The caller's Busy or EnemyTurn state is kept until the turn
// start pause is over.
func (b *Battle) startPlayerTurn(ctx context.Context) {
	enc := b.enc
	enc.Turn++
	b.emit(ctx, log.NewTurnStartEvent(enc.Turn))

	if lost := enc.Player.ResetBlock(); lost > 0 {
		b.emit(ctx, log.NewBlockResetEvent(enc.Turn, b.state.String(), PlayerID, lost))
	}
	enc.Ledger.Reset()
	b.emit(ctx, log.NewEnergyResetEvent(enc.Turn, enc.Ledger.Energy))

	b.draw(ctx, enc.HandSize)

	for _, enemy := range enc.ActiveEnemies() {
		if action := enemy.NextAction(); action != nil {
			b.emit(ctx, log.NewIntentEvent(enc.Turn, enemy.ID, enemy.Name, action.Name, action.Summary()))
		}
	}
	b.pause(ctx, CueTurnStart)
	b.state = StatePlayerTurn
}

// --- Resolution ---

// finalTargets snapshots the combatants a card affects.
func (b *Battle) finalTargets(kind TargetKind, chosen *Combatant) []*Combatant {
	switch kind {
	case TargetAllEnemies:
		return b.enc.ActiveEnemies()
	default:
		return []*Combatant{chosen}
	}
}

// resolvePass applies effects in list order, each to every target, skipping
// targets that became inactive earlier in the pass.
func (b *Battle) resolvePass(ctx context.Context, actor string, effects []EffectSpec, targets []*Combatant) {
	for _, effect := range effects {
		for _, target := range targets {
			if !target.Active {
				continue
			}
			b.applyEffect(ctx, actor, effect, target)
			if b.enc.Outcome == OutcomeDefeat {
				return
			}
		}
	}
}

// applyEffect applies one effect to one combatant, including death handling.
func (b *Battle) applyEffect(ctx context.Context, actor string, effect EffectSpec, target *Combatant) {
	enc := b.enc
	updated, res, err := ApplyEffect(effect, *target)
	if err != nil {
		b.integrity(ctx, effect.String(), err)
		return
	}
	*target = updated

	switch effect.Kind {
	case EffectDamage:
		b.emit(ctx, log.NewDamageEvent(enc.Turn, b.state.String(), actor, target.ID, res.Absorbed, res.Dealt, target.Health))
		b.pause(ctx, CueHit)
		if res.Died {
			b.handleDeath(ctx, target)
		}
	case EffectBlock:
		b.emit(ctx, log.NewBlockGainedEvent(enc.Turn, b.state.String(), actor, target.ID, res.BlockGained, target.Block))
	case EffectDraw:
		if !target.IsPlayer() {
			b.diag.Debug("draw effect on non-player target ignored", zap.String("target", target.ID))
			return
		}
		drawn := b.draw(ctx, res.DrawRequested)
		b.emit(ctx, log.NewDrawEffectEvent(enc.Turn, b.state.String(), res.DrawRequested, drawn))
	}
}

// handleDeath plays the death cue, then removes the combatant from targeting.
func (b *Battle) handleDeath(ctx context.Context, target *Combatant) {
	b.emit(ctx, log.NewDeathEvent(b.enc.Turn, b.state.String(), target.ID, target.Name))
	b.pause(ctx, CueDeath)
	target.Deactivate()
	b.settleOutcome(ctx)
}

// draw moves up to n cards into the hand and logs each one.
func (b *Battle) draw(ctx context.Context, n int) int {
	enc := b.enc
	report := enc.Piles.DrawCards(n, enc.rng)
	if report.Reshuffled > 0 {
		b.emit(ctx, log.NewReshuffleEvent(enc.Turn, b.state.String(), report.Reshuffled))
	}
	for _, c := range report.Drawn {
		b.emit(ctx, log.NewDrawEvent(enc.Turn, b.state.String(), c.Card.Name))
	}
	return len(report.Drawn)
}

// settleOutcome records victory or defeat the first time it occurs.
func (b *Battle) settleOutcome(ctx context.Context) {
	enc := b.enc
	if enc.Over() {
		return
	}
	switch enc.evaluateOutcome() {
	case OutcomeVictory:
		enc.Outcome = OutcomeVictory
		b.emit(ctx, log.NewVictoryEvent(enc.Turn, b.state.String()))
		b.diag.Info("encounter won", zap.Int("turn", enc.Turn))
	case OutcomeDefeat:
		enc.Outcome = OutcomeDefeat
		b.emit(ctx, log.NewDefeatEvent(enc.Turn, b.state.String()))
		b.diag.Info("encounter lost", zap.Int("turn", enc.Turn))
	}
}

// compatible checks a chosen combatant against a card's target kind.
func (b *Battle) compatible(kind TargetKind, chosen *Combatant) bool {
	if chosen == nil || !chosen.Active {
		return false
	}
	switch kind {
	case TargetSingleEnemy, TargetAllEnemies:
		return !chosen.IsPlayer()
	case TargetSelf:
		return chosen.IsPlayer()
	default:
		return false
	}
}

// --- Helpers ---

func (b *Battle) cancelTargeting(ctx context.Context, reason string) {
	if b.state != StateTargeting {
		return
	}
	name := ""
	if b.pending != nil && b.pending.Card != nil {
		name = b.pending.Card.Name
	}
	b.pending = nil
	b.state = StatePlayerTurn
	b.emit(ctx, log.NewTargetingCancelledEvent(b.enc.Turn, name, reason))
}

// pause releases the lock for the duration of a presentation step. A failed
// pause is only logged: presentation never changes outcomes.
func (b *Battle) pause(ctx context.Context, cue Cue) {
	hint := b.delays.For(cue)
	b.mu.Unlock()
	err := b.presenter.Pause(ctx, cue, hint)
	b.mu.Lock()
	if err != nil {
		b.diag.Debug("presentation pause ended early", zap.Stringer("cue", cue), zap.Error(err))
	}
}

// emit logs an event and forwards it to the presenter.
func (b *Battle) emit(ctx context.Context, event log.GameEvent) {
	event = b.logger.Log(event)
	if err := b.presenter.Notify(ctx, event); err != nil {
		b.diag.Debug("presenter notify failed", zap.Stringer("event", event.Type), zap.Error(err))
	}
}

func (b *Battle) reject(action string, r Result) Result {
	b.diag.Debug("action rejected",
		zap.String("action", action),
		zap.Stringer("result", r),
		zap.Stringer("state", b.state),
	)
	return r
}

// integrity logs a data integrity violation. Only the current step is skipped.
func (b *Battle) integrity(ctx context.Context, source string, err error) {
	if !errors.Is(err, ErrDataIntegrity) {
		err = fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}
	b.diag.Error("data integrity violation",
		zap.String("source", source),
		zap.Stringer("state", b.state),
		zap.Error(err),
	)
	b.emit(ctx, log.NewIntegrityViolationEvent(b.enc.Turn, b.state.String(), source, err.Error()))
}
