package game

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/peterkuimelis/skirmish/internal/log"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// SequenceSource is a RandomSource that replays fixed values (mod n).
// Once exhausted it returns 0, which makes Shuffle the identity.
type SequenceSource struct {
	values []int
	pos    int
}

func (s *SequenceSource) Intn(n int) int {
	if s.pos >= len(s.values) {
		return 0
	}
	v := s.values[s.pos] % n
	s.pos++
	return v
}

// recordingPresenter records cues and notified event types in order.
type recordingPresenter struct {
	mu     sync.Mutex
	cues   []Cue
	hints  []time.Duration
	events []log.EventType
	seqs   []int
}

func (p *recordingPresenter) Pause(_ context.Context, cue Cue, hint time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cues = append(p.cues, cue)
	p.hints = append(p.hints, hint)
	return nil
}

func (p *recordingPresenter) Notify(_ context.Context, event log.GameEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.Type)
	p.seqs = append(p.seqs, event.Seq)
	return nil
}

func (p *recordingPresenter) Cues() []Cue {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Cue(nil), p.cues...)
}

// gatedPresenter blocks pauses until the gate is closed, once armed. If only
// is set before arming, other cues pass straight through.
type gatedPresenter struct {
	armed   atomic.Bool
	only    func(Cue) bool
	entered chan Cue
	gate    chan struct{}
}

func newGatedPresenter() *gatedPresenter {
	return &gatedPresenter{entered: make(chan Cue, 64), gate: make(chan struct{})}
}

func (p *gatedPresenter) Pause(ctx context.Context, cue Cue, _ time.Duration) error {
	if !p.armed.Load() || (p.only != nil && !p.only(cue)) {
		return nil
	}
	select {
	case p.entered <- cue:
	default:
	}
	select {
	case <-p.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *gatedPresenter) Notify(context.Context, log.GameEvent) error { return nil }

// ScriptedController replays a fixed list of commands and records results.
type ScriptedController struct {
	commands []Command
	pos      int
	results  []Result
}

func (sc *ScriptedController) NextCommand(context.Context, Snapshot) (Command, error) {
	if sc.pos >= len(sc.commands) {
		return Command{Kind: CmdQuit}, nil
	}
	cmd := sc.commands[sc.pos]
	sc.pos++
	return cmd, nil
}

func (sc *ScriptedController) Report(_ context.Context, _ Command, result Result, _ Snapshot) error {
	sc.results = append(sc.results, result)
	return nil
}

// greedyController plays the first playable card at the first legal target
// and ends the turn when nothing is playable.
type greedyController struct {
	limit int
	moves int
}

func (g *greedyController) NextCommand(_ context.Context, snap Snapshot) (Command, error) {
	g.moves++
	if g.moves > g.limit {
		return Command{}, fmt.Errorf("no outcome after %d commands", g.limit)
	}
	if snap.State == StateTargeting && snap.Pending != nil {
		if snap.Pending.Target == TargetSelf {
			return Command{Kind: CmdChooseTarget, Target: PlayerTarget}, nil
		}
		for _, e := range snap.Enemies {
			if e.Active {
				return Command{Kind: CmdChooseTarget, Target: EnemyTarget(e.ID)}, nil
			}
		}
	}
	for _, h := range snap.Hand {
		if h.Playable {
			return Command{Kind: CmdSelectCard, Card: h.ID}, nil
		}
	}
	return Command{Kind: CmdEndTurn}, nil
}

func (g *greedyController) Report(context.Context, Command, Result, Snapshot) error {
	return nil
}

// --- Definition helpers ---

func attackCard(name string, cost, damage int) *Card {
	return &Card{ID: name, Name: name, Cost: cost, Target: TargetSingleEnemy,
		Effects: []EffectSpec{{Kind: EffectDamage, Magnitude: damage}}}
}

func blockCard(name string, cost, block int) *Card {
	return &Card{ID: name, Name: name, Type: CardTypeSkill, Cost: cost, Target: TargetSelf,
		Effects: []EffectSpec{{Kind: EffectBlock, Magnitude: block}}}
}

func card(name string, cost int, target TargetKind, effects ...EffectSpec) *Card {
	return &Card{ID: name, Name: name, Cost: cost, Target: target, Effects: effects}
}

func damage(n int) EffectSpec { return EffectSpec{Kind: EffectDamage, Magnitude: n} }
func block(n int) EffectSpec  { return EffectSpec{Kind: EffectBlock, Magnitude: n} }
func draw(n int) EffectSpec   { return EffectSpec{Kind: EffectDraw, Magnitude: n} }

func enemy(name string, hp int, pattern ...*EnemyAction) *EnemyTemplate {
	return &EnemyTemplate{ID: name, Name: name, MaxHealth: hp, Pattern: pattern}
}

func hit(name string, n int) *EnemyAction {
	return &EnemyAction{Name: name, Intent: IntentAttack, Effects: []EffectSpec{damage(n)}}
}

func guard(name string, n int) *EnemyAction {
	return &EnemyAction{Name: name, Intent: IntentDefend, OnSelf: true, Effects: []EffectSpec{block(n)}}
}

// repeat returns a deck of n copies of c.
func repeat(c *Card, n int) []*Card {
	deck := make([]*Card, n)
	for i := range deck {
		deck[i] = c
	}
	return deck
}

type testBattle struct {
	*Battle
	enc    *Encounter
	logger *log.MemoryLogger
}

type battleOption func(*BattleConfig, *PlayerBase)

func withPresenter(p Presenter) battleOption {
	return func(cfg *BattleConfig, _ *PlayerBase) { cfg.Presenter = p }
}

func withDiag(l *zap.Logger) battleOption {
	return func(cfg *BattleConfig, _ *PlayerBase) { cfg.Diag = l }
}

func withPlayer(maxHealth, energy, handSize int) battleOption {
	return func(_ *BattleConfig, pb *PlayerBase) {
		pb.MaxHealth = maxHealth
		pb.BaseEnergy = energy
		pb.HandSize = handSize
	}
}

// newTestBattle builds and starts an unshuffled battle: the opening hand is
// the first HandSize cards of deck, in order.
func newTestBattle(t *testing.T, deck []*Card, enemies []*EnemyTemplate, opts ...battleOption) *testBattle {
	t.Helper()
	tb := newUnstartedBattle(t, deck, enemies, opts...)
	tb.Start(context.Background())
	return tb
}

func newUnstartedBattle(t *testing.T, deck []*Card, enemies []*EnemyTemplate, opts ...battleOption) *testBattle {
	t.Helper()
	base := &PlayerBase{MaxHealth: 50, BaseEnergy: 3, HandSize: 5, Deck: deck}
	logger := log.NewMemoryLogger()
	cfg := BattleConfig{Logger: logger, NoShuffle: true}
	for _, opt := range opts {
		opt(&cfg, base)
	}

	enc, err := NewEncounter(&EncounterDef{ID: "test", Enemies: enemies}, base, &SequenceSource{})
	require.NoError(t, err)
	cfg.Encounter = enc

	b, err := NewBattle(cfg)
	require.NoError(t, err)
	return &testBattle{Battle: b, enc: enc, logger: logger}
}

// handID returns the instance id of the i-th hand card.
func (tb *testBattle) handID(t *testing.T, i int) int {
	t.Helper()
	require.Greater(t, len(tb.enc.Piles.Hand), i, "hand too small")
	return tb.enc.Piles.Hand[i].ID
}

// play selects the i-th hand card and targets ref.
func (tb *testBattle) play(t *testing.T, i int, ref TargetRef) {
	t.Helper()
	ctx := context.Background()
	require.Equal(t, Accepted, tb.SelectCard(ctx, tb.handID(t, i)))
	require.Equal(t, Accepted, tb.ChooseTarget(ctx, ref))
}

// locate counts how many times an instance id appears across all piles.
func locate(p *Piles, id int) (draw, hand, discard int) {
	for _, c := range p.Draw {
		if c.ID == id {
			draw++
		}
	}
	for _, c := range p.Hand {
		if c.ID == id {
			hand++
		}
	}
	for _, c := range p.Discard {
		if c.ID == id {
			discard++
		}
	}
	return
}
