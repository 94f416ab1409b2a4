package game

// Snapshot is a consistent copy of a battle taken under its lock.
type Snapshot struct {
	EncounterID string
	Definition  string
	State       BattleState
	Outcome     Outcome
	Turn        int
	Player      CombatantView
	Energy      int
	BaseEnergy  int
	Hand        []HandView
	DrawCount   int
	Discard     int
	Pending     *HandView
	Enemies     []EnemyView
}

// CombatantView is the health and block of a combatant.
type CombatantView struct {
	ID        string
	Name      string
	Health    int
	MaxHealth int
	Block     int
	Active    bool
}

// HandView is a card in hand. Playable is set when the card could be
// selected right now.
type HandView struct {
	ID       int
	CardID   string
	Name     string
	Cost     int
	Target   TargetKind
	Text     string
	Playable bool
}

// EnemyView is an enemy with its announced intent.
type EnemyView struct {
	CombatantView
	Intent *IntentView
}

// IntentView describes the action an enemy will take on its next turn.
type IntentView struct {
	Name    string
	Kind    IntentKind
	Icon    string
	Summary string
}

func viewCombatant(c *Combatant) CombatantView {
	return CombatantView{
		ID:        c.ID,
		Name:      c.Name,
		Health:    c.Health,
		MaxHealth: c.MaxHealth,
		Block:     c.Block,
		Active:    c.Active,
	}
}

// Snapshot returns a copy of the current battle state.
func (b *Battle) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	enc := b.enc
	snap := Snapshot{
		EncounterID: enc.ID,
		Definition:  enc.Def.ID,
		State:       b.state,
		Outcome:     enc.Outcome,
		Turn:        enc.Turn,
		Player:      viewCombatant(enc.Player),
		Energy:      enc.Ledger.Energy,
		BaseEnergy:  enc.Ledger.BaseEnergy,
		DrawCount:   len(enc.Piles.Draw),
		Discard:     len(enc.Piles.Discard),
	}

	selectable := b.state == StatePlayerTurn && !enc.Over()
	for _, ci := range enc.Piles.Hand {
		if ci.Card == nil {
			continue
		}
		hv := HandView{
			ID:       ci.ID,
			CardID:   ci.Card.ID,
			Name:     ci.Card.Name,
			Cost:     ci.Card.Cost,
			Target:   ci.Card.Target,
			Text:     ci.Card.Description,
			Playable: selectable && enc.Ledger.CanAfford(ci.Card.Cost),
		}
		snap.Hand = append(snap.Hand, hv)
		if b.pending == ci {
			p := hv
			snap.Pending = &p
		}
	}

	for _, e := range enc.Enemies {
		ev := EnemyView{CombatantView: viewCombatant(e)}
		if action := e.NextAction(); action != nil && e.Active {
			ev.Intent = &IntentView{
				Name:    action.Name,
				Kind:    action.Intent,
				Icon:    action.Icon,
				Summary: action.Summary(),
			}
		}
		snap.Enemies = append(snap.Enemies, ev)
	}
	return snap
}

// State returns the current battle state.
func (b *Battle) State() BattleState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Outcome returns the encounter outcome.
func (b *Battle) Outcome() Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enc.Outcome
}

// Encounter returns the underlying encounter. Callers must not mutate it
// while the battle is in use.
func (b *Battle) Encounter() *Encounter {
	return b.enc
}
