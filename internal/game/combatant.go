package game

import "fmt"

// PlayerID is the combatant id of the player.
const PlayerID = "player"

// Combatant is a runtime entity with health and block: the player or an enemy.
type Combatant struct {
	ID        string
	Name      string
	MaxHealth int
	Health    int
	Block     int
	Active    bool

	// Enemy only
	Template *EnemyTemplate
	Cursor   int // index into Template.Pattern
}

// NewPlayerCombatant creates the player at full health.
func NewPlayerCombatant(maxHealth int) *Combatant {
	return &Combatant{
		ID:        PlayerID,
		Name:      "Player",
		MaxHealth: maxHealth,
		Health:    maxHealth,
		Active:    true,
	}
}

// NewEnemyCombatant snapshots a template into a fresh enemy.
func NewEnemyCombatant(id string, tmpl *EnemyTemplate) *Combatant {
	return &Combatant{
		ID:        id,
		Name:      tmpl.Name,
		MaxHealth: tmpl.MaxHealth,
		Health:    tmpl.MaxHealth,
		Active:    true,
		Template:  tmpl,
	}
}

func (c *Combatant) String() string {
	return fmt.Sprintf("%s (%s %d/%d, block %d)", c.Name, c.ID, c.Health, c.MaxHealth, c.Block)
}

// IsPlayer reports whether this combatant is the player.
func (c *Combatant) IsPlayer() bool {
	return c.Template == nil
}

// Ref returns the target reference naming this combatant.
func (c *Combatant) Ref() TargetRef {
	if c.IsPlayer() {
		return PlayerTarget
	}
	return EnemyTarget(c.ID)
}

// Alive reports whether the combatant still has health.
func (c *Combatant) Alive() bool {
	return c.Health > 0
}

// ResetBlock zeroes block and returns how much was lost.
func (c *Combatant) ResetBlock() int {
	lost := c.Block
	c.Block = 0
	return lost
}

// Deactivate removes the combatant from targeting. There is no revive.
func (c *Combatant) Deactivate() {
	c.Active = false
}

// NextAction returns the action at the pattern cursor, or nil for the player
// or an enemy whose template has no pattern.
func (c *Combatant) NextAction() *EnemyAction {
	if c.Template == nil || len(c.Template.Pattern) == 0 {
		return nil
	}
	return c.Template.Pattern[c.Cursor%len(c.Template.Pattern)]
}

// AdvancePattern moves the cursor one step, wrapping after the last action.
func (c *Combatant) AdvancePattern() {
	if c.Template == nil || len(c.Template.Pattern) == 0 {
		return
	}
	c.Cursor = (c.Cursor + 1) % len(c.Template.Pattern)
}
