package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEffect_DamageCarriesThroughBlock(t *testing.T) {
	target := Combatant{ID: "e1", MaxHealth: 10, Health: 10, Block: 3, Active: true, Template: &EnemyTemplate{}}

	got, res, err := ApplyEffect(damage(5), target)
	require.NoError(t, err)

	assert.Equal(t, 0, got.Block)
	assert.Equal(t, 8, got.Health)
	assert.Equal(t, 3, res.Absorbed)
	assert.Equal(t, 2, res.Dealt)
	assert.False(t, res.Died)

	// input is untouched
	assert.Equal(t, 3, target.Block)
	assert.Equal(t, 10, target.Health)
}

func TestApplyEffect_DamageFullyBlocked(t *testing.T) {
	target := Combatant{MaxHealth: 10, Health: 10, Block: 12}
	got, res, err := ApplyEffect(damage(5), target)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Block)
	assert.Equal(t, 10, got.Health)
	assert.Equal(t, 0, res.Dealt)
}

func TestApplyEffect_LethalDamageClampsAtZero(t *testing.T) {
	target := Combatant{MaxHealth: 10, Health: 4}
	got, res, err := ApplyEffect(damage(9), target)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Health)
	assert.Equal(t, 4, res.Dealt)
	assert.True(t, res.Died)

	// already dead: no second death
	_, res, err = ApplyEffect(damage(3), got)
	require.NoError(t, err)
	assert.False(t, res.Died)
	assert.Equal(t, 0, res.Dealt)
}

func TestApplyEffect_BlockAccumulates(t *testing.T) {
	target := Combatant{MaxHealth: 10, Health: 10, Block: 2}
	got, res, err := ApplyEffect(block(5), target)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Block)
	assert.Equal(t, 5, res.BlockGained)
}

func TestApplyEffect_DrawOnlyForPlayer(t *testing.T) {
	player := *NewPlayerCombatant(10)
	_, res, err := ApplyEffect(draw(2), player)
	require.NoError(t, err)
	assert.Equal(t, 2, res.DrawRequested)

	foe := *NewEnemyCombatant("e1", enemy("dummy", 10, hit("Poke", 1)))
	_, res, err = ApplyEffect(draw(2), foe)
	require.NoError(t, err)
	assert.Equal(t, 0, res.DrawRequested)
}

func TestApplyEffect_IntegrityErrors(t *testing.T) {
	target := Combatant{MaxHealth: 10, Health: 10}

	_, _, err := ApplyEffect(EffectSpec{Kind: EffectDamage, Magnitude: -1}, target)
	assert.ErrorIs(t, err, ErrDataIntegrity)

	got, _, err := ApplyEffect(EffectSpec{Kind: EffectKind(42), Magnitude: 1}, target)
	assert.ErrorIs(t, err, ErrDataIntegrity)
	assert.Equal(t, target, got)
}

func TestApplyEffect_HealthAndBlockStayInRange(t *testing.T) {
	c := Combatant{MaxHealth: 30, Health: 30}
	steps := []EffectSpec{damage(7), block(4), damage(2), damage(11), block(0), damage(40), block(9), damage(3)}
	for _, e := range steps {
		var err error
		c, _, err = ApplyEffect(e, c)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c.Health, 0)
		assert.LessOrEqual(t, c.Health, c.MaxHealth)
		assert.GreaterOrEqual(t, c.Block, 0)
	}
	assert.Equal(t, 0, c.Health)
}
