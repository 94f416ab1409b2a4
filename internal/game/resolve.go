package game

import "fmt"

// Resolution reports what one effect application did to one combatant.
type Resolution struct {
	Effect        EffectSpec
	Absorbed      int // block consumed by damage
	Dealt         int // health lost
	BlockGained   int
	DrawRequested int // cards the player should draw; always 0 for enemies
	Died          bool
}

// ApplyEffect applies one effect to a copy of target and returns the updated
// combatant with a report. It is deterministic and never drives health or
// block below zero. Draw is not applied here: the caller owns the piles, so
// the request is reported through DrawRequested (and dropped for enemies).
func ApplyEffect(effect EffectSpec, target Combatant) (Combatant, Resolution, error) {
	res := Resolution{Effect: effect}
	if effect.Magnitude < 0 {
		return target, res, fmt.Errorf("%w: negative magnitude %d for %s", ErrDataIntegrity, effect.Magnitude, effect.Kind)
	}

	switch effect.Kind {
	case EffectDamage:
		wasAlive := target.Health > 0
		dmg := effect.Magnitude

		absorbed := min(dmg, target.Block)
		target.Block -= absorbed
		dmg -= absorbed

		dealt := min(dmg, target.Health)
		target.Health -= dealt

		res.Absorbed = absorbed
		res.Dealt = dealt
		res.Died = wasAlive && target.Health == 0
	case EffectBlock:
		target.Block += effect.Magnitude
		res.BlockGained = effect.Magnitude
	case EffectDraw:
		if target.IsPlayer() {
			res.DrawRequested = effect.Magnitude
		}
	default:
		return target, res, fmt.Errorf("%w: unknown effect kind %d", ErrDataIntegrity, int(effect.Kind))
	}

	return target, res, nil
}
