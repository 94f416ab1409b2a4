package game

import (
	"context"
	"time"

	"github.com/peterkuimelis/skirmish/internal/log"
)

// Cue names a presentation step a sequence waits on.
type Cue int

const (
	CuePlayCard Cue = iota
	CueHit
	CueDeath
	CueEnemyAction
	CueTurnStart
)

func (c Cue) String() string {
	switch c {
	case CuePlayCard:
		return "PlayCard"
	case CueHit:
		return "Hit"
	case CueDeath:
		return "Death"
	case CueEnemyAction:
		return "EnemyAction"
	case CueTurnStart:
		return "TurnStart"
	default:
		return "Unknown"
	}
}

// Delays maps each cue to a duration hint.
type Delays struct {
	PlayCard    time.Duration
	Hit         time.Duration
	Death       time.Duration
	EnemyAction time.Duration
	TurnStart   time.Duration
}

// DefaultDelays returns the standard pacing.
func DefaultDelays() Delays {
	return Delays{
		PlayCard:    500 * time.Millisecond,
		Hit:         500 * time.Millisecond,
		Death:       time.Second,
		EnemyAction: 500 * time.Millisecond,
	}
}

// For returns the hint for a cue.
func (d Delays) For(c Cue) time.Duration {
	switch c {
	case CuePlayCard:
		return d.PlayCard
	case CueHit:
		return d.Hit
	case CueDeath:
		return d.Death
	case CueEnemyAction:
		return d.EnemyAction
	case CueTurnStart:
		return d.TurnStart
	default:
		return 0
	}
}

// Presenter is the presentation collaborator of a battle.
//
// Pause is a cooperative suspension point: the sequence resumes only after it
// returns. Its duration never changes outcomes. Notify is called with the
// battle lock held and must not call back into the battle.
type Presenter interface {
	Pause(ctx context.Context, cue Cue, hint time.Duration) error
	Notify(ctx context.Context, event log.GameEvent) error
}

// NopPresenter completes every pause immediately.
type NopPresenter struct{}

func (NopPresenter) Pause(context.Context, Cue, time.Duration) error { return nil }

func (NopPresenter) Notify(context.Context, log.GameEvent) error { return nil }

// TimedPresenter sleeps for each hint. A cancelled context ends the wait early.
type TimedPresenter struct{}

func (TimedPresenter) Pause(ctx context.Context, _ Cue, hint time.Duration) error {
	return Sleep(ctx, hint)
}

func (TimedPresenter) Notify(context.Context, log.GameEvent) error { return nil }

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
