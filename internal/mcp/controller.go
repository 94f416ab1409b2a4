package mcp

import (
	"context"
	"time"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
	"github.com/peterkuimelis/skirmish/internal/net"
)

// SessionPresenter implements game.Presenter for a tool-driven session.
// Events are buffered until the next tool response; pauses complete at once
// because the caller reads the whole sequence in one reply.
type SessionPresenter struct {
	session *GameSession
}

// NewSessionPresenter creates a presenter feeding the given session.
func NewSessionPresenter(session *GameSession) *SessionPresenter {
	return &SessionPresenter{session: session}
}

// Pause implements game.Presenter.
func (p *SessionPresenter) Pause(context.Context, game.Cue, time.Duration) error {
	return nil
}

// Notify implements game.Presenter.
func (p *SessionPresenter) Notify(_ context.Context, event log.GameEvent) error {
	p.session.appendEvent(*net.NewEventView(event))
	return nil
}
