package net

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
	"go.uber.org/zap"
)

// HostConfig describes the encounter a host runs for its client.
type HostConfig struct {
	Catalog   *game.Catalog
	Encounter string
	Seed      int64 // 0 picks a time based seed
	Delays    game.Delays
	Logger    log.EventLogger // optional, e.g. a TextLogger for the host terminal
	Diag      *zap.Logger
}

// Host runs one encounter for the client at the other end of t. It returns
// when the encounter ends, the client quits or the transport fails.
func Host(ctx context.Context, t Transport, cfg HostConfig) (game.Outcome, error) {
	diag := cfg.Diag
	if diag == nil {
		diag = zap.NewNop()
	}
	enc, err := cfg.Catalog.NewEncounter(cfg.Encounter, game.NewRandom(cfg.Seed))
	if err != nil {
		return game.OutcomeOngoing, fmt.Errorf("new encounter: %w", err)
	}

	ctrl := NewNetworkController(t)
	battle, err := game.NewBattle(game.BattleConfig{
		Encounter: enc,
		Logger:    cfg.Logger,
		Diag:      diag,
		Presenter: ctrl,
		Delays:    cfg.Delays,
	})
	if err != nil {
		return game.OutcomeOngoing, err
	}

	diag.Info("hosting encounter",
		zap.String("encounter", cfg.Encounter),
		zap.String("id", enc.ID),
	)

	battle.Start(ctx)
	if err := ctrl.send(ctx, ServerMessage{Type: "state", State: BuildStateView(battle.Snapshot())}); err != nil {
		return game.OutcomeOngoing, fmt.Errorf("send state: %w", err)
	}

	outcome, err := game.Run(ctx, battle, ctrl)
	if errors.Is(err, game.ErrQuit) {
		diag.Info("client quit", zap.String("id", enc.ID))
		return outcome, nil
	}
	if err != nil {
		return outcome, err
	}

	if err := ctrl.SendGameOver(ctx, battle.Snapshot()); err != nil {
		return outcome, fmt.Errorf("send game_over: %w", err)
	}
	diag.Info("encounter finished",
		zap.String("id", enc.ID),
		zap.Stringer("outcome", outcome),
		zap.Int("turns", battle.Snapshot().Turn),
	)
	return outcome, nil
}

// Server hosts an encounter for one remote TCP client.
type Server struct {
	Port string
	Host HostConfig
}

// Run listens, waits for a client, then runs the encounter. The client may
// open with a join message naming the encounter it wants.
func (s *Server) Run(ctx context.Context) error {
	diag := s.Host.Diag
	if diag == nil {
		diag = zap.NewNop()
	}

	ln, err := net.Listen("tcp", ":"+s.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	diag.Info("waiting for player", zap.String("port", s.Port))

	conn, err := ln.Accept()
	if err != nil {
		return fmt.Errorf("accept: %w", err)
	}
	defer conn.Close()

	diag.Info("player connected", zap.Stringer("remote", conn.RemoteAddr()))

	t := NewStreamTransport(conn)
	join, err := t.Recv(ctx)
	if err != nil {
		return fmt.Errorf("read join message: %w", err)
	}
	cfg := s.Host
	if join.Type == "join" && join.Encounter != "" {
		cfg.Encounter = join.Encounter
	}

	_, err = Host(ctx, t, cfg)
	return err
}

// Play runs an encounter locally: the host and the REPL talk over an
// in-memory pipe.
func Play(ctx context.Context, cfg HostConfig, repl *Client) error {
	hostConn, clientConn := net.Pipe()
	repl.conn = clientConn

	hostErr := make(chan error, 1)
	go func() {
		_, err := Host(ctx, NewStreamTransport(hostConn), cfg)
		hostConn.Close()
		hostErr <- err
	}()

	replErr := repl.RunREPL(ctx)
	clientConn.Close()
	if err := <-hostErr; err != nil {
		return err
	}
	return replErr
}
