package net

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/peterkuimelis/skirmish/internal/log"
)

// Transport carries protocol envelopes to and from one client.
type Transport interface {
	Send(ctx context.Context, msg ServerMessage) error
	Recv(ctx context.Context) (ClientMessage, error)
}

// StreamTransport speaks newline-delimited JSON over a byte stream such as a
// TCP connection or one end of net.Pipe.
type StreamTransport struct {
	enc *json.Encoder
	dec *json.Decoder
}

// NewStreamTransport wraps rw.
func NewStreamTransport(rw io.ReadWriter) *StreamTransport {
	return &StreamTransport{enc: json.NewEncoder(rw), dec: json.NewDecoder(rw)}
}

func (t *StreamTransport) Send(_ context.Context, msg ServerMessage) error {
	return t.enc.Encode(msg)
}

func (t *StreamTransport) Recv(_ context.Context) (ClientMessage, error) {
	var msg ClientMessage
	err := t.dec.Decode(&msg)
	return msg, err
}

// NetworkController drives a battle from a remote client. It implements both
// game.Controller and game.Presenter: events stream to the client as they
// happen and pauses sleep for their hint so the client sees paced output.
type NetworkController struct {
	t  Transport
	mu sync.Mutex
}

// NewNetworkController creates a new controller for the given transport.
func NewNetworkController(t Transport) *NetworkController {
	return &NetworkController{t: t}
}

// send sends a server message. Safe for concurrent use.
func (nc *NetworkController) send(ctx context.Context, msg ServerMessage) error {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	return nc.t.Send(ctx, msg)
}

// NextCommand implements game.Controller. Malformed messages are answered
// with an error message and skipped.
func (nc *NetworkController) NextCommand(ctx context.Context, _ game.Snapshot) (game.Command, error) {
	for {
		msg, err := nc.t.Recv(ctx)
		if err != nil {
			return game.Command{}, fmt.Errorf("recv command: %w", err)
		}
		cmd, err := msg.Command()
		if err != nil {
			if err := nc.send(ctx, ServerMessage{Type: "error", Error: err.Error()}); err != nil {
				return game.Command{}, fmt.Errorf("send error: %w", err)
			}
			continue
		}
		return cmd, nil
	}
}

// Report implements game.Controller.
func (nc *NetworkController) Report(ctx context.Context, _ game.Command, result game.Result, snap game.Snapshot) error {
	return nc.send(ctx, ServerMessage{
		Type:   "result",
		Result: result.String(),
		State:  BuildStateView(snap),
	})
}

// SendGameOver sends a game_over message to the client.
func (nc *NetworkController) SendGameOver(ctx context.Context, snap game.Snapshot) error {
	return nc.send(ctx, ServerMessage{
		Type:   "game_over",
		Result: snap.Outcome.String(),
		State:  BuildStateView(snap),
	})
}

// Pause implements game.Presenter.
func (nc *NetworkController) Pause(ctx context.Context, _ game.Cue, hint time.Duration) error {
	return game.Sleep(ctx, hint)
}

// Notify implements game.Presenter.
func (nc *NetworkController) Notify(ctx context.Context, event log.GameEvent) error {
	return nc.send(ctx, ServerMessage{Type: "notify", Event: NewEventView(event)})
}
