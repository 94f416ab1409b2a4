package net

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/peterkuimelis/skirmish/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
player: { max_health: 20, base_energy: 3, hand_size: 5, deck: [ { card: strike, count: 5 } ] }
cards:
  - { id: strike, name: Strike, cost: 1, target: single_enemy, effects: [ { kind: damage, magnitude: 6 } ] }
enemies:
  - { id: slime, name: Slime, max_health: 6, pattern: [ { name: Ooze, effects: [ { kind: damage, magnitude: 2 } ] } ] }
encounters:
  - { id: slime, enemies: [ slime ] }
`

func testHostConfig(t *testing.T) HostConfig {
	t.Helper()
	cat, err := game.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)
	return HostConfig{Catalog: cat, Encounter: "slime", Seed: 1}
}

// fakeClient reads every server message in the background.
type fakeClient struct {
	enc  *json.Encoder
	msgs chan ServerMessage
}

func newFakeClient(conn net.Conn) *fakeClient {
	fc := &fakeClient{enc: json.NewEncoder(conn), msgs: make(chan ServerMessage, 256)}
	go func() {
		dec := json.NewDecoder(conn)
		defer close(fc.msgs)
		for {
			var msg ServerMessage
			if err := dec.Decode(&msg); err != nil {
				return
			}
			fc.msgs <- msg
		}
	}()
	return fc
}

// next returns the next message of the given type, collecting notify events
// seen on the way.
func (fc *fakeClient) next(t *testing.T, typ string) (ServerMessage, []EventView) {
	t.Helper()
	var events []EventView
	timeout := time.After(5 * time.Second)
	for {
		select {
		case msg, ok := <-fc.msgs:
			require.True(t, ok, "connection closed waiting for %s", typ)
			if msg.Type == typ {
				return msg, events
			}
			if msg.Type == "notify" && msg.Event != nil {
				events = append(events, *msg.Event)
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", typ)
		}
	}
}

func (fc *fakeClient) send(t *testing.T, msg ClientMessage) {
	t.Helper()
	require.NoError(t, fc.enc.Encode(msg))
}

func TestHost_PlaysToVictory(t *testing.T) {
	ctx := context.Background()
	hostConn, clientConn := net.Pipe()
	defer clientConn.Close()

	type hostResult struct {
		outcome game.Outcome
		err     error
	}
	cfg := testHostConfig(t)
	done := make(chan hostResult, 1)
	go func() {
		out, err := Host(ctx, NewStreamTransport(hostConn), cfg)
		hostConn.Close()
		done <- hostResult{out, err}
	}()

	fc := newFakeClient(clientConn)

	state, events := fc.next(t, "state")
	require.NotNil(t, state.State)
	assert.Equal(t, "PlayerTurn", state.State.State)
	assert.True(t, state.State.IsYourTurn)
	require.Len(t, state.State.Hand, 5)
	require.Len(t, state.State.Enemies, 1)
	require.NotNil(t, state.State.Enemies[0].Intent)
	assert.Equal(t, "Ooze", state.State.Enemies[0].Intent.Name)
	assert.NotEmpty(t, events)

	fc.send(t, ClientMessage{Type: "select_card", Card: state.State.Hand[0].ID})
	res, _ := fc.next(t, "result")
	assert.Equal(t, "Accepted", res.Result)
	require.NotNil(t, res.State.Pending)

	fc.send(t, ClientMessage{Type: "choose_target", Target: "player"})
	res, _ = fc.next(t, "result")
	assert.Equal(t, "RejectedInvalidTarget", res.Result)
	assert.Nil(t, res.State.Pending)

	fc.send(t, ClientMessage{Type: "select_card", Card: state.State.Hand[0].ID})
	fc.next(t, "result")
	fc.send(t, ClientMessage{Type: "choose_target", Target: "e1"})
	res, events = fc.next(t, "result")
	assert.Equal(t, "Accepted", res.Result)

	var types []string
	lastSeq := 0
	for _, e := range events {
		types = append(types, e.Type)
		assert.Greater(t, e.Seq, lastSeq, "event %s out of sequence", e.Type)
		lastSeq = e.Seq
	}
	assert.Contains(t, types, "CardPlayed")
	assert.Contains(t, types, "Damage")
	assert.Contains(t, types, "Victory")

	over, _ := fc.next(t, "game_over")
	assert.Equal(t, "Victory", over.Result)
	assert.False(t, over.State.IsYourTurn)

	r := <-done
	require.NoError(t, r.err)
	assert.Equal(t, game.OutcomeVictory, r.outcome)
}

func TestHost_MalformedCommandsAndQuit(t *testing.T) {
	ctx := context.Background()
	hostConn, clientConn := net.Pipe()
	defer clientConn.Close()

	cfg := testHostConfig(t)
	done := make(chan error, 1)
	go func() {
		_, err := Host(ctx, NewStreamTransport(hostConn), cfg)
		hostConn.Close()
		done <- err
	}()

	fc := newFakeClient(clientConn)
	fc.next(t, "state")

	fc.send(t, ClientMessage{Type: "dance"})
	msg, _ := fc.next(t, "error")
	assert.Contains(t, msg.Error, "unknown command")

	fc.send(t, ClientMessage{Type: "choose_target"})
	msg, _ = fc.next(t, "error")
	assert.Contains(t, msg.Error, "choose_target")

	fc.send(t, ClientMessage{Type: "choose_target", Target: "e1"})
	res, _ := fc.next(t, "result")
	assert.Equal(t, "RejectedNotTargeting", res.Result)

	fc.send(t, ClientMessage{Type: "quit"})
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("host did not stop")
	}
}

func TestHost_UnknownEncounter(t *testing.T) {
	cfg := testHostConfig(t)
	cfg.Encounter = "dragon"
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	_, err := Host(context.Background(), NewStreamTransport(a), cfg)
	assert.Error(t, err)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestPlay_REPL(t *testing.T) {
	out := &syncBuffer{}
	repl := &Client{
		In:  strings.NewReader("state\nbogus\nplay 1\ntarget e1\n"),
		Out: out,
	}

	err := Play(context.Background(), testHostConfig(t), repl)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Commands:")
	assert.Contains(t, text, "unknown command")
	assert.Contains(t, text, "Slime")
	assert.Contains(t, text, "VICTORY")
}

func TestClientMessage_Command(t *testing.T) {
	cmd, err := ClientMessage{Type: "select_card", Card: 4}.Command()
	require.NoError(t, err)
	assert.Equal(t, game.Command{Kind: game.CmdSelectCard, Card: 4}, cmd)

	cmd, err = ClientMessage{Type: "choose_target", Target: "E2"}.Command()
	require.NoError(t, err)
	assert.Equal(t, game.EnemyTarget("e2"), cmd.Target)

	msg := CommandMessage(game.Command{Kind: game.CmdChooseTarget, Target: game.PlayerTarget})
	assert.Equal(t, ClientMessage{Type: "choose_target", Target: "player"}, msg)

	assert.Equal(t, "end_turn", CommandMessage(game.Command{Kind: game.CmdEndTurn}).Type)
}
