package net

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/peterkuimelis/skirmish/internal/game"
)

const helpText = `Commands:
  play <id>        select a card from your hand
  target <e1|player>
  cancel           put the selected card back
  end              end your turn
  state            show the board
  quit             leave the encounter`

// Client connects to a game server and provides a terminal REPL.
type Client struct {
	conn net.Conn
	In   io.Reader // defaults to os.Stdin
	Out  io.Writer // defaults to os.Stdout

	mu sync.Mutex
}

// Connect connects to a server, asks for an encounter, and runs the REPL.
func Connect(ctx context.Context, addr, encounter string) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(ClientMessage{Type: "join", Encounter: encounter}); err != nil {
		return fmt.Errorf("send join: %w", err)
	}

	client := &Client{conn: conn}
	client.printf("Connected! Waiting for the encounter to start...\n")
	return client.RunREPL(ctx)
}

func (c *Client) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}

// RunREPL prints server messages and forwards typed commands until the
// encounter ends or the player quits.
func (c *Client) RunREPL(ctx context.Context) error {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	dec := json.NewDecoder(c.conn)
	enc := json.NewEncoder(c.conn)

	done := make(chan error, 2)

	go func() {
		for {
			var msg ServerMessage
			if err := dec.Decode(&msg); err != nil {
				done <- fmt.Errorf("read message: %w", err)
				return
			}
			if c.handle(msg) {
				done <- nil
				return
			}
		}
	}()

	go func() {
		c.printf("%s\n", helpText)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "help" || line == "?" {
				c.printf("%s\n", helpText)
				continue
			}
			cmd, err := game.ParseCommand(line)
			if err != nil {
				c.printf("%v (type help)\n", err)
				continue
			}
			if err := enc.Encode(CommandMessage(cmd)); err != nil {
				done <- fmt.Errorf("send command: %w", err)
				return
			}
			if cmd.Kind == game.CmdQuit {
				done <- nil
				return
			}
		}
		// end of input leaves the encounter
		_ = enc.Encode(ClientMessage{Type: "quit"})
		done <- nil
	}()

	select {
	case err := <-done:
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handle renders one server message. It reports whether the encounter ended.
func (c *Client) handle(msg ServerMessage) bool {
	switch msg.Type {
	case "notify":
		c.renderEvent(msg.Event)
	case "state":
		c.renderState(msg.State)
	case "result":
		if msg.Result != game.Accepted.String() {
			c.printf("! %s\n", msg.Result)
		}
		c.renderState(msg.State)
	case "error":
		c.printf("! %s\n", msg.Error)
	case "game_over":
		c.renderState(msg.State)
		c.printf("\n═══════════════════════════════════\n")
		c.printf("          %s\n", strings.ToUpper(msg.Result))
		c.printf("═══════════════════════════════════\n")
		return true
	}
	return false
}

func (c *Client) renderEvent(ev *EventView) {
	if ev == nil {
		return
	}
	state := ev.State
	for len(state) < 11 {
		state += " "
	}
	c.printf("T%-2d %s| %s\n", ev.Turn, state, ev.Details)
}

func (c *Client) renderState(sv *StateView) {
	if sv == nil {
		return
	}
	var b strings.Builder

	b.WriteString("\n╔══════════════════════════════════════════════════════╗\n")
	for _, e := range sv.Enemies {
		if !e.Active {
			fmt.Fprintf(&b, "║  %-3s %-14s defeated\n", e.ID, e.Name)
			continue
		}
		fmt.Fprintf(&b, "║  %-3s %-14s HP %3d/%-3d Block %-3d", e.ID, e.Name, e.Health, e.MaxHealth, e.Block)
		if e.Intent != nil {
			fmt.Fprintf(&b, " → %s (%s)", e.Intent.Name, e.Intent.Summary)
		}
		b.WriteString("\n")
	}
	b.WriteString("║──────────────────────────────────────────────────────\n")
	p := sv.Player
	fmt.Fprintf(&b, "║  YOU  HP %d/%d  Block %d  Energy %d/%d  Draw %d  Discard %d\n",
		p.Health, p.MaxHealth, p.Block, p.Energy, p.BaseEnergy, sv.DrawCount, sv.Discard)
	b.WriteString("╚══════════════════════════════════════════════════════╝\n")
	fmt.Fprintf(&b, "Turn %d | %s\n", sv.Turn, sv.State)

	if len(sv.Hand) > 0 {
		b.WriteString("Hand:\n")
		for _, h := range sv.Hand {
			mark := " "
			if sv.Pending != nil && sv.Pending.ID == h.ID {
				mark = "*"
			} else if !h.Playable {
				mark = "x"
			}
			fmt.Fprintf(&b, " %s [%d] %s (%d) %s\n", mark, h.ID, h.Name, h.Cost, h.Text)
		}
	}
	if sv.Pending != nil {
		fmt.Fprintf(&b, "Choose a target for %s (%s)\n", sv.Pending.Name, sv.Pending.Target)
	}
	c.printf("%s", b.String())
}
