package game

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CommandKind is the kind of player command.
type CommandKind int

const (
	CmdState CommandKind = iota
	CmdSelectCard
	CmdChooseTarget
	CmdCancel
	CmdEndTurn
	CmdQuit
)

func (k CommandKind) String() string {
	switch k {
	case CmdState:
		return "state"
	case CmdSelectCard:
		return "select_card"
	case CmdChooseTarget:
		return "choose_target"
	case CmdCancel:
		return "cancel"
	case CmdEndTurn:
		return "end_turn"
	case CmdQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ParseCommandKind parses a wire name such as "select_card".
func ParseCommandKind(s string) (CommandKind, error) {
	switch normalizeKind(s) {
	case "state":
		return CmdState, nil
	case "selectcard", "select", "play":
		return CmdSelectCard, nil
	case "choosetarget", "target":
		return CmdChooseTarget, nil
	case "cancel", "canceltargeting":
		return CmdCancel, nil
	case "endturn", "end":
		return CmdEndTurn, nil
	case "quit":
		return CmdQuit, nil
	default:
		return 0, fmt.Errorf("unknown command %q", s)
	}
}

// Command is one player input.
type Command struct {
	Kind   CommandKind
	Card   int // hand instance id for CmdSelectCard
	Target TargetRef
}

func (c Command) String() string {
	switch c.Kind {
	case CmdSelectCard:
		return fmt.Sprintf("select_card %d", c.Card)
	case CmdChooseTarget:
		return fmt.Sprintf("choose_target %s", c.Target)
	default:
		return c.Kind.String()
	}
}

// ParseCommand parses a REPL line: "play 3", "target e1", "target player",
// "cancel", "end", "state" or "quit".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, errors.New("empty command")
	}
	kind, err := ParseCommandKind(fields[0])
	if err != nil {
		return Command{}, err
	}
	cmd := Command{Kind: kind}

	switch kind {
	case CmdSelectCard:
		if len(fields) != 2 {
			return Command{}, errors.New("usage: play <card id>")
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("card id %q: %w", fields[1], err)
		}
		cmd.Card = id
	case CmdChooseTarget:
		if len(fields) != 2 {
			return Command{}, errors.New("usage: target <e1|player>")
		}
		ref, err := ParseTargetRef(fields[1])
		if err != nil {
			return Command{}, err
		}
		cmd.Target = ref
	}
	return cmd, nil
}

// Controller supplies commands to Run and receives their results.
type Controller interface {
	NextCommand(ctx context.Context, snap Snapshot) (Command, error)
	Report(ctx context.Context, cmd Command, result Result, snap Snapshot) error
}

// ErrQuit is returned by Run when the controller asks to stop.
var ErrQuit = errors.New("player quit")

// Run starts the battle and feeds it commands until the encounter ends.
func Run(ctx context.Context, b *Battle, ctrl Controller) (Outcome, error) {
	b.Start(ctx)

	for {
		if err := ctx.Err(); err != nil {
			return b.Outcome(), err
		}
		if out := b.Outcome(); out != OutcomeOngoing {
			return out, nil
		}

		cmd, err := ctrl.NextCommand(ctx, b.Snapshot())
		if err != nil {
			return b.Outcome(), fmt.Errorf("next command: %w", err)
		}
		if cmd.Kind == CmdQuit {
			return b.Outcome(), ErrQuit
		}

		result := b.Apply(ctx, cmd)
		if err := ctrl.Report(ctx, cmd, result, b.Snapshot()); err != nil {
			return b.Outcome(), fmt.Errorf("report %s: %w", cmd, err)
		}
	}
}
