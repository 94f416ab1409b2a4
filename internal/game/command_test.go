package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{"play 3", Command{Kind: CmdSelectCard, Card: 3}},
		{"select_card 12", Command{Kind: CmdSelectCard, Card: 12}},
		{"target e2", Command{Kind: CmdChooseTarget, Target: EnemyTarget("e2")}},
		{"target player", Command{Kind: CmdChooseTarget, Target: PlayerTarget}},
		{"cancel", Command{Kind: CmdCancel}},
		{"end", Command{Kind: CmdEndTurn}},
		{"end-turn", Command{Kind: CmdEndTurn}},
		{"  state ", Command{Kind: CmdState}},
		{"quit", Command{Kind: CmdQuit}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	for _, line := range []string{"", "play", "play x", "target", "dance", "target e1 e2"} {
		_, err := ParseCommand(line)
		assert.Error(t, err, line)
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "select_card 4", Command{Kind: CmdSelectCard, Card: 4}.String())
	assert.Equal(t, "choose_target player", Command{Kind: CmdChooseTarget}.String())
	assert.Equal(t, "end_turn", Command{Kind: CmdEndTurn}.String())
}

func TestSnapshot(t *testing.T) {
	ctx := t.Context()
	heavy := attackCard("Heavy", 4, 20)
	deck := append([]*Card{strike, heavy}, repeat(strike, 8)...)
	tb := newTestBattle(t, deck, []*EnemyTemplate{dummy(30), enemy("Turtle", 20, guard("Shell", 4))})

	snap := tb.Snapshot()
	assert.Equal(t, StatePlayerTurn, snap.State)
	assert.Equal(t, "test", snap.Definition)
	assert.Equal(t, 1, snap.Turn)
	assert.Equal(t, 3, snap.Energy)
	assert.Equal(t, 5, snap.DrawCount)
	require.Len(t, snap.Hand, 5)
	assert.True(t, snap.Hand[0].Playable)
	assert.False(t, snap.Hand[1].Playable, "too expensive")
	assert.Nil(t, snap.Pending)

	require.Len(t, snap.Enemies, 2)
	require.NotNil(t, snap.Enemies[1].Intent)
	assert.Equal(t, "Shell", snap.Enemies[1].Intent.Name)
	assert.Equal(t, IntentDefend, snap.Enemies[1].Intent.Kind)
	assert.Equal(t, "Block 4", snap.Enemies[1].Intent.Summary)

	require.Equal(t, Accepted, tb.SelectCard(ctx, snap.Hand[0].ID))
	snap = tb.Snapshot()
	assert.Equal(t, StateTargeting, snap.State)
	require.NotNil(t, snap.Pending)
	assert.Equal(t, snap.Hand[0].ID, snap.Pending.ID)
	for _, h := range snap.Hand {
		assert.False(t, h.Playable)
	}
}
