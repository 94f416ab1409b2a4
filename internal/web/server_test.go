package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/peterkuimelis/skirmish/internal/game"
	skirmishnet "github.com/peterkuimelis/skirmish/internal/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalog = `
player: { max_health: 20, base_energy: 3, hand_size: 5, deck: [ { card: strike, count: 5 } ] }
cards:
  - { id: strike, name: Strike, cost: 1, target: single_enemy, description: Deal 6 damage., effects: [ { kind: damage, magnitude: 6 } ] }
enemies:
  - id: slime
    name: Slime
    max_health: 6
    pattern:
      - { name: Ooze, intent: attack, effects: [ { kind: damage, magnitude: 2 } ] }
      - { name: Harden, intent: defend, target: self, effects: [ { kind: block, magnitude: 3 } ] }
encounters:
  - { id: slime, name: One Slime, enemies: [ slime ] }
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cat, err := game.ParseCatalog([]byte(testCatalog))
	require.NoError(t, err)
	srv := httptest.NewServer(NewServer(skirmishnet.HostConfig{Catalog: cat, Encounter: "slime"}))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestAPI(t *testing.T) {
	srv := newTestServer(t)

	var cards []CardInfo
	getJSON(t, srv.URL+"/api/cards", &cards)
	require.Len(t, cards, 1)
	assert.Equal(t, "Strike", cards[0].Name)
	assert.Equal(t, "SingleEnemy", cards[0].Target)
	assert.Equal(t, []EffectInfo{{Kind: "Damage", Magnitude: 6}}, cards[0].Effects)

	var enemies []EnemyInfo
	getJSON(t, srv.URL+"/api/enemies", &enemies)
	require.Len(t, enemies, 1)
	require.Len(t, enemies[0].Pattern, 2)
	assert.True(t, enemies[0].Pattern[1].OnSelf)
	assert.Equal(t, "Defend", enemies[0].Pattern[1].Intent)

	var encounters []EncounterInfo
	getJSON(t, srv.URL+"/api/encounters", &encounters)
	require.Len(t, encounters, 1)
	assert.Equal(t, []string{"slime"}, encounters[0].Enemies)
}

func TestWebSocket_UnknownEncounter(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/ws?encounter=dragon")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocket_Encounter(t *testing.T) {
	srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?encounter=slime&seed=5"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	next := func(typ string) skirmishnet.ServerMessage {
		t.Helper()
		for {
			var msg skirmishnet.ServerMessage
			require.NoError(t, wsjson.Read(ctx, conn, &msg))
			if msg.Type == typ {
				return msg
			}
		}
	}

	state := next("state")
	require.Len(t, state.State.Hand, 5)
	assert.Equal(t, "slime", state.State.Encounter)

	require.NoError(t, wsjson.Write(ctx, conn, skirmishnet.ClientMessage{Type: "end_turn"}))
	res := next("result")
	assert.Equal(t, "Accepted", res.Result)
	assert.Equal(t, 18, res.State.Player.Health)
	assert.Equal(t, 2, res.State.Turn)

	require.NoError(t, wsjson.Write(ctx, conn, skirmishnet.ClientMessage{Type: "select_card", Card: res.State.Hand[0].ID}))
	assert.Equal(t, "Accepted", next("result").Result)
	require.NoError(t, wsjson.Write(ctx, conn, skirmishnet.ClientMessage{Type: "choose_target", Target: "e1"}))
	res = next("result")
	assert.Equal(t, "Accepted", res.Result)
	assert.Equal(t, 0, res.State.Enemies[0].Health)

	over := next("game_over")
	assert.Equal(t, "Victory", over.Result)
}
