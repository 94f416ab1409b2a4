package mcp

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/peterkuimelis/skirmish/internal/game"
	"go.uber.org/zap"
)

// Tools serves the encounter tools. One session is active at a time per
// stdio process.
type Tools struct {
	catalog *game.Catalog
	diag    *zap.Logger

	mu      sync.Mutex
	session *GameSession
}

// NewTools creates the tool set over a catalog.
func NewTools(cat *game.Catalog, diag *zap.Logger) *Tools {
	if diag == nil {
		diag = zap.NewNop()
	}
	return &Tools{catalog: cat, diag: diag}
}

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer, t *Tools) {
	s.AddTool(listEncountersTool(), t.handleListEncounters)
	s.AddTool(startEncounterTool(), t.handleStartEncounter)
	s.AddTool(selectCardTool(), t.handleSelectCard)
	s.AddTool(chooseTargetTool(), t.handleChooseTarget)
	s.AddTool(cancelTargetingTool(), t.handleCancelTargeting)
	s.AddTool(endTurnTool(), t.handleEndTurn)
	s.AddTool(getStateTool(), t.handleGetState)
}

// --- Tool definitions ---

func listEncountersTool() mcp.Tool {
	return mcp.NewTool("list_encounters",
		mcp.WithDescription("List the encounters that start_encounter accepts, with their enemies."),
	)
}

func startEncounterTool() mcp.Tool {
	return mcp.NewTool("start_encounter",
		mcp.WithDescription("Start a new card battle encounter. Returns the opening state: your hand, energy, "+
			"and every enemy with its announced intent. Play cards with select_card then choose_target."),
		mcp.WithString("encounter", mcp.Required(), mcp.Description("Encounter id from list_encounters (e.g. 'cultist')")),
		mcp.WithNumber("seed", mcp.Description("Shuffle seed for a reproducible game; 0 or omitted picks one")),
		mcp.WithBoolean("restart", mcp.Description("Abandon a running encounter and start over")),
	)
}

func selectCardTool() mcp.Tool {
	return mcp.NewTool("select_card",
		mcp.WithDescription("Select a card from your hand by its id. Requires enough energy and your turn. "+
			"On success the battle waits for choose_target."),
		mcp.WithNumber("card", mcp.Required(), mcp.Description("Hand card id as shown in state.hand[].id")),
	)
}

func chooseTargetTool() mcp.Tool {
	return mcp.NewTool("choose_target",
		mcp.WithDescription("Play the selected card on a target. Attacks take an enemy id, self cards take 'player'. "+
			"An illegal target cancels the selection. The response carries every event the card caused."),
		mcp.WithString("target", mcp.Required(), mcp.Description("Enemy id such as 'e1', or 'player'")),
	)
}

func cancelTargetingTool() mcp.Tool {
	return mcp.NewTool("cancel_targeting",
		mcp.WithDescription("Put the selected card back in your hand. Does nothing when no card is selected."),
	)
}

func endTurnTool() mcp.Tool {
	return mcp.NewTool("end_turn",
		mcp.WithDescription("End your turn: your hand is discarded, every enemy acts, then a new hand is drawn. "+
			"A selected card is put back first."),
	)
}

func getStateTool() mcp.Tool {
	return mcp.NewTool("get_state",
		mcp.WithDescription("Get the current state and any events not yet returned. Read-only."),
	)
}

// --- Tool handlers ---

// EncounterInfo describes an encounter for list_encounters.
type EncounterInfo struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Enemies []string `json:"enemies"`
}

func (t *Tools) handleListEncounters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var infos []EncounterInfo
	for _, def := range t.catalog.Encounters() {
		info := EncounterInfo{ID: def.ID, Name: def.Name}
		for _, e := range def.Enemies {
			info.Enemies = append(info.Enemies, e.Name)
		}
		infos = append(infos, info)
	}
	data, err := json.Marshal(infos)
	if err != nil {
		return mcp.NewToolResultErrorf("marshal encounters: %v", err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (t *Tools) handleStartEncounter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.session != nil && !t.session.Over() && !request.GetBool("restart", false) {
		return mcp.NewToolResultError("An encounter is already running. Finish it or pass restart=true."), nil
	}

	encounter := request.GetString("encounter", "")
	if encounter == "" {
		return mcp.NewToolResultError("encounter is required"), nil
	}
	seed := int64(request.GetInt("seed", 0))

	sess, err := NewGameSession(ctx, t.catalog, encounter, seed, t.diag)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to start encounter: %v", err), nil
	}
	t.session = sess
	t.diag.Info("mcp encounter started", zap.String("encounter", encounter), zap.String("id", sess.ID()))

	return mcp.NewToolResultText(respondJSON(sess.response())), nil
}

// withSession runs fn against the active session.
func (t *Tools) withSession(fn func(*GameSession) *ToolResponse) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return mcp.NewToolResultError("No encounter is running. Use start_encounter first."), nil
	}
	return mcp.NewToolResultText(respondJSON(fn(t.session))), nil
}

func (t *Tools) handleSelectCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	card := request.GetInt("card", -1)
	if card < 0 {
		return mcp.NewToolResultError("card must be a hand card id"), nil
	}
	return t.withSession(func(s *GameSession) *ToolResponse {
		return s.apply(ctx, game.Command{Kind: game.CmdSelectCard, Card: card})
	})
}

func (t *Tools) handleChooseTarget(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := game.ParseTargetRef(request.GetString("target", ""))
	if err != nil {
		return mcp.NewToolResultErrorf("Invalid target: %v", err), nil
	}
	return t.withSession(func(s *GameSession) *ToolResponse {
		return s.apply(ctx, game.Command{Kind: game.CmdChooseTarget, Target: ref})
	})
}

func (t *Tools) handleCancelTargeting(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.withSession(func(s *GameSession) *ToolResponse {
		return s.apply(ctx, game.Command{Kind: game.CmdCancel})
	})
}

func (t *Tools) handleEndTurn(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.withSession(func(s *GameSession) *ToolResponse {
		return s.apply(ctx, game.Command{Kind: game.CmdEndTurn})
	})
}

func (t *Tools) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.withSession(func(s *GameSession) *ToolResponse {
		return s.response()
	})
}
