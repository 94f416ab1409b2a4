package game

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CatalogFile represents the top-level YAML structure.
type CatalogFile struct {
	Player     PlayerEntry      `yaml:"player"`
	Cards      []CardEntry      `yaml:"cards"`
	Enemies    []EnemyEntry     `yaml:"enemies"`
	Encounters []EncounterEntry `yaml:"encounters"`
}

// PlayerEntry is the player's base data in the YAML file.
type PlayerEntry struct {
	MaxHealth  int         `yaml:"max_health"`
	BaseEnergy int         `yaml:"base_energy"`
	HandSize   int         `yaml:"hand_size"`
	Deck       []DeckEntry `yaml:"deck"`
}

// DeckEntry represents a card and its count in the starting deck.
type DeckEntry struct {
	Card  string `yaml:"card"`
	Count int    `yaml:"count"`
}

// EffectEntry is one effect in the YAML file.
type EffectEntry struct {
	Kind      string `yaml:"kind"`
	Magnitude int    `yaml:"magnitude"`
	Duration  int    `yaml:"duration,omitempty"`
}

// CardEntry is a card definition in the YAML file.
type CardEntry struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"`
	Cost        int           `yaml:"cost"`
	Target      string        `yaml:"target"`
	Description string        `yaml:"description"`
	Effects     []EffectEntry `yaml:"effects"`
}

// ActionEntry is one enemy pattern step in the YAML file.
type ActionEntry struct {
	Name    string        `yaml:"name"`
	Intent  string        `yaml:"intent"`
	Icon    string        `yaml:"icon"`
	Target  string        `yaml:"target"` // "player" (default) or "self"
	Effects []EffectEntry `yaml:"effects"`
}

// EnemyEntry is an enemy template in the YAML file.
type EnemyEntry struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	MaxHealth int           `yaml:"max_health"`
	Sprite    string        `yaml:"sprite"`
	Pattern   []ActionEntry `yaml:"pattern"`
}

// EncounterEntry lists enemy template ids in registration order.
type EncounterEntry struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Enemies []string `yaml:"enemies"`
}

// Catalog holds every immutable definition, loaded once.
type Catalog struct {
	Player     *PlayerBase
	cards      map[string]*Card
	enemies    map[string]*EnemyTemplate
	encounters map[string]*EncounterDef
}

// DefaultCatalog parses the catalog embedded in the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}

// LoadCatalog reads a catalog file. An empty path selects the embedded default.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cat, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalog parses and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cf CatalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog YAML: %w", err)
	}
	return buildCatalog(cf)
}

func buildCatalog(cf CatalogFile) (*Catalog, error) {
	cat := &Catalog{
		cards:      make(map[string]*Card),
		enemies:    make(map[string]*EnemyTemplate),
		encounters: make(map[string]*EncounterDef),
	}

	for _, ce := range cf.Cards {
		card, err := buildCard(ce)
		if err != nil {
			return nil, err
		}
		if _, dup := cat.cards[card.ID]; dup {
			return nil, integrityf("duplicate card id %q", card.ID)
		}
		cat.cards[card.ID] = card
	}

	for _, ee := range cf.Enemies {
		tmpl, err := buildEnemy(ee)
		if err != nil {
			return nil, err
		}
		if _, dup := cat.enemies[tmpl.ID]; dup {
			return nil, integrityf("duplicate enemy id %q", tmpl.ID)
		}
		cat.enemies[tmpl.ID] = tmpl
	}

	for _, en := range cf.Encounters {
		if en.ID == "" {
			return nil, integrityf("encounter without id")
		}
		if _, dup := cat.encounters[en.ID]; dup {
			return nil, integrityf("duplicate encounter id %q", en.ID)
		}
		if len(en.Enemies) == 0 {
			return nil, integrityf("encounter %q has no enemies", en.ID)
		}
		def := &EncounterDef{ID: en.ID, Name: en.Name}
		if def.Name == "" {
			def.Name = en.ID
		}
		for _, id := range en.Enemies {
			tmpl, ok := cat.enemies[id]
			if !ok {
				return nil, integrityf("encounter %q references unknown enemy %q", en.ID, id)
			}
			def.Enemies = append(def.Enemies, tmpl)
		}
		cat.encounters[def.ID] = def
	}

	player, err := cat.buildPlayer(cf.Player)
	if err != nil {
		return nil, err
	}
	cat.Player = player

	return cat, nil
}

func (cat *Catalog) buildPlayer(pe PlayerEntry) (*PlayerBase, error) {
	if pe.MaxHealth <= 0 {
		return nil, integrityf("player max_health must be positive, got %d", pe.MaxHealth)
	}
	if pe.BaseEnergy < 0 {
		return nil, integrityf("player base_energy must be non-negative, got %d", pe.BaseEnergy)
	}
	if pe.HandSize < 0 {
		return nil, integrityf("player hand_size must be non-negative, got %d", pe.HandSize)
	}
	pb := &PlayerBase{
		MaxHealth:  pe.MaxHealth,
		BaseEnergy: pe.BaseEnergy,
		HandSize:   pe.HandSize,
	}
	for _, entry := range pe.Deck {
		card, ok := cat.cards[entry.Card]
		if !ok {
			return nil, integrityf("deck references unknown card %q", entry.Card)
		}
		if entry.Count < 0 {
			return nil, integrityf("deck count for %q is negative", entry.Card)
		}
		for i := 0; i < entry.Count; i++ {
			pb.Deck = append(pb.Deck, card)
		}
	}
	return pb, nil
}

func buildCard(ce CardEntry) (*Card, error) {
	if ce.ID == "" {
		return nil, integrityf("card without id")
	}
	if ce.Cost < 0 {
		return nil, integrityf("card %q has negative cost %d", ce.ID, ce.Cost)
	}
	ct, err := ParseCardType(ce.Type)
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", ce.ID, err)
	}
	tk, err := ParseTargetKind(ce.Target)
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", ce.ID, err)
	}
	effects, err := buildEffects(ce.Effects)
	if err != nil {
		return nil, fmt.Errorf("card %q: %w", ce.ID, err)
	}
	name := ce.Name
	if name == "" {
		name = ce.ID
	}
	return &Card{
		ID:          ce.ID,
		Name:        name,
		Description: ce.Description,
		Type:        ct,
		Cost:        ce.Cost,
		Target:      tk,
		Effects:     effects,
	}, nil
}

func buildEnemy(ee EnemyEntry) (*EnemyTemplate, error) {
	if ee.ID == "" {
		return nil, integrityf("enemy without id")
	}
	if ee.MaxHealth <= 0 {
		return nil, integrityf("enemy %q max_health must be positive, got %d", ee.ID, ee.MaxHealth)
	}
	if len(ee.Pattern) == 0 {
		return nil, integrityf("enemy %q has an empty pattern", ee.ID)
	}
	tmpl := &EnemyTemplate{
		ID:        ee.ID,
		Name:      ee.Name,
		MaxHealth: ee.MaxHealth,
		Sprite:    ee.Sprite,
	}
	if tmpl.Name == "" {
		tmpl.Name = ee.ID
	}
	for i, ae := range ee.Pattern {
		intent, err := ParseIntentKind(ae.Intent)
		if err != nil {
			return nil, fmt.Errorf("enemy %q action %d: %w", ee.ID, i, err)
		}
		effects, err := buildEffects(ae.Effects)
		if err != nil {
			return nil, fmt.Errorf("enemy %q action %d: %w", ee.ID, i, err)
		}
		var onSelf bool
		switch strings.ToLower(ae.Target) {
		case "", "player":
		case "self":
			onSelf = true
		default:
			return nil, integrityf("enemy %q action %d: unknown target %q", ee.ID, i, ae.Target)
		}
		tmpl.Pattern = append(tmpl.Pattern, &EnemyAction{
			Name:    ae.Name,
			Intent:  intent,
			Icon:    ae.Icon,
			OnSelf:  onSelf,
			Effects: effects,
		})
	}
	return tmpl, nil
}

func buildEffects(entries []EffectEntry) ([]EffectSpec, error) {
	effects := make([]EffectSpec, 0, len(entries))
	for _, e := range entries {
		kind, err := ParseEffectKind(e.Kind)
		if err != nil {
			return nil, err
		}
		if e.Magnitude < 0 {
			return nil, integrityf("%s magnitude must be non-negative, got %d", kind, e.Magnitude)
		}
		effects = append(effects, EffectSpec{Kind: kind, Magnitude: e.Magnitude, Duration: e.Duration})
	}
	return effects, nil
}

func integrityf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDataIntegrity, fmt.Sprintf(format, args...))
}

// normalizeKind folds "SingleEnemy", "single_enemy" and "single-enemy" together.
func normalizeKind(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", "")
	return strings.ReplaceAll(s, "-", "")
}

// ParseEffectKind parses an effect kind name.
func ParseEffectKind(s string) (EffectKind, error) {
	switch normalizeKind(s) {
	case "damage":
		return EffectDamage, nil
	case "block":
		return EffectBlock, nil
	case "draw":
		return EffectDraw, nil
	}
	return 0, integrityf("unknown effect kind %q", s)
}

// ParseTargetKind parses a card target kind name.
func ParseTargetKind(s string) (TargetKind, error) {
	switch normalizeKind(s) {
	case "singleenemy", "enemy":
		return TargetSingleEnemy, nil
	case "allenemies":
		return TargetAllEnemies, nil
	case "self", "player":
		return TargetSelf, nil
	}
	return 0, integrityf("unknown target kind %q", s)
}

// ParseCardType parses a card type name. Empty means Attack.
func ParseCardType(s string) (CardType, error) {
	switch normalizeKind(s) {
	case "attack", "":
		return CardTypeAttack, nil
	case "skill":
		return CardTypeSkill, nil
	case "power":
		return CardTypePower, nil
	}
	return 0, integrityf("unknown card type %q", s)
}

// ParseIntentKind parses an intent kind name. Empty means Attack.
func ParseIntentKind(s string) (IntentKind, error) {
	switch normalizeKind(s) {
	case "attack", "":
		return IntentAttack, nil
	case "defend":
		return IntentDefend, nil
	case "buff":
		return IntentBuff, nil
	case "debuff":
		return IntentDebuff, nil
	}
	return 0, integrityf("unknown intent kind %q", s)
}

// Card looks up a card definition by id.
func (cat *Catalog) Card(id string) (*Card, bool) {
	c, ok := cat.cards[id]
	return c, ok
}

// Enemy looks up an enemy template by id.
func (cat *Catalog) Enemy(id string) (*EnemyTemplate, bool) {
	e, ok := cat.enemies[id]
	return e, ok
}

// Encounter looks up an encounter definition by id.
func (cat *Catalog) Encounter(id string) (*EncounterDef, bool) {
	e, ok := cat.encounters[id]
	return e, ok
}

// Cards returns all card definitions sorted by id.
func (cat *Catalog) Cards() []*Card {
	out := make([]*Card, 0, len(cat.cards))
	for _, c := range cat.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Enemies returns all enemy templates sorted by id.
func (cat *Catalog) Enemies() []*EnemyTemplate {
	out := make([]*EnemyTemplate, 0, len(cat.enemies))
	for _, e := range cat.enemies {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Encounters returns all encounter definitions sorted by id.
func (cat *Catalog) Encounters() []*EncounterDef {
	out := make([]*EncounterDef, 0, len(cat.encounters))
	for _, e := range cat.encounters {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
