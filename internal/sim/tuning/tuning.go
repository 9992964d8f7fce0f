package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"lineae.dev/internal/sim/game/model"
)

// Tuning is the on-disk shape of configs/tuning.yaml. Zero values fall back to
// the standard board when converted with Rules.
type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	// SnapshotEvery is the number of committed submissions between snapshots.
	SnapshotEvery int `yaml:"snapshot_every"`

	Board   Board   `yaml:"board"`
	Players Players `yaml:"players"`
	Economy Economy `yaml:"economy"`
	Energy  Energy  `yaml:"energy"`
	Rockets Rockets `yaml:"rockets"`
	Cards   Cards   `yaml:"cards"`

	MaxRounds       int    `yaml:"max_rounds"`
	ExcavationTiers []Tier `yaml:"excavation_tiers"`
}

type Board struct {
	TileColumns  int    `yaml:"tile_columns"`
	CellsPerTile int    `yaml:"cells_per_tile"`
	Height       int    `yaml:"height"`
	WaterRows    int    `yaml:"water_rows"`
	Locks        []Lock `yaml:"locks"`
	Submersibles []Sub  `yaml:"submersibles"`
	SubCapacity  int    `yaml:"submersible_capacity"`
	Deposits     int    `yaml:"deposits"`
	DissolveAt   []int  `yaml:"dissolve_offsets"`
}

type Lock struct {
	Boundary int  `yaml:"boundary"`
	Open     bool `yaml:"open"`
}

type Sub struct {
	ID string `yaml:"id"`
	X  int    `yaml:"x"`
	Y  int    `yaml:"y"`
}

type Players struct {
	Min              int `yaml:"min"`
	Max              int `yaml:"max"`
	StartMoney       int `yaml:"start_money"`
	WorkersSmallGame int `yaml:"workers_small_game"`
	WorkersLargeGame int `yaml:"workers_large_game"`
	LargeGameFrom    int `yaml:"large_game_from"`
	MaxWorkers       int `yaml:"max_workers"`
}

type Economy struct {
	HireCosts     []int `yaml:"hire_costs"`
	Income        int   `yaml:"income"`
	DockPerCube   int   `yaml:"dock_cost_per_cube"`
	PickupReward  int   `yaml:"pickup_reward"`
	CubesPerColor int   `yaml:"cubes_per_color"`
	MoneyPerEndVP int   `yaml:"money_per_end_vp"`
}

type Energy struct {
	Max              int `yaml:"max_electricity"`
	Sunlight         int `yaml:"sunlight_grant"`
	PollutionPenalty int `yaml:"pollution_penalty"`
	Diesel           int `yaml:"diesel_grant"`
	AtmosphereCap    int `yaml:"atmosphere_capacity"`
}

type Rockets struct {
	Slots        int   `yaml:"slots"`
	DeckExtra    int   `yaml:"deck_extra"`
	LoadVP       []int `yaml:"load_vp"`
	LaunchTarget int   `yaml:"launch_target"`
}

type Cards struct {
	MaxHeld       int    `yaml:"max_held"`
	RowSize       int    `yaml:"row_size"`
	PromoteRounds []int  `yaml:"promote_rounds"`
	Basic         []Card `yaml:"basic"`
	Deck          []Card `yaml:"deck"`
}

type Card struct {
	ID     string `yaml:"id"`
	Number int    `yaml:"number"`
	Name   string `yaml:"name"`
	Effect string `yaml:"effect"`
	Amount int    `yaml:"amount"`
	Cost   int    `yaml:"cost"`
}

type Tier struct {
	VP        int  `yaml:"vp"`
	AnyCube   bool `yaml:"any_cube"`
	BonusCard bool `yaml:"bonus_card"`
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if _, err := t.Rules(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// Defaults is the standard board with nothing overridden.
func Defaults() Tuning {
	return Tuning{ProtocolVersion: "1.0", SnapshotEvery: 50}
}

// Rules converts the file into engine rules. Missing keys take the standard
// values.
func (t Tuning) Rules() (model.Rules, error) {
	var r model.Rules
	b := t.Board
	r.TileColumns = b.TileColumns
	r.CellsPerTile = b.CellsPerTile
	r.Height = b.Height
	r.WaterRows = b.WaterRows
	for _, l := range b.Locks {
		r.Locks = append(r.Locks, model.LockDef{Boundary: l.Boundary, Open: l.Open})
	}
	for _, s := range b.Submersibles {
		r.Submersibles = append(r.Submersibles, model.SubmersibleDef{ID: s.ID, Start: model.Coord{X: s.X, Y: s.Y}})
	}
	r.SubmersibleCapacity = b.SubCapacity
	r.Deposits = b.Deposits
	r.DissolveOffset = b.DissolveAt

	p := t.Players
	r.MinPlayers, r.MaxPlayers = p.Min, p.Max
	r.StartMoney = p.StartMoney
	r.WorkersSmallGame, r.WorkersLargeGame = p.WorkersSmallGame, p.WorkersLargeGame
	r.LargeGamePlayers = p.LargeGameFrom
	r.MaxWorkers = p.MaxWorkers

	e := t.Economy
	r.HireCosts = e.HireCosts
	r.IncomeAmount = e.Income
	r.DockCostPerCube = e.DockPerCube
	r.PickupReward = e.PickupReward
	r.CubesPerColor = e.CubesPerColor
	r.MoneyPerEndVP = e.MoneyPerEndVP

	en := t.Energy
	r.MaxElectricity = en.Max
	r.SunlightGrant = en.Sunlight
	r.PollutionPenalty = en.PollutionPenalty
	r.DieselGrant = en.Diesel
	r.AtmosphereCap = en.AtmosphereCap

	r.RocketSlots = t.Rockets.Slots
	r.RocketDeckExtra = t.Rockets.DeckExtra
	r.RocketLoadVP = t.Rockets.LoadVP
	r.LaunchTarget = t.Rockets.LaunchTarget

	r.MaxBonusCards = t.Cards.MaxHeld
	r.BonusRowSize = t.Cards.RowSize
	r.PromoteRounds = t.Cards.PromoteRounds
	var err error
	if r.BasicSlots, err = convertCards(t.Cards.Basic); err != nil {
		return r, fmt.Errorf("basic slots: %w", err)
	}
	if r.BonusCards, err = convertCards(t.Cards.Deck); err != nil {
		return r, fmt.Errorf("bonus deck: %w", err)
	}

	r.MaxRounds = t.MaxRounds
	for _, tier := range t.ExcavationTiers {
		r.ExcavationTiers = append(r.ExcavationTiers, model.TierDef{VP: tier.VP, AnyCube: tier.AnyCube, BonusCard: tier.BonusCard})
	}

	r.ApplyDefaults()
	return r, nil
}

var effectKinds = map[string]bool{
	model.EffectMoney:       true,
	model.EffectElectricity: true,
	model.EffectVP:          true,
	model.EffectCube:        true,
	model.EffectBuyCube:     true,
}

func convertCards(in []Card) ([]model.BonusCard, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]model.BonusCard, 0, len(in))
	seen := map[string]bool{}
	for _, c := range in {
		if c.ID == "" || seen[c.ID] {
			return nil, fmt.Errorf("card id %q empty or duplicated", c.ID)
		}
		seen[c.ID] = true
		if !effectKinds[c.Effect] {
			return nil, fmt.Errorf("card %s: unknown effect %q", c.ID, c.Effect)
		}
		out = append(out, model.BonusCard{
			ID:     c.ID,
			Number: c.Number,
			Name:   c.Name,
			Effect: model.Effect{Kind: c.Effect, Amount: c.Amount, Cost: c.Cost},
		})
	}
	return out, nil
}
