package game

import (
	"fmt"
	"math/rand"

	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/water"
)

// setup builds the opening position. Every random draw comes from cfg.Seed, in
// a fixed order: deposits, rockets, bonus deck.
func setup(cfg Config) (*model.State, error) {
	r := cfg.Rules
	rng := rand.New(rand.NewSource(cfg.Seed))
	s := grid.Blank(r)
	g := grid.New(s)

	if err := water.Prime(g); err != nil {
		return nil, err
	}
	drawDeposits(s, rng)
	s.Rockets, s.RocketDeck = drawRockets(r, rng)
	drawBonusCards(s, r, rng)

	workers := r.StartingWorkers(len(cfg.Players))
	for i, name := range cfg.Players {
		p := model.Player{
			Seat:       i,
			Name:       name,
			Money:      r.StartMoney,
			Workers:    workers,
			Available:  workers,
			HireSupply: r.MaxWorkers - workers,
			Vessel:     cfg.VesselColumns[i],
			Bay:        model.Cubes{},
		}
		// The deposit under the vessel's column pays one setup cube.
		dep := p.Vessel * r.CellsPerTile / r.DepositWidth()
		if dep < len(s.Deposits) {
			if c := s.Deposits[dep].Setup; c != "" && s.Supply.Take(c, 1) {
				p.Bay.Add(c, 1)
			}
		}
		if p.HireSupply < 0 {
			p.HireSupply = 0
		}
		s.Players = append(s.Players, p)
	}

	if _, err := dissolve(g); err != nil {
		return nil, err
	}

	s.Round = model.Round{
		Number:     1,
		Jupiter:    s.TileCols - 1,
		Leader:     0,
		Marker:     0,
		Current:    -1,
		Placements: map[string][]model.Placement{},
	}
	tx := &txn{s: s, g: g, r: r, seat: -1}
	startSunlight(tx)

	if err := g.Check(); err != nil {
		return nil, fmt.Errorf("opening position: %w", err)
	}
	return s, nil
}

// drawDeposits gives each deposit a distinct primary color and draws the other
// three colors freely.
func drawDeposits(s *model.State, rng *rand.Rand) {
	colors := append([]model.Resource(nil), model.Resources...)
	rng.Shuffle(len(colors), func(i, j int) { colors[i], colors[j] = colors[j], colors[i] })
	pick := func(not model.Resource) model.Resource {
		for {
			c := model.Resources[rng.Intn(len(model.Resources))]
			if c != not {
				return c
			}
		}
	}
	for i := range s.Deposits {
		d := &s.Deposits[i]
		d.Primary = colors[i%len(colors)]
		d.Secondary = pick(d.Primary)
		d.Reward = model.Resources[rng.Intn(len(model.Resources))]
		d.Setup = model.Resources[rng.Intn(len(model.Resources))]
	}
}

// drawRockets puts one rocket on each tile column and deals r.RocketDeckExtra
// more into the deck. Each rocket wants r.RocketSlots random colors plus one
// wildcard.
func drawRockets(r model.Rules, rng *rand.Rand) ([]model.Rocket, []model.Rocket) {
	total := r.TileColumns + r.RocketDeckExtra
	all := make([]model.Rocket, total)
	for i := range all {
		rk := model.Rocket{
			ID:   fmt.Sprintf("R%02d", i+1),
			Name: fmt.Sprintf("Rocket %d", i+1),
			Col:  -1,
		}
		for k := 0; k < r.RocketSlots; k++ {
			rk.Slots = append(rk.Slots, model.RocketSlot{Want: model.Resources[rng.Intn(len(model.Resources))]})
		}
		rk.Slots = append(rk.Slots, model.RocketSlot{})
		all[i] = rk
	}
	for i := 0; i < r.TileColumns; i++ {
		all[i].Col = i
	}
	return all[:r.TileColumns], append([]model.Rocket(nil), all[r.TileColumns:]...)
}

func drawBonusCards(s *model.State, r model.Rules, rng *rand.Rand) {
	s.BasicSlots = append([]model.BonusCard(nil), r.BasicSlots...)
	deck := append([]model.BonusCard(nil), r.BonusCards...)
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	n := r.BonusRowSize
	if n > len(deck) {
		n = len(deck)
	}
	s.BonusRow = deck[:n:n]
	s.BonusDeck = deck[n:]
}
