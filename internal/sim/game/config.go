package game

import (
	"fmt"

	"lineae.dev/internal/sim/game/model"
)

type Config struct {
	ID   string
	Seed int64

	// Players are seated in order; seat i is Players[i].
	Players []string
	// VesselColumns places each seat's vessel. If nil, vessels are spread evenly
	// across the board.
	VesselColumns []int

	Rules model.Rules
}

func (c *Config) applyDefaults() {
	if c.ID == "" {
		c.ID = "game"
	}
	c.Rules.ApplyDefaults()
	if c.VesselColumns == nil && len(c.Players) > 0 {
		c.VesselColumns = make([]int, len(c.Players))
		for i := range c.Players {
			c.VesselColumns[i] = i * c.Rules.TileColumns / len(c.Players)
		}
	}
}

func (c Config) validate() error {
	r := c.Rules
	if n := len(c.Players); n < r.MinPlayers || n > r.MaxPlayers {
		return fmt.Errorf("player count %d outside %d..%d", n, r.MinPlayers, r.MaxPlayers)
	}
	if len(c.VesselColumns) != len(c.Players) {
		return fmt.Errorf("vessel columns: got %d want %d", len(c.VesselColumns), len(c.Players))
	}
	for i, col := range c.VesselColumns {
		if col < 0 || col >= r.TileColumns {
			return fmt.Errorf("vessel column %d for seat %d out of range", col, i)
		}
	}
	if r.Width()%r.Deposits != 0 {
		return fmt.Errorf("board width %d does not split into %d deposits", r.Width(), r.Deposits)
	}
	if r.WaterRows >= r.Height {
		return fmt.Errorf("water rows %d leave no deep ocean in height %d", r.WaterRows, r.Height)
	}
	if len(r.ExcavationTiers) == 0 {
		return fmt.Errorf("excavation track has no tiers")
	}
	seen := map[string]bool{}
	for _, s := range r.Submersibles {
		if s.ID == "" || seen[s.ID] {
			return fmt.Errorf("submersible id %q empty or duplicated", s.ID)
		}
		seen[s.ID] = true
		if s.Start.X < 0 || s.Start.X >= r.Width() || s.Start.Y < r.WaterRows || s.Start.Y >= r.Height {
			return fmt.Errorf("submersible %s starts outside the deep ocean", s.ID)
		}
	}
	for _, l := range r.Locks {
		if l.Boundary < 0 || l.Boundary >= r.TileColumns-1 {
			return fmt.Errorf("lock boundary %d out of range", l.Boundary)
		}
	}
	return nil
}
