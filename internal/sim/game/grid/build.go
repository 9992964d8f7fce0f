package grid

import "lineae.dev/internal/sim/game/model"

// Blank lays out an empty board for r: every tile in the supply, locks in their
// starting states, submersibles on their start cells, a full cube supply and no
// players. Deposit types are left for the game setup to draw.
func Blank(r model.Rules) *model.State {
	r.ApplyDefaults()
	s := &model.State{
		Width:     r.Width(),
		Height:    r.Height,
		WaterRows: r.WaterRows,
		TileCols:  r.TileColumns,
		CellsPer:  r.CellsPerTile,
	}
	s.Cells = make([]model.Cell, s.Width*s.Height)
	s.Tiles = make([]model.WaterTile, r.TotalTiles())
	for i := range s.Tiles {
		s.Tiles[i].ID = i
	}
	for _, l := range r.Locks {
		s.Locks = append(s.Locks, model.Lock{Boundary: l.Boundary, Open: l.Open})
	}

	dw := r.DepositWidth()
	for d := 0; d < r.Deposits; d++ {
		dep := model.Deposit{Index: d, Markers: map[int]int{}, TopHolder: -1}
		for _, off := range r.DissolveOffset {
			dep.DissolveCols = append(dep.DissolveCols, d*dw+off)
		}
		s.Deposits = append(s.Deposits, dep)
	}

	s.Atmosphere = make([]int, s.TileCols)
	s.Supply = model.Cubes{}
	s.CubeTotals = model.Cubes{}
	for _, res := range model.Resources {
		s.Supply[res] = r.CubesPerColor
		s.CubeTotals[res] = r.CubesPerColor
	}

	for _, def := range r.Submersibles {
		s.Submersibles = append(s.Submersibles, model.Submersible{
			ID:       def.ID,
			Pos:      def.Start,
			Start:    def.Start,
			Capacity: r.SubmersibleCapacity,
			Hold:     model.Cubes{},
		})
	}
	g := New(s)
	for _, sub := range s.Submersibles {
		if g.InBounds(sub.Pos) {
			s.Cells[g.idx(sub.Pos)].Sub = sub.ID
		}
	}
	s.Round.Placements = map[string][]model.Placement{}
	return s
}
