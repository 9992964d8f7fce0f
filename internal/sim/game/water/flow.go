// Package water runs the tile-sliding cascade that follows a lock toggle.
//
// Tiles stack from the bottom of the water layer. A sliding tile travels right
// along its row while the next slot is empty and no closed lock stands in the
// way, drops onto the first lower stack it crosses, and leaves the board past
// the last column. Every tile moves at most once per toggle.
package water

import (
	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
)

type TileMove struct {
	Tile int         `json:"tile"`
	From model.Coord `json:"from"`
	To   model.Coord `json:"to"`
}

// Report describes everything one toggle changed.
type Report struct {
	Boundary int        `json:"boundary"`
	Open     bool       `json:"open"`
	Added    []int      `json:"added,omitempty"`
	Moves    []TileMove `json:"moves,omitempty"`
	Exited   []int      `json:"exited,omitempty"`
	// Returned lists submersibles sent back to their start cells.
	Returned []string `json:"returned,omitempty"`
	// Discarded lists cubes that went back to supply (carried off the board or
	// evicted from a landing cell).
	Discarded []model.Resource `json:"discarded,omitempty"`
}

// Toggle flips the lock on boundary and settles the water.
func Toggle(g *grid.Grid, boundary int) (Report, error) {
	s := g.State()
	l := s.Lock(boundary)
	if l == nil {
		return Report{}, rules.Invalid("no lock at boundary %d", boundary)
	}
	open := !l.Open
	if err := g.SetLock(boundary, open); err != nil {
		return Report{}, err
	}
	rep := Report{Boundary: boundary, Open: open}
	f := &flow{g: g, moved: map[int]bool{}, rep: &rep}
	if !open {
		if err := f.fill(); err != nil {
			return rep, err
		}
	}
	if err := f.cascade(); err != nil {
		return rep, err
	}
	return rep, nil
}

// Prime fills every tile column left of the first closed lock to full height.
func Prime(g *grid.Grid) error {
	s := g.State()
	for col := 0; col < s.TileCols; col++ {
		for row := s.WaterRows - 1 - g.ColumnHeight(col); row >= 0; row-- {
			if _, err := g.AddTile(col, row); err != nil {
				return err
			}
		}
		if !g.Passable(col) {
			return nil
		}
	}
	return nil
}

type flow struct {
	g     *grid.Grid
	moved map[int]bool
	rep   *Report
}

func (f *flow) fill() error {
	s := f.g.State()
	limit := len(s.Tiles) * (s.TileCols + 1)
	for i := 0; i < limit; i++ {
		h := f.g.ColumnHeight(0)
		if h >= s.WaterRows || f.g.TileSupply() == 0 {
			return nil
		}
		id, err := f.g.AddTile(0, s.WaterRows-1-h)
		if err != nil {
			return err
		}
		f.rep.Added = append(f.rep.Added, id)
		if _, err := f.slide(id); err != nil {
			return err
		}
		f.moved[id] = true
	}
	return nil
}

func (f *flow) cascade() error {
	s := f.g.State()
	for {
		progressed := false
		for col := 0; col < s.TileCols; col++ {
			id := f.g.TopTile(col)
			if id < 0 || f.moved[id] {
				continue
			}
			ok, err := f.slide(id)
			if err != nil {
				return err
			}
			if ok {
				f.moved[id] = true
				progressed = true
			}
		}
		if !progressed {
			return nil
		}
	}
}

// slide moves one tile as far as it goes and reports whether it moved.
func (f *flow) slide(id int) (bool, error) {
	s := f.g.State()
	t := s.Tiles[id]
	col, row := t.Col, t.Row
	for {
		if !f.g.Passable(col) {
			break
		}
		next := col + 1
		if next >= s.TileCols {
			return true, f.exit(id)
		}
		if f.g.TileAt(next, row) >= 0 {
			break
		}
		landing := s.WaterRows - 1 - f.g.ColumnHeight(next)
		col = next
		if landing > row {
			row = landing
			break
		}
	}
	if col == t.Col && row == t.Row {
		return false, nil
	}
	from := model.Coord{X: t.Col, Y: t.Row}
	if err := f.g.MoveTile(id, col, row); err != nil {
		return false, err
	}
	f.rep.Moves = append(f.rep.Moves, TileMove{Tile: id, From: from, To: model.Coord{X: col, Y: row}})
	return true, nil
}

func (f *flow) exit(id int) error {
	s := f.g.State()
	cubes, subs, err := f.g.RemoveTile(id)
	if err != nil {
		return err
	}
	f.rep.Exited = append(f.rep.Exited, id)
	for _, c := range cubes {
		s.Supply.Add(c, 1)
		f.rep.Discarded = append(f.rep.Discarded, c)
	}
	for _, sid := range subs {
		if err := f.returnSub(sid); err != nil {
			return err
		}
	}
	return nil
}

// returnSub sends a submersible carried off the board back to its start cell.
// When another submersible sits there, the first free navigable cell above it in
// the same column is used, then the first below.
func (f *flow) returnSub(id string) error {
	s := f.g.State()
	sub := s.Sub(id)
	if sub == nil {
		return rules.Invalid("unknown submersible %q", id)
	}
	land, ok := f.landing(sub.Start)
	if !ok {
		return rules.Invalid("no landing cell for submersible %s", id)
	}
	if c := f.g.Cell(land); c.Cube != "" {
		r, err := f.g.RemoveCube(land)
		if err != nil {
			return err
		}
		s.Supply.Add(r, 1)
		f.rep.Discarded = append(f.rep.Discarded, r)
	}
	// The submersible's old cell was cleared with its tile.
	sub.Pos = model.Coord{X: -1, Y: -1}
	if err := f.g.MoveSub(id, land); err != nil {
		return err
	}
	f.rep.Returned = append(f.rep.Returned, id)
	return nil
}

func (f *flow) landing(start model.Coord) (model.Coord, bool) {
	free := func(c model.Coord) bool {
		return f.g.Navigable(c) && f.g.Cell(c).Sub == ""
	}
	for y := start.Y; y >= 0; y-- {
		if c := (model.Coord{X: start.X, Y: y}); free(c) {
			return c, true
		}
	}
	for y := start.Y + 1; y < f.g.State().Height; y++ {
		if c := (model.Coord{X: start.X, Y: y}); free(c) {
			return c, true
		}
	}
	return model.Coord{}, false
}
