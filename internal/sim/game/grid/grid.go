// Package grid is the positional store of a game: cells, water tiles, locks,
// submersibles and vessels. Its mutators keep cell exclusivity intact and report
// rules.InvalidState when asked to break it; game legality is the caller's job.
package grid

import (
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
)

type Grid struct {
	s *model.State
}

func New(s *model.State) *Grid { return &Grid{s: s} }

func (g *Grid) State() *model.State { return g.s }

func (g *Grid) InBounds(c model.Coord) bool {
	return c.X >= 0 && c.X < g.s.Width && c.Y >= 0 && c.Y < g.s.Height
}

func (g *Grid) idx(c model.Coord) int { return c.Y*g.s.Width + c.X }

// Cell returns a copy of the cell at c; out-of-bounds cells read as empty.
func (g *Grid) Cell(c model.Coord) model.Cell {
	if !g.InBounds(c) {
		return model.Cell{}
	}
	return g.s.Cells[g.idx(c)]
}

// TileCol maps a cell column to its tile column.
func (g *Grid) TileCol(x int) int { return x / g.s.CellsPer }

// CellXs returns the cell columns covered by a tile column.
func (g *Grid) CellXs(col int) []int {
	out := make([]int, g.s.CellsPer)
	for i := range out {
		out[i] = col*g.s.CellsPer + i
	}
	return out
}

func (g *Grid) FloorY() int { return g.s.Height - 1 }

// TileAt returns the index of the tile covering (col,row), or -1.
func (g *Grid) TileAt(col, row int) int {
	for i, t := range g.s.Tiles {
		if t.OnBoard && t.Col == col && t.Row == row {
			return i
		}
	}
	return -1
}

// ColumnHeight is the number of tiles stacked in a tile column.
func (g *Grid) ColumnHeight(col int) int {
	n := 0
	for _, t := range g.s.Tiles {
		if t.OnBoard && t.Col == col {
			n++
		}
	}
	return n
}

// TopTile returns the topmost tile of a column, or -1.
func (g *Grid) TopTile(col int) int {
	best, bestRow := -1, g.s.WaterRows
	for i, t := range g.s.Tiles {
		if t.OnBoard && t.Col == col && t.Row < bestRow {
			best, bestRow = i, t.Row
		}
	}
	return best
}

// WaterLevel is the surface row of a tile column: the row of its top tile, or the
// first deep-ocean row when the column is dry.
func (g *Grid) WaterLevel(col int) int {
	return g.s.WaterRows - g.ColumnHeight(col)
}

func (g *Grid) TileSupply() int {
	n := 0
	for _, t := range g.s.Tiles {
		if !t.OnBoard {
			n++
		}
	}
	return n
}

// Navigable reports whether a submersible or cube may occupy c.
func (g *Grid) Navigable(c model.Coord) bool {
	if !g.InBounds(c) {
		return false
	}
	if c.Y >= g.s.WaterRows {
		return true
	}
	return g.TileAt(g.TileCol(c.X), c.Y) >= 0
}

// Passable reports whether water may cross from tile column col to col+1.
func (g *Grid) Passable(col int) bool {
	if l := g.s.Lock(col); l != nil {
		return l.Open
	}
	return true
}

// SurfaceCell reports whether c is the surface cell of its tile column.
func (g *Grid) SurfaceCell(c model.Coord) bool {
	return g.InBounds(c) && c.Y == g.WaterLevel(g.TileCol(c.X))
}

func (g *Grid) PlaceCube(c model.Coord, r model.Resource) error {
	if !g.Navigable(c) {
		return rules.Invalid("cube at dry cell (%d,%d)", c.X, c.Y)
	}
	cell := &g.s.Cells[g.idx(c)]
	if cell.Cube != "" {
		return rules.Invalid("cell (%d,%d) already holds a cube", c.X, c.Y)
	}
	cell.Cube = r
	return nil
}

func (g *Grid) RemoveCube(c model.Coord) (model.Resource, error) {
	if !g.InBounds(c) {
		return "", rules.Invalid("cell (%d,%d) out of bounds", c.X, c.Y)
	}
	cell := &g.s.Cells[g.idx(c)]
	if cell.Cube == "" {
		return "", rules.Invalid("cell (%d,%d) holds no cube", c.X, c.Y)
	}
	r := cell.Cube
	cell.Cube = ""
	return r, nil
}

// MoveSub relocates a submersible. The target must be navigable and free of
// other submersibles.
func (g *Grid) MoveSub(id string, to model.Coord) error {
	sub := g.s.Sub(id)
	if sub == nil {
		return rules.Invalid("unknown submersible %q", id)
	}
	if !g.Navigable(to) {
		return rules.Invalid("submersible %s into dry cell (%d,%d)", id, to.X, to.Y)
	}
	dst := &g.s.Cells[g.idx(to)]
	if dst.Sub != "" && dst.Sub != id {
		return rules.Invalid("cell (%d,%d) already holds submersible %s", to.X, to.Y, dst.Sub)
	}
	if g.InBounds(sub.Pos) {
		src := &g.s.Cells[g.idx(sub.Pos)]
		if src.Sub == id {
			src.Sub = ""
		}
	}
	dst.Sub = id
	sub.Pos = to
	return nil
}

func (g *Grid) SetLock(boundary int, open bool) error {
	l := g.s.Lock(boundary)
	if l == nil {
		return rules.Invalid("no lock at boundary %d", boundary)
	}
	l.Open = open
	return nil
}

func (g *Grid) MoveVessel(seat, col int) error {
	p := g.s.Player(seat)
	if p == nil {
		return rules.Invalid("unknown seat %d", seat)
	}
	if col < 0 || col >= g.s.TileCols {
		return rules.Invalid("vessel column %d out of range", col)
	}
	p.Vessel = col
	return nil
}

// AddTile takes a tile from the supply and places it at (col,row).
func (g *Grid) AddTile(col, row int) (int, error) {
	if col < 0 || col >= g.s.TileCols || row < 0 || row >= g.s.WaterRows {
		return -1, rules.Invalid("tile slot (%d,%d) out of range", col, row)
	}
	if g.TileAt(col, row) >= 0 {
		return -1, rules.Invalid("tile slot (%d,%d) occupied", col, row)
	}
	for i := range g.s.Tiles {
		t := &g.s.Tiles[i]
		if t.OnBoard {
			continue
		}
		t.OnBoard, t.Col, t.Row = true, col, row
		return i, nil
	}
	return -1, rules.Invalid("tile supply empty")
}

// MoveTile shifts a tile and everything on its cells to a free slot.
func (g *Grid) MoveTile(id, col, row int) error {
	if id < 0 || id >= len(g.s.Tiles) || !g.s.Tiles[id].OnBoard {
		return rules.Invalid("tile %d not on board", id)
	}
	if col < 0 || col >= g.s.TileCols || row < 0 || row >= g.s.WaterRows {
		return rules.Invalid("tile slot (%d,%d) out of range", col, row)
	}
	t := &g.s.Tiles[id]
	if t.Col == col && t.Row == row {
		return nil
	}
	if g.TileAt(col, row) >= 0 {
		return rules.Invalid("tile slot (%d,%d) occupied", col, row)
	}
	for i := 0; i < g.s.CellsPer; i++ {
		to := model.Coord{X: col*g.s.CellsPer + i, Y: row}
		if !g.s.Cells[g.idx(to)].Empty() {
			return rules.Invalid("dry cell (%d,%d) not empty", to.X, to.Y)
		}
	}
	for i := 0; i < g.s.CellsPer; i++ {
		from := model.Coord{X: t.Col*g.s.CellsPer + i, Y: t.Row}
		to := model.Coord{X: col*g.s.CellsPer + i, Y: row}
		src := &g.s.Cells[g.idx(from)]
		dst := &g.s.Cells[g.idx(to)]
		*dst = *src
		*src = model.Cell{}
		if dst.Sub != "" {
			g.s.Sub(dst.Sub).Pos = to
		}
	}
	t.Col, t.Row = col, row
	return nil
}

// RemoveTile returns a tile to the supply, clearing its cells. The cubes and
// submersible ids found on it are handed back to the caller.
func (g *Grid) RemoveTile(id int) ([]model.Resource, []string, error) {
	if id < 0 || id >= len(g.s.Tiles) || !g.s.Tiles[id].OnBoard {
		return nil, nil, rules.Invalid("tile %d not on board", id)
	}
	t := &g.s.Tiles[id]
	var cubes []model.Resource
	var subs []string
	for i := 0; i < g.s.CellsPer; i++ {
		c := &g.s.Cells[g.idx(model.Coord{X: t.Col*g.s.CellsPer + i, Y: t.Row})]
		if c.Cube != "" {
			cubes = append(cubes, c.Cube)
		}
		if c.Sub != "" {
			subs = append(subs, c.Sub)
		}
		*c = model.Cell{}
	}
	t.OnBoard, t.Col, t.Row = false, 0, 0
	return cubes, subs, nil
}

// Reachable returns the tile columns a vessel at col can sail to: the run of
// neighbours sharing its water level.
func (g *Grid) Reachable(col int) []int {
	level := g.WaterLevel(col)
	lo, hi := col, col
	for lo > 0 && g.WaterLevel(lo-1) == level {
		lo--
	}
	for hi < g.s.TileCols-1 && g.WaterLevel(hi+1) == level {
		hi++
	}
	out := make([]int, 0, hi-lo+1)
	for c := lo; c <= hi; c++ {
		out = append(out, c)
	}
	return out
}

// DepositBelow returns the deposit under a floor cell, or nil.
func (g *Grid) DepositBelow(c model.Coord) *model.Deposit {
	if !g.InBounds(c) || c.Y != g.FloorY() || len(g.s.Deposits) == 0 {
		return nil
	}
	w := g.s.Width / len(g.s.Deposits)
	if w <= 0 {
		return nil
	}
	i := c.X / w
	if i >= len(g.s.Deposits) {
		return nil
	}
	return &g.s.Deposits[i]
}
