package grid

import (
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
)

// Check verifies the structural invariants of the board: tile stacks are
// compact, dry cells are empty, submersible positions agree with their cells,
// and cube counts are conserved.
func (g *Grid) Check() error {
	s := g.s
	seen := make(map[[2]int]bool, len(s.Tiles))
	for _, t := range s.Tiles {
		if !t.OnBoard {
			continue
		}
		k := [2]int{t.Col, t.Row}
		if seen[k] {
			return rules.Invalid("two tiles at slot (%d,%d)", t.Col, t.Row)
		}
		seen[k] = true
	}
	for col := 0; col < s.TileCols; col++ {
		h := g.ColumnHeight(col)
		for row := s.WaterRows - h; row < s.WaterRows; row++ {
			if !seen[[2]int{col, row}] {
				return rules.Invalid("tile column %d has a hole at row %d", col, row)
			}
		}
	}

	for y := 0; y < s.Height; y++ {
		for x := 0; x < s.Width; x++ {
			c := model.Coord{X: x, Y: y}
			cell := g.Cell(c)
			if !cell.Empty() && !g.Navigable(c) {
				return rules.Invalid("dry cell (%d,%d) holds %+v", x, y, cell)
			}
			if cell.Sub != "" {
				sub := s.Sub(cell.Sub)
				if sub == nil || sub.Pos != c {
					return rules.Invalid("cell (%d,%d) names submersible %s at another position", x, y, cell.Sub)
				}
			}
		}
	}
	for _, sub := range s.Submersibles {
		if g.Cell(sub.Pos).Sub != sub.ID {
			return rules.Invalid("submersible %s missing from its cell", sub.ID)
		}
		if sub.Hold.Total() > sub.Capacity {
			return rules.Invalid("submersible %s over capacity", sub.ID)
		}
	}

	census := s.CubeCensus()
	for _, r := range model.Resources {
		if census[r] != s.CubeTotals[r] {
			return rules.Invalid("%s cubes: have %d want %d", r, census[r], s.CubeTotals[r])
		}
	}
	return nil
}
