package game

import (
	"testing"

	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
)

func TestDissolve_SkipsOccupiedAndFullColumns(t *testing.T) {
	s := grid.Blank(model.DefaultRules())
	g := grid.New(s)
	put := func(at model.Coord, c model.Resource) {
		t.Helper()
		if !s.Supply.Take(c, 1) {
			t.Fatalf("supply out of %s", c)
		}
		if err := g.PlaceCube(at, c); err != nil {
			t.Fatalf("place cube: %v", err)
		}
	}

	// Deposit 0 dissolves into columns 1 and 4, deposit 1 into 7 and 10.
	s.Deposits[0].Primary, s.Deposits[0].Secondary = model.Iron, model.Sulfur
	s.Deposits[1].Primary, s.Deposits[1].Secondary = model.Salt, model.Silica

	// Column 1: submersible on the floor, a cube above it.
	if err := g.MoveSub("A", model.Coord{X: 1, Y: g.FloorY()}); err != nil {
		t.Fatalf("move sub: %v", err)
	}
	put(model.Coord{X: 1, Y: g.FloorY() - 1}, model.Hydrocarbon)
	// Column 4: every navigable cell holds a cube.
	for y := g.FloorY(); y >= 0 && g.Navigable(model.Coord{X: 4, Y: y}); y-- {
		put(model.Coord{X: 4, Y: y}, model.Hydrocarbon)
	}
	before := s.Supply.Clone()

	placed, err := dissolve(g)
	if err != nil {
		t.Fatalf("dissolve: %v", err)
	}
	want := []Dissolved{
		{Deposit: 0, At: model.Coord{X: 1, Y: g.FloorY() - 2}, Cube: model.Iron},
		{Deposit: 1, At: model.Coord{X: 7, Y: g.FloorY()}, Cube: model.Salt},
		{Deposit: 1, At: model.Coord{X: 10, Y: g.FloorY()}, Cube: model.Silica},
	}
	if len(placed) != len(want) {
		t.Fatalf("placed %+v, want %+v", placed, want)
	}
	for i := range want {
		if placed[i] != want[i] {
			t.Fatalf("placed[%d] = %+v, want %+v", i, placed[i], want[i])
		}
		if got := g.Cell(want[i].At).Cube; got != want[i].Cube {
			t.Fatalf("cell %+v holds %q, want %s", want[i].At, got, want[i].Cube)
		}
	}
	if s.Supply[model.Sulfur] != before[model.Sulfur] {
		t.Fatalf("full column drew a cube: sulfur %d -> %d", before[model.Sulfur], s.Supply[model.Sulfur])
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestDissolve_SkipsExhaustedColor(t *testing.T) {
	s := grid.Blank(model.DefaultRules())
	g := grid.New(s)
	s.Deposits[0].Primary, s.Deposits[0].Secondary = model.Iron, model.Sulfur
	s.Supply[model.Iron] = 0
	s.CubeTotals[model.Iron] = 0

	placed, err := dissolve(g)
	if err != nil {
		t.Fatalf("dissolve: %v", err)
	}
	if len(placed) != 1 || placed[0].Cube != model.Sulfur || placed[0].At != (model.Coord{X: 4, Y: g.FloorY()}) {
		t.Fatalf("placed %+v", placed)
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}
