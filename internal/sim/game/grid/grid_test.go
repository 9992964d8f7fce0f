package grid

import (
	"testing"

	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
)

func TestBlank_DefaultBoardIsConsistent(t *testing.T) {
	s := Blank(model.DefaultRules())
	g := New(s)
	if s.Width != 24 || s.Height != 10 {
		t.Fatalf("board size: got %dx%d", s.Width, s.Height)
	}
	if g.TileSupply() != 24 {
		t.Fatalf("tile supply: got %d want 24", g.TileSupply())
	}
	if len(s.Submersibles) != 6 || len(s.Deposits) != 4 || len(s.Locks) != 4 {
		t.Fatalf("entities: subs=%d deposits=%d locks=%d", len(s.Submersibles), len(s.Deposits), len(s.Locks))
	}
	if got := s.Deposits[2].DissolveCols; len(got) != 2 || got[0] != 13 || got[1] != 16 {
		t.Fatalf("deposit 2 dissolve cols: %v", got)
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestNavigable_WaterLayerNeedsTile(t *testing.T) {
	g := New(Blank(model.DefaultRules()))
	dry := model.Coord{X: 4, Y: 2}
	if g.Navigable(dry) {
		t.Fatalf("uncovered water-layer cell should be dry")
	}
	if !g.Navigable(model.Coord{X: 4, Y: 3}) {
		t.Fatalf("deep ocean should be navigable")
	}
	if _, err := g.AddTile(1, 2); err != nil {
		t.Fatalf("add tile: %v", err)
	}
	if !g.Navigable(dry) {
		t.Fatalf("covered cell should be navigable")
	}
	if g.WaterLevel(1) != 2 || g.WaterLevel(0) != 3 {
		t.Fatalf("water levels: col1=%d col0=%d", g.WaterLevel(1), g.WaterLevel(0))
	}
	if !g.SurfaceCell(model.Coord{X: 5, Y: 2}) || g.SurfaceCell(model.Coord{X: 5, Y: 3}) {
		t.Fatalf("surface cell of column 1 should be row 2")
	}
}

func TestMutators_RejectExclusivityViolations(t *testing.T) {
	s := Blank(model.DefaultRules())
	g := New(s)

	if err := g.PlaceCube(model.Coord{X: 0, Y: 0}, model.Iron); !rules.Is(err, rules.InvalidState) {
		t.Fatalf("cube on dry cell: got %v", err)
	}
	at := model.Coord{X: 0, Y: 9}
	if err := g.PlaceCube(at, model.Iron); err != nil {
		t.Fatalf("place cube: %v", err)
	}
	if err := g.PlaceCube(at, model.Salt); !rules.Is(err, rules.InvalidState) {
		t.Fatalf("second cube: got %v", err)
	}
	if err := g.MoveSub("A", s.Sub("B").Pos); !rules.Is(err, rules.InvalidState) {
		t.Fatalf("sub onto sub: got %v", err)
	}
	if err := g.MoveSub("A", model.Coord{X: 0, Y: 0}); !rules.Is(err, rules.InvalidState) {
		t.Fatalf("sub into dry cell: got %v", err)
	}
	if err := g.MoveSub("A", model.Coord{X: 3, Y: 3}); err != nil {
		t.Fatalf("move sub: %v", err)
	}
	if g.Cell(model.Coord{X: 2, Y: 5}).Sub != "" || g.Cell(model.Coord{X: 3, Y: 3}).Sub != "A" {
		t.Fatalf("sub cells not updated")
	}
}

func TestCheck_DetectsLostCube(t *testing.T) {
	s := Blank(model.DefaultRules())
	g := New(s)
	if err := g.PlaceCube(model.Coord{X: 0, Y: 9}, model.Iron); err != nil {
		t.Fatalf("place cube: %v", err)
	}
	if err := g.Check(); !rules.Is(err, rules.InvalidState) {
		t.Fatalf("cube created from nothing should fail check, got %v", err)
	}
	s.Supply.Take(model.Iron, 1)
	if err := g.Check(); err != nil {
		t.Fatalf("check after supply debit: %v", err)
	}
}

func TestMoveTile_CarriesContents(t *testing.T) {
	s := Blank(model.DefaultRules())
	g := New(s)
	id, err := g.AddTile(0, 2)
	if err != nil {
		t.Fatalf("add tile: %v", err)
	}
	s.Supply.Take(model.Salt, 1)
	if err := g.PlaceCube(model.Coord{X: 1, Y: 2}, model.Salt); err != nil {
		t.Fatalf("place cube: %v", err)
	}
	if err := g.MoveSub("A", model.Coord{X: 2, Y: 2}); err != nil {
		t.Fatalf("move sub: %v", err)
	}
	if err := g.MoveTile(id, 3, 2); err != nil {
		t.Fatalf("move tile: %v", err)
	}
	if g.Cell(model.Coord{X: 10, Y: 2}).Cube != model.Salt {
		t.Fatalf("cube did not travel with tile")
	}
	if s.Sub("A").Pos != (model.Coord{X: 11, Y: 2}) {
		t.Fatalf("sub did not travel with tile: %+v", s.Sub("A").Pos)
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestReachable_EqualLevelRun(t *testing.T) {
	g := New(Blank(model.DefaultRules()))
	for _, col := range []int{2, 3} {
		if _, err := g.AddTile(col, 2); err != nil {
			t.Fatalf("add tile: %v", err)
		}
	}
	got := g.Reachable(2)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("reachable from 2: %v", got)
	}
	got = g.Reachable(5)
	if len(got) != 4 || got[0] != 4 || got[3] != 7 {
		t.Fatalf("reachable from 5: %v", got)
	}
}
