package water

import (
	"testing"

	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
)

func onBoard(s *model.State) int {
	n := 0
	for _, t := range s.Tiles {
		if t.OnBoard {
			n++
		}
	}
	return n
}

func TestPrime_FillsUpToFirstClosedLock(t *testing.T) {
	g := grid.New(grid.Blank(model.DefaultRules()))
	if err := Prime(g); err != nil {
		t.Fatalf("prime: %v", err)
	}
	for col := 0; col < 8; col++ {
		want := 0
		if col <= 3 {
			want = 3
		}
		if got := g.ColumnHeight(col); got != want {
			t.Fatalf("column %d height: got %d want %d", col, got, want)
		}
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestToggle_OpenCascadeStopsAtClosedLock(t *testing.T) {
	s := grid.Blank(model.DefaultRules())
	g := grid.New(s)
	if err := Prime(g); err != nil {
		t.Fatalf("prime: %v", err)
	}
	rep, err := Toggle(g, 3)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !rep.Open || !s.Lock(3).Open {
		t.Fatalf("lock 3 should be open")
	}
	if len(rep.Moves) == 0 {
		t.Fatalf("expected tiles to slide")
	}
	if onBoard(s) != 12 {
		t.Fatalf("tiles on board: got %d want 12", onBoard(s))
	}
	if g.ColumnHeight(7) != 0 {
		t.Fatalf("water crossed the closed lock at boundary 6")
	}
	if g.ColumnHeight(4) == 0 {
		t.Fatalf("water did not pass the opened lock")
	}
	seen := map[int]bool{}
	for _, m := range rep.Moves {
		if seen[m.Tile] {
			t.Fatalf("tile %d moved twice", m.Tile)
		}
		seen[m.Tile] = true
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestToggle_TwiceRestoresLockFlag(t *testing.T) {
	s := grid.Blank(model.DefaultRules())
	g := grid.New(s)
	if err := Prime(g); err != nil {
		t.Fatalf("prime: %v", err)
	}
	before := s.Lock(1).Open
	for i := 0; i < 2; i++ {
		if _, err := Toggle(g, 1); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}
	if s.Lock(1).Open != before {
		t.Fatalf("lock flag not restored")
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestToggle_CloseFillsFromSource(t *testing.T) {
	r := model.DefaultRules()
	r.Locks = []model.LockDef{{Boundary: 2, Open: true}}
	s := grid.Blank(r)
	g := grid.New(s)

	rep, err := Toggle(g, 2)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if rep.Open {
		t.Fatalf("lock should have closed")
	}
	if len(rep.Added) != 9 {
		t.Fatalf("tiles added: got %d want 9", len(rep.Added))
	}
	for col := 0; col < 8; col++ {
		want := 0
		if col <= 2 {
			want = 3
		}
		if got := g.ColumnHeight(col); got != want {
			t.Fatalf("column %d height: got %d want %d", col, got, want)
		}
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestToggle_ExitingTileReturnsCargo(t *testing.T) {
	r := model.DefaultRules()
	r.Locks = []model.LockDef{{Boundary: 0, Open: false}}
	r.Submersibles = []model.SubmersibleDef{{ID: "A", Start: model.Coord{X: 3, Y: 5}}}
	s := grid.Blank(r)
	g := grid.New(s)

	id, err := g.AddTile(1, 2)
	if err != nil {
		t.Fatalf("add tile: %v", err)
	}
	if err := g.MoveSub("A", model.Coord{X: 3, Y: 2}); err != nil {
		t.Fatalf("move sub: %v", err)
	}
	s.Supply.Take(model.Iron, 1)
	if err := g.PlaceCube(model.Coord{X: 4, Y: 2}, model.Iron); err != nil {
		t.Fatalf("place cube: %v", err)
	}
	s.Supply.Take(model.Salt, 1)
	if err := g.PlaceCube(model.Coord{X: 3, Y: 5}, model.Salt); err != nil {
		t.Fatalf("place cube: %v", err)
	}

	rep, err := Toggle(g, 0)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(rep.Exited) != 1 || rep.Exited[0] != id {
		t.Fatalf("exited: %v", rep.Exited)
	}
	if onBoard(s) != 0 {
		t.Fatalf("tile should be back in supply")
	}
	if s.Sub("A").Pos != (model.Coord{X: 3, Y: 5}) {
		t.Fatalf("sub not returned to start: %+v", s.Sub("A").Pos)
	}
	if s.Supply[model.Iron] != 30 || s.Supply[model.Salt] != 30 {
		t.Fatalf("cubes not returned to supply: %v", s.Supply)
	}
	if len(rep.Discarded) != 2 || len(rep.Returned) != 1 {
		t.Fatalf("report: discarded=%v returned=%v", rep.Discarded, rep.Returned)
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}
