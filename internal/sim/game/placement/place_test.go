package placement

import (
	"testing"

	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
	"lineae.dev/internal/sim/game/water"
)

func newTable(t *testing.T) (*grid.Grid, model.Rules) {
	t.Helper()
	r := model.DefaultRules()
	s := grid.Blank(r)
	s.BasicSlots = append([]model.BonusCard(nil), r.BasicSlots...)
	for seat := 0; seat < 2; seat++ {
		s.Players = append(s.Players, model.Player{
			Seat: seat, Money: 3, Workers: 4, Available: 4, HireSupply: 4, Bay: model.Cubes{},
		})
	}
	g := grid.New(s)
	if err := water.Prime(g); err != nil {
		t.Fatalf("prime: %v", err)
	}
	s.Round.Phase = model.PhaseAction
	return g, r
}

func TestPlace_BumpNeedsOneMoreWorker(t *testing.T) {
	g, r := newTable(t)
	s := g.State()

	if _, err := Place(g, r, 0, Request{Space: "SUB_A", Workers: 1}); err != nil {
		t.Fatalf("seat 0 place: %v", err)
	}
	if s.Players[0].Available != 3 {
		t.Fatalf("seat 0 available: %d", s.Players[0].Available)
	}
	if _, err := Place(g, r, 1, Request{Space: "SUB_A", Workers: 1}); !rules.Is(err, rules.BumpTooSmall) {
		t.Fatalf("equal placement should be rejected, got %v", err)
	}
	out, err := Place(g, r, 1, Request{Space: "SUB_A", Workers: 2})
	if err != nil {
		t.Fatalf("bump: %v", err)
	}
	if out.Bumped == nil || out.Bumped.Seat != 0 || out.Bumped.Workers != 1 {
		t.Fatalf("bump record: %+v", out.Bumped)
	}
	if s.Players[0].Available != 4 || s.Players[1].Available != 2 {
		t.Fatalf("available after bump: seat0=%d seat1=%d", s.Players[0].Available, s.Players[1].Available)
	}
	if out.Piloting != "A" || s.Round.Turn.Mode != model.TurnPiloting {
		t.Fatalf("bump should start piloting A: %+v", s.Round.Turn)
	}
	if h, ok := Holder(s, "SUB_A"); !ok || h.Seat != 1 || h.Workers != 2 {
		t.Fatalf("holder: %+v %v", h, ok)
	}
}

func TestPlace_SelfBumpCountsOwnWorkers(t *testing.T) {
	g, r := newTable(t)
	s := g.State()
	s.Players[0].Available = 3
	if _, err := Place(g, r, 0, Request{Space: SpaceElection, Workers: 2}); err != nil {
		t.Fatalf("place: %v", err)
	}
	out, err := Place(g, r, 0, Request{Space: SpaceElection})
	if err != nil {
		t.Fatalf("self bump: %v", err)
	}
	if out.Workers != 3 || s.Players[0].Available != 0 || s.Round.Marker != 0 {
		t.Fatalf("self bump: %+v available=%d", out, s.Players[0].Available)
	}
	if _, err := Place(g, r, 0, Request{Space: SpaceElection}); !rules.Is(err, rules.CannotAffordAction) {
		t.Fatalf("out of workers: got %v", err)
	}
}

func TestPlace_IncomeRepeatsAndHireEscalates(t *testing.T) {
	g, r := newTable(t)
	s := g.State()
	out, err := Place(g, r, 0, Request{Space: SpaceIncome})
	if err != nil {
		t.Fatalf("income: %v", err)
	}
	if !out.Repeat || s.Players[0].Money != 5 {
		t.Fatalf("income: %+v money=%d", out, s.Players[0].Money)
	}
	if _, err := Place(g, r, 0, Request{Space: SpaceHire}); err != nil {
		t.Fatalf("hire: %v", err)
	}
	p := s.Players[0]
	if p.Money != 1 || p.Workers != 5 || p.Available != 3 || p.Hired != 1 {
		t.Fatalf("after hire: %+v", p)
	}
	if _, err := Place(g, r, 0, Request{Space: SpaceHire}); !rules.Is(err, rules.CannotAffordAction) {
		t.Fatalf("second hire costs $5: got %v", err)
	}
	if s.Players[0].Available != 3 {
		t.Fatalf("rejected hire moved workers")
	}
}

func TestPlace_LockTogglesWater(t *testing.T) {
	g, r := newTable(t)
	s := g.State()
	out, err := Place(g, r, 0, Request{Space: SpaceLock, Lock: 3})
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if !s.Lock(3).Open || out.Water == nil || !out.Repeat {
		t.Fatalf("lock outcome: %+v", out)
	}
	if _, err := Place(g, r, 0, Request{Space: SpaceLock, Lock: 2}); !rules.Is(err, rules.IllegalAction) {
		t.Fatalf("no lock at 2: got %v", err)
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestPlace_BasicSlotEffects(t *testing.T) {
	g, r := newTable(t)
	s := g.State()
	if _, err := Place(g, r, 0, Request{Space: "BASIC_2", Cube: model.Salt}); err != nil {
		t.Fatalf("ore broker: %v", err)
	}
	if s.Players[0].Money != 1 || s.Players[0].Bay[model.Salt] != 1 || s.Supply[model.Salt] != 29 {
		t.Fatalf("ore broker: money=%d bay=%v", s.Players[0].Money, s.Players[0].Bay)
	}
	if _, err := Place(g, r, 0, Request{Space: "BASIC_2"}); !rules.Is(err, rules.CannotAffordAction) {
		t.Fatalf("broke: got %v", err)
	}
	s.Players[0].Electricity = 8
	if _, err := Place(g, r, 0, Request{Space: "BASIC_3"}); err != nil {
		t.Fatalf("grid tap: %v", err)
	}
	if s.Players[0].Electricity != 9 {
		t.Fatalf("electricity cap: %d", s.Players[0].Electricity)
	}
	if _, err := Place(g, r, 0, Request{Space: "BASIC_9"}); !rules.Is(err, rules.IllegalAction) {
		t.Fatalf("unknown space: got %v", err)
	}
	if err := g.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}
