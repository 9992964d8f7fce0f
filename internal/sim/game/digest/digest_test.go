package digest

import (
	"testing"

	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
)

func TestState_StableAcrossCloneAndSensitiveToChange(t *testing.T) {
	s := grid.Blank(model.DefaultRules())
	s.Players = []model.Player{{Seat: 0, Money: 3, Bay: model.Cubes{}}}
	d1 := State(s)
	if len(d1) != 64 {
		t.Fatalf("digest length: %d", len(d1))
	}

	c := s.Clone()
	c.Players[0].Bay = nil
	c.Round.Placements = nil
	if State(c) != d1 {
		t.Fatalf("nil and empty collections should hash the same")
	}

	c.Players[0].Money++
	if State(c) == d1 {
		t.Fatalf("money change not reflected in digest")
	}
	c = s.Clone()
	c.Locks[0].Open = !c.Locks[0].Open
	if State(c) == d1 {
		t.Fatalf("lock change not reflected in digest")
	}
}
