package game

import (
	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
	"lineae.dev/internal/sim/game/scoring"
)

// nextTurn starts a fresh turn for seat.
func nextTurn(tx *txn, seat int) {
	rd := &tx.s.Round
	rd.Turn = model.Turn{Seq: rd.Turn.Seq + 1}
	rd.Current = seat
	tx.emit(EventTurn, seat, rd.Turn.Seq)
}

// endTurn hands the turn clockwise to the next player who has not passed.
func endTurn(tx *txn) {
	s := tx.s
	if s.Round.Phase != model.PhaseAction {
		return
	}
	n := len(s.Players)
	for i := 1; i <= n; i++ {
		seat := (s.Round.Current + i) % n
		if !s.Players[seat].Passed {
			nextTurn(tx, seat)
			return
		}
	}
	s.Round.Turn = model.Turn{Seq: s.Round.Turn.Seq + 1}
	s.Round.Current = -1
}

func endGame(tx *txn, reason string) {
	s := tx.s
	s.Round.Phase = model.PhaseGameEnd
	s.Round.Current = -1
	s.Round.Turn = model.Turn{Seq: s.Round.Turn.Seq + 1}
	s.Final = scoring.Finalize(s, tx.r)
	tx.emit(EventGameEnd, -1, map[string]any{"reason": reason, "final": s.Final})
}

func advance(tx *txn) error {
	s := tx.s
	switch s.Round.Phase {
	case model.PhaseSunlight:
		s.Round.Phase = model.PhaseAction
		tx.emit(EventPhase, -1, s.Round.Phase)
		nextTurn(tx, s.Round.Leader)
		return nil
	case model.PhaseAction:
		for _, p := range s.Players {
			if !p.Passed {
				return rules.Reject(rules.IllegalAction, "seat %d has not passed", p.Seat)
			}
		}
		if err := cleanup(tx); err != nil {
			return err
		}
		if s.Round.Number >= tx.r.MaxRounds {
			endGame(tx, "rounds")
			return nil
		}
		s.Round.Number++
		startSunlight(tx)
		return nil
	case model.PhaseGameEnd:
		return rules.Reject(rules.ActionUnavailablePhase, "game is over")
	}
	return rules.Invalid("cannot advance from phase %q", s.Round.Phase)
}

// startSunlight grants each vessel its electricity: the full grant less the
// pollution penalty per atmosphere cube in its column, nothing under Jupiter.
func startSunlight(tx *txn) {
	s, r := tx.s, tx.r
	s.Round.Phase = model.PhaseSunlight
	s.Round.Current = -1
	tx.emit(EventPhase, -1, s.Round.Phase)
	grants := make(map[int]int, len(s.Players))
	for i := range s.Players {
		p := &s.Players[i]
		g := SunlightGrant(s, r, p.Vessel)
		before := p.Electricity
		p.Electricity += g
		if p.Electricity > r.MaxElectricity {
			p.Electricity = r.MaxElectricity
		}
		grants[p.Seat] = p.Electricity - before
	}
	tx.emit(EventSunlight, -1, grants)
}

// SunlightGrant is the electricity a vessel at col would receive this round.
func SunlightGrant(s *model.State, r model.Rules, col int) int {
	if col == s.Round.Jupiter {
		return 0
	}
	g := r.SunlightGrant
	if col >= 0 && col < len(s.Atmosphere) {
		g -= r.PollutionPenalty * s.Atmosphere[col]
	}
	if g < 0 {
		return 0
	}
	return g
}

func cleanup(tx *txn) error {
	s, r := tx.s, tx.r
	s.Round.Phase = model.PhaseCleanup
	tx.emit(EventPhase, -1, s.Round.Phase)

	s.Round.Jupiter = (s.Round.Jupiter - 1 + s.TileCols) % s.TileCols

	placed, err := dissolve(tx.g)
	if err != nil {
		return err
	}
	tx.emit(EventDissolved, -1, placed)

	for i := range s.Players {
		p := &s.Players[i]
		p.Available = p.Workers
		p.Passed = false
	}
	s.Round.Placements = map[string][]model.Placement{}

	for slot, round := range r.PromoteRounds {
		if round != s.Round.Number || slot >= len(s.BasicSlots) {
			continue
		}
		idx := scoring.LowestCard(s.BonusRow)
		if idx < 0 {
			break
		}
		card := s.BonusRow[idx]
		s.BonusRow = append(s.BonusRow[:idx:idx], s.BonusRow[idx+1:]...)
		s.BasicSlots[slot] = card
		scoring.RefillRow(s, r)
		tx.emit(EventCardPromoted, -1, map[string]any{"slot": slot + 1, "card": card.ID})
	}

	s.Round.Leader = s.Round.Marker
	s.Round.Turn = model.Turn{Seq: s.Round.Turn.Seq + 1}
	s.Round.Current = -1
	return nil
}

// Dissolved is one cube placed by the dissolve step.
type Dissolved struct {
	Deposit int            `json:"deposit"`
	At      model.Coord    `json:"at"`
	Cube    model.Resource `json:"cube"`
}

// dissolve drops one cube into each dissolve column of each deposit, primary and
// secondary alternating, in the lowest empty navigable cell above the floor.
// Full columns and colors missing from the supply are skipped.
func dissolve(g *grid.Grid) ([]Dissolved, error) {
	s := g.State()
	var out []Dissolved
	for _, d := range s.Deposits {
		for k, x := range d.DissolveCols {
			cube := d.Primary
			if k%2 == 1 {
				cube = d.Secondary
			}
			if cube == "" {
				continue
			}
			at, ok := lowestEmpty(g, x)
			if !ok || s.Supply[cube] <= 0 {
				continue
			}
			s.Supply.Take(cube, 1)
			if err := g.PlaceCube(at, cube); err != nil {
				return nil, err
			}
			out = append(out, Dissolved{Deposit: d.Index, At: at, Cube: cube})
		}
	}
	return out, nil
}

func lowestEmpty(g *grid.Grid, x int) (model.Coord, bool) {
	for y := g.FloorY(); y >= 0; y-- {
		c := model.Coord{X: x, Y: y}
		if !g.Navigable(c) {
			return model.Coord{}, false
		}
		if g.Cell(c).Empty() {
			return c, true
		}
	}
	return model.Coord{}, false
}
