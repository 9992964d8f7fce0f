package game

import (
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/movement"
	"lineae.dev/internal/sim/game/placement"
)

// LegalActions lists every action seat could submit right now. Each candidate is
// trial-applied to a scratch copy, so the list agrees with Submit exactly.
// Choice fields (cube color, bonus card) are left at their defaults.
func (e *Engine) LegalActions(seat int) []Action {
	if e.poison != nil {
		return nil
	}
	var out []Action
	for _, a := range e.candidates(seat) {
		if e.check(seat, a) {
			out = append(out, a)
		}
	}
	return out
}

func (e *Engine) candidates(seat int) []Action {
	s := e.s
	p := s.Player(seat)
	if p == nil {
		return nil
	}
	g := e.begin(seat).g
	switch s.Round.Phase {
	case model.PhaseSunlight:
		var out []Action
		for _, col := range g.Reachable(p.Vessel) {
			out = append(out, Action{Type: ActionDiesel, Column: col})
		}
		return out
	case model.PhaseAction:
	default:
		return nil
	}
	if seat != s.Round.Current {
		return nil
	}

	var out []Action
	if s.Round.Turn.Mode == model.TurnPiloting {
		for _, rt := range movement.Destinations(g, seat) {
			out = append(out, Action{Type: ActionMoveSubmersible, Path: rt.Path})
		}
		out = append(out, Action{Type: ActionExcavate})
		if sub := s.Sub(s.Round.Turn.Sub); sub != nil {
			out = append(out, Action{Type: ActionDock, Cubes: affordable(sub.Hold, p.Money, e.cfg.Rules.DockCostPerCube)})
		}
		out = append(out, Action{Type: ActionEndTurn})
	} else {
		for _, def := range placement.Spaces(s) {
			switch def.Space {
			case placement.SpaceLock:
				for _, l := range s.Locks {
					out = append(out, Action{Type: ActionPlace, Space: def.Space, Lock: l.Boundary})
				}
			case placement.SpaceRocket:
				if cubes := rocketLoad(s, p); len(cubes) > 0 {
					out = append(out, Action{Type: ActionPlace, Space: def.Space, Cubes: cubes})
				}
			default:
				out = append(out, Action{Type: ActionPlace, Space: def.Space})
			}
		}
		out = append(out, Action{Type: ActionPass})
	}
	for _, col := range g.Reachable(p.Vessel) {
		if col != p.Vessel {
			out = append(out, Action{Type: ActionMoveVessel, Column: col})
		}
	}
	for _, c := range p.Cards {
		out = append(out, Action{Type: ActionPlayBonusCard, Card: c.ID})
	}
	return out
}

// affordable returns as many hold cubes as money pays for, in canonical order.
func affordable(hold model.Cubes, money, per int) []model.Resource {
	list := hold.List()
	if per > 0 && money/per < len(list) {
		list = list[:money/per]
	}
	return list
}

// rocketLoad picks the largest load the vessel's rocket accepts from the bay:
// typed slots first, then the wildcard with the first remaining cube.
func rocketLoad(s *model.State, p *model.Player) []model.Resource {
	rk := s.RocketAt(p.Vessel)
	if rk == nil {
		return nil
	}
	bay := p.Bay.Clone()
	var out []model.Resource
	wild := false
	for _, sl := range rk.Slots {
		switch {
		case sl.Have != "":
		case sl.Want == "":
			wild = true
		case bay[sl.Want] > 0:
			bay.Take(sl.Want, 1)
			out = append(out, sl.Want)
		}
	}
	if wild {
		if rest := bay.List(); len(rest) > 0 {
			out = append(out, rest[0])
		}
	}
	return out
}
