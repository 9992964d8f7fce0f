package placement

import (
	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
	"lineae.dev/internal/sim/game/scoring"
	"lineae.dev/internal/sim/game/water"
)

// Request is one placement. Workers of 0 means the fewest the space accepts.
type Request struct {
	Space   string
	Workers int
	// Lock is the boundary toggled by the LOCK space.
	Lock  int
	Cubes []model.Resource
	// Cube picks the color for effects that grant or sell a cube.
	Cube model.Resource
	Pick scoring.Pick
}

type Bump struct {
	Seat    int `json:"seat"`
	Workers int `json:"workers"`
}

type Outcome struct {
	Space   string `json:"space"`
	Workers int    `json:"workers"`
	Bumped  *Bump  `json:"bumped,omitempty"`
	Repeat  bool   `json:"repeat,omitempty"`
	// Piloting names the submersible the player now controls.
	Piloting string              `json:"piloting,omitempty"`
	Paid     int                 `json:"paid,omitempty"`
	Effect   *EffectResult       `json:"effect,omitempty"`
	Water    *water.Report       `json:"water,omitempty"`
	Load     *scoring.LoadResult `json:"load,omitempty"`
}

// Place deploys workers on an action space and fires the space's action.
func Place(g *grid.Grid, r model.Rules, seat int, req Request) (Outcome, error) {
	s := g.State()
	p := s.Player(seat)
	if p == nil {
		return Outcome{}, rules.Invalid("unknown seat %d", seat)
	}
	def, ok := Lookup(s, req.Space)
	if !ok {
		return Outcome{}, rules.Reject(rules.IllegalAction, "unknown action space %q", req.Space)
	}

	n := req.Workers
	if n < 0 {
		return Outcome{}, rules.Reject(rules.IllegalAction, "negative worker count")
	}
	var held model.Placement
	var hasHolder bool
	if def.Mode == Exclusive {
		held, hasHolder = Holder(s, def.Space)
	}
	need := 1
	if hasHolder {
		need = held.Workers + 1
	}
	if n == 0 {
		n = need
	}
	if n < need {
		return Outcome{}, rules.Reject(rules.BumpTooSmall, "%s is held by %d workers, need %d", def.Space, held.Workers, need)
	}
	avail := p.Available
	if hasHolder && held.Seat == seat {
		avail += held.Workers
	}
	if n > avail {
		return Outcome{}, rules.Reject(rules.CannotAffordAction, "%d workers requested, %d available", n, avail)
	}
	if err := precheck(s, r, p, def, req); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Space: def.Space, Workers: n, Repeat: def.Repeatable}
	if hasHolder {
		list := s.Round.Placements[def.Space]
		for i := range list {
			list[i].Active = false
		}
		s.Player(held.Seat).Available += held.Workers
		out.Bumped = &Bump{Seat: held.Seat, Workers: held.Workers}
	}
	p.Available -= n
	if s.Round.Placements == nil {
		s.Round.Placements = map[string][]model.Placement{}
	}
	s.Round.Placements[def.Space] = append(s.Round.Placements[def.Space], model.Placement{Seat: seat, Workers: n, Active: true})

	if err := fire(g, r, seat, def, req, &out); err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// precheck rejects placements the player cannot pay for before any worker moves.
func precheck(s *model.State, r model.Rules, p *model.Player, def Def, req Request) error {
	switch {
	case def.Space == SpaceHire:
		if p.HireSupply <= 0 {
			return rules.Reject(rules.IllegalAction, "no workers left to hire")
		}
		if cost := r.HireCost(p.Hired); p.Money < cost {
			return rules.Reject(rules.CannotAffordAction, "hiring costs $%d, have $%d", cost, p.Money)
		}
	case def.Space == SpaceLock:
		if s.Lock(req.Lock) == nil {
			return rules.Reject(rules.IllegalAction, "no lock at boundary %d", req.Lock)
		}
	case BasicSlot(def.Space) >= 0:
		e := s.BasicSlots[BasicSlot(def.Space)].Effect
		if p.Money < e.Cost {
			return rules.Reject(rules.CannotAffordAction, "%s costs $%d, have $%d", def.Space, e.Cost, p.Money)
		}
	}
	return nil
}

func fire(g *grid.Grid, r model.Rules, seat int, def Def, req Request, out *Outcome) error {
	s := g.State()
	p := s.Player(seat)
	switch def.Space {
	case SpaceIncome:
		p.Money += r.IncomeAmount
		return nil
	case SpaceHire:
		cost := r.HireCost(p.Hired)
		p.Money -= cost
		p.Hired++
		p.HireSupply--
		p.Workers++
		p.Available++
		out.Paid = cost
		return nil
	case SpaceElection:
		s.Round.Marker = seat
		return nil
	case SpaceLock:
		rep, err := water.Toggle(g, req.Lock)
		if err != nil {
			return err
		}
		out.Water = &rep
		return nil
	case SpaceRocket:
		res, err := scoring.LoadRocket(s, r, seat, req.Cubes, req.Pick)
		if err != nil {
			return err
		}
		out.Load = &res
		return nil
	}
	if slot := BasicSlot(def.Space); slot >= 0 {
		res, err := ApplyEffect(s, r, seat, s.BasicSlots[slot].Effect, req.Cube)
		if err != nil {
			return err
		}
		out.Effect = &res
		return nil
	}
	if id, ok := SubOf(def.Space); ok {
		s.Round.Turn.Mode = model.TurnPiloting
		s.Round.Turn.Sub = id
		s.Round.Turn.Steps = 0
		s.Round.Turn.Excavated = nil
		out.Piloting = id
		return nil
	}
	return rules.Invalid("space %s has no action", def.Space)
}
