package movement

import (
	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
	"lineae.dev/internal/sim/game/scoring"
)

type DockResult struct {
	Sub      string           `json:"sub"`
	Col      int              `json:"col"`
	Unloaded []model.Resource `json:"unloaded,omitempty"`
	Paid     int              `json:"paid"`
}

// Dock moves the chosen cubes from the piloted submersible to seat's cargo bay
// at r.DockCostPerCube each. The submersible must sit on the surface cell of the
// vessel's column.
func Dock(g *grid.Grid, r model.Rules, seat int, cubes []model.Resource) (DockResult, error) {
	s := g.State()
	p := s.Player(seat)
	if p == nil {
		return DockResult{}, rules.Invalid("unknown seat %d", seat)
	}
	sub := s.Sub(s.Round.Turn.Sub)
	if sub == nil {
		return DockResult{}, rules.Reject(rules.IllegalAction, "no submersible under control")
	}
	if g.TileCol(sub.Pos.X) != p.Vessel || !g.SurfaceCell(sub.Pos) {
		return DockResult{}, rules.Reject(rules.IllegalAction, "submersible %s is not under vessel %d", sub.ID, seat)
	}
	want := model.CountList(cubes)
	for _, res := range want.SortedResources() {
		if sub.Hold[res] < want[res] {
			return DockResult{}, rules.Reject(rules.IllegalAction, "hold of %s has %d %s, need %d", sub.ID, sub.Hold[res], res, want[res])
		}
	}
	cost := len(cubes) * r.DockCostPerCube
	if p.Money < cost {
		return DockResult{}, rules.Reject(rules.CannotAffordAction, "docking %d cubes costs $%d, have $%d", len(cubes), cost, p.Money)
	}
	for _, res := range want.SortedResources() {
		sub.Hold.Take(res, want[res])
		p.Bay.Add(res, want[res])
	}
	p.Money -= cost
	return DockResult{Sub: sub.ID, Col: p.Vessel, Unloaded: want.List(), Paid: cost}, nil
}

// ExcavateChoice carries the player's picks for tier bonuses.
type ExcavateChoice struct {
	// Cube is the color taken by a tier that grants any cube.
	Cube model.Resource
	Card scoring.Pick
}

type ExcavateResult struct {
	Sub     string         `json:"sub"`
	Deposit int            `json:"deposit"`
	Reward  model.Resource `json:"reward,omitempty"`
	// Tier is the track tier reached (1-based); 0 when no bonus was granted.
	Tier      int            `json:"tier"`
	NewMarker bool           `json:"new_marker,omitempty"`
	VP        int            `json:"vp"`
	BonusCube model.Resource `json:"bonus_cube,omitempty"`
	Draw      scoring.Draw   `json:"draw,omitempty"`
}

// Excavate works the deposit under the piloted submersible: one reward cube into
// the hold when there is room, then one step along the deposit's track.
func Excavate(g *grid.Grid, r model.Rules, seat int, choice ExcavateChoice) (ExcavateResult, error) {
	s := g.State()
	p := s.Player(seat)
	if p == nil {
		return ExcavateResult{}, rules.Invalid("unknown seat %d", seat)
	}
	sub := s.Sub(s.Round.Turn.Sub)
	if sub == nil {
		return ExcavateResult{}, rules.Reject(rules.IllegalAction, "no submersible under control")
	}
	dep := g.DepositBelow(sub.Pos)
	if dep == nil {
		return ExcavateResult{}, rules.Reject(rules.IllegalAction, "submersible %s is not above a deposit", sub.ID)
	}
	for _, d := range s.Round.Turn.Excavated {
		if d == dep.Index {
			return ExcavateResult{}, rules.Reject(rules.IllegalAction, "deposit %d already excavated this turn", dep.Index)
		}
	}
	bonus := choice.Cube
	if bonus != "" {
		c, ok := model.ParseResource(string(bonus))
		if !ok {
			return ExcavateResult{}, rules.Reject(rules.IllegalAction, "unknown cube color %q", choice.Cube)
		}
		bonus = c
	}
	s.Round.Turn.Excavated = append(s.Round.Turn.Excavated, dep.Index)

	out := ExcavateResult{Sub: sub.ID, Deposit: dep.Index}
	if sub.Free() > 0 && s.Supply.Take(dep.Reward, 1) {
		sub.Hold.Add(dep.Reward, 1)
		out.Reward = dep.Reward
	}

	top := len(r.ExcavationTiers)
	cur, has := dep.Markers[seat]
	switch {
	case has && cur >= top:
		return out, nil
	case has:
		next := cur + 1
		if next == top && dep.TopHolder >= 0 && dep.TopHolder != seat {
			return ExcavateResult{}, rules.Reject(rules.TrackSlotOccupied, "top tier of deposit %d belongs to seat %d", dep.Index, dep.TopHolder)
		}
		dep.Markers[seat] = next
		out.Tier = next
	case p.Available > 0:
		p.Available--
		p.Workers--
		dep.Markers[seat] = 1
		out.Tier = 1
		out.NewMarker = true
	default:
		return out, nil
	}
	if out.Tier == top {
		dep.TopHolder = seat
	}

	tier := r.ExcavationTiers[out.Tier-1]
	p.VP += tier.VP
	out.VP = tier.VP
	if tier.AnyCube {
		c := bonus
		if c == "" {
			c = firstInSupply(s.Supply)
		}
		if c != "" && s.Supply.Take(c, 1) {
			p.Bay.Add(c, 1)
			out.BonusCube = c
		}
	}
	if tier.BonusCard {
		d, err := scoring.TakeBonusCard(s, r, seat, choice.Card)
		if err != nil {
			return ExcavateResult{}, err
		}
		out.Draw = d
	}
	return out, nil
}

func firstInSupply(supply model.Cubes) model.Resource {
	for _, res := range model.Resources {
		if supply[res] > 0 {
			return res
		}
	}
	return ""
}

// MoveVessel sails seat's vessel to col across neighbouring columns of equal
// water level.
func MoveVessel(g *grid.Grid, seat, col int) error {
	p := g.State().Player(seat)
	if p == nil {
		return rules.Invalid("unknown seat %d", seat)
	}
	if col == p.Vessel {
		return rules.Reject(rules.IllegalAction, "vessel already at column %d", col)
	}
	for _, c := range g.Reachable(p.Vessel) {
		if c == col {
			return g.MoveVessel(seat, col)
		}
	}
	return rules.Reject(rules.IllegalDestination, "column %d is not reachable from %d", col, p.Vessel)
}
