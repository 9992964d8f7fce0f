// Package movement resolves submersible and vessel movement, cube pickup,
// docking and excavation. Callers hand it a working copy of the state and
// discard that copy when an error comes back.
package movement

import (
	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
)

// MoveResult describes a committed submersible move.
type MoveResult struct {
	Sub       string           `json:"sub"`
	From      model.Coord      `json:"from"`
	To        model.Coord      `json:"to"`
	Steps     int              `json:"steps"`
	Requested int              `json:"requested"`
	Paid      int              `json:"paid"`
	PickedUp  []model.Resource `json:"picked_up,omitempty"`
	Earned    int              `json:"earned"`
	// Partial is set when electricity ran out before the end of the path.
	Partial bool `json:"partial,omitempty"`
}

// stepCost is the electricity price of the n-th step (0-based) of a piloting turn.
func stepCost(n int) int {
	if n == 0 {
		return 0
	}
	return 1
}

// Budget returns how many more steps seat can afford this piloting turn.
func Budget(s *model.State, seat int) int {
	p := s.Player(seat)
	if p == nil {
		return 0
	}
	if s.Round.Turn.Steps == 0 {
		return p.Electricity + 1
	}
	return p.Electricity
}

// Pilot moves the piloted submersible along path on behalf of seat.
//
// Every step must be an orthogonal move into an in-bounds navigable cell, and
// the terminal cell must hold neither a cube nor another submersible before the
// move. When the player cannot pay for the whole path the submersible stops on
// the last affordable cell that was free; the result is then marked Partial.
func Pilot(g *grid.Grid, r model.Rules, seat int, path []model.Coord) (MoveResult, error) {
	s := g.State()
	p := s.Player(seat)
	if p == nil {
		return MoveResult{}, rules.Invalid("unknown seat %d", seat)
	}
	sub := s.Sub(s.Round.Turn.Sub)
	if sub == nil {
		return MoveResult{}, rules.Reject(rules.IllegalAction, "no submersible under control")
	}
	if len(path) == 0 {
		return MoveResult{}, rules.Reject(rules.IllegalAction, "empty path")
	}

	prev := sub.Pos
	for i, c := range path {
		if !prev.Adjacent(c) {
			return MoveResult{}, rules.Reject(rules.IllegalDestination, "step %d (%d,%d) is not adjacent to (%d,%d)", i, c.X, c.Y, prev.X, prev.Y)
		}
		if !g.Navigable(c) {
			return MoveResult{}, rules.Reject(rules.IllegalDestination, "step %d (%d,%d) is not navigable", i, c.X, c.Y)
		}
		prev = c
	}
	free := func(c model.Coord) bool {
		cell := g.Cell(c)
		return cell.Cube == "" && (cell.Sub == "" || cell.Sub == sub.ID)
	}
	last := path[len(path)-1]
	if !free(last) {
		return MoveResult{}, rules.Reject(rules.IllegalDestination, "cell (%d,%d) is occupied", last.X, last.Y)
	}

	steps, cost := len(path), 0
	for i := 0; i < len(path); i++ {
		cost += stepCost(s.Round.Turn.Steps + i)
	}
	need, partial := cost, false
	if cost > p.Electricity {
		partial = true
		steps, cost = 0, 0
		paid := 0
		for i := 0; i < len(path); i++ {
			paid += stepCost(s.Round.Turn.Steps + i)
			if paid > p.Electricity {
				break
			}
			if free(path[i]) {
				steps, cost = i+1, paid
			}
		}
		if steps == 0 {
			return MoveResult{}, rules.Reject(rules.InsufficientElectricity, "need %d electricity, have %d", need, p.Electricity)
		}
	}

	res := MoveResult{Sub: sub.ID, From: sub.Pos, To: path[steps-1], Steps: steps, Requested: len(path), Paid: cost, Partial: partial}
	for _, c := range path[:steps] {
		if g.Cell(c).Cube == "" || sub.Free() <= 0 {
			continue
		}
		cube, err := g.RemoveCube(c)
		if err != nil {
			return MoveResult{}, err
		}
		sub.Hold.Add(cube, 1)
		p.Money += r.PickupReward
		res.PickedUp = append(res.PickedUp, cube)
		res.Earned += r.PickupReward
	}
	if err := g.MoveSub(sub.ID, res.To); err != nil {
		return MoveResult{}, err
	}
	p.Electricity -= cost
	s.Round.Turn.Steps += steps
	return res, nil
}

var directions = []model.Coord{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// Destinations lists every cell the piloted submersible may end on this step,
// each with a shortest path to it. Paths never exceed the player's budget.
func Destinations(g *grid.Grid, seat int) []Route {
	s := g.State()
	sub := s.Sub(s.Round.Turn.Sub)
	if sub == nil {
		return nil
	}
	budget := Budget(s, seat)
	if budget <= 0 {
		return nil
	}
	type node struct {
		at   model.Coord
		dist int
	}
	parent := map[model.Coord]model.Coord{sub.Pos: sub.Pos}
	queue := []node{{at: sub.Pos}}
	var out []Route
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.at != sub.Pos {
			cell := g.Cell(n.at)
			if cell.Cube == "" && cell.Sub == "" {
				out = append(out, Route{To: n.at, Path: trace(parent, sub.Pos, n.at)})
			}
		}
		if n.dist == budget {
			continue
		}
		for _, d := range directions {
			next := n.at.Add(d)
			if _, seen := parent[next]; seen || !g.Navigable(next) {
				continue
			}
			parent[next] = n.at
			queue = append(queue, node{at: next, dist: n.dist + 1})
		}
	}
	return out
}

// Route is one reachable destination and a path to it.
type Route struct {
	To   model.Coord   `json:"to"`
	Path []model.Coord `json:"path"`
}

func trace(parent map[model.Coord]model.Coord, from, to model.Coord) []model.Coord {
	var rev []model.Coord
	for at := to; at != from; at = parent[at] {
		rev = append(rev, at)
	}
	out := make([]model.Coord, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}
