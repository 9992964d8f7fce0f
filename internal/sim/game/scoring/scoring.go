// Package scoring owns rocket loading, bonus-card draws and the end-of-game
// ledger.
package scoring

import (
	"sort"

	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
)

// Pick names the bonus card to take and, when the hand overflows, the card to
// give back. Empty fields fall back to the lowest-numbered revealed card and the
// oldest held card.
type Pick struct {
	Card   string `json:"card,omitempty"`
	Return string `json:"return,omitempty"`
}

type Draw struct {
	Taken    string `json:"taken,omitempty"`
	Returned string `json:"returned,omitempty"`
}

type LoadResult struct {
	Rocket   string           `json:"rocket"`
	Col      int              `json:"col"`
	Loaded   []model.Resource `json:"loaded"`
	VP       int              `json:"vp"`
	Launched bool             `json:"launched,omitempty"`
	Draw     Draw             `json:"draw,omitempty"`
	// Replacement is the rocket drawn onto the column after a launch.
	Replacement string `json:"replacement,omitempty"`
}

// LoadRocket moves cubes from the player's cargo bay onto the rocket at the
// vessel's column. A cube takes an open slot of its own color first and the
// wildcard otherwise. The n-th cube loaded in a turn scores r.LoadVP(n).
func LoadRocket(s *model.State, r model.Rules, seat int, cubes []model.Resource, pick Pick) (LoadResult, error) {
	p := s.Player(seat)
	if p == nil {
		return LoadResult{}, rules.Invalid("unknown seat %d", seat)
	}
	if len(cubes) == 0 {
		return LoadResult{}, rules.Reject(rules.IllegalAction, "no cubes to load")
	}
	rk := s.RocketAt(p.Vessel)
	if rk == nil {
		return LoadResult{}, rules.Reject(rules.IllegalAction, "no rocket at column %d", p.Vessel)
	}
	need := model.CountList(cubes)
	for _, res := range need.SortedResources() {
		if p.Bay[res] < need[res] {
			return LoadResult{}, rules.Reject(rules.CannotAffordAction, "cargo bay holds %d %s, need %d", p.Bay[res], res, need[res])
		}
	}

	out := LoadResult{Rocket: rk.ID, Col: rk.Col}
	for _, c := range cubes {
		slot := openSlot(rk, c)
		if slot < 0 {
			return LoadResult{}, rules.Reject(rules.IllegalAction, "rocket %s has no open slot for %s", rk.ID, c)
		}
		rk.Slots[slot].Have = c
		p.Bay.Take(c, 1)
		vp := r.LoadVP(s.Round.Turn.LoadedCubes)
		s.Round.Turn.LoadedCubes++
		p.VP += vp
		out.VP += vp
		out.Loaded = append(out.Loaded, c)
	}
	if !rk.Full() {
		return out, nil
	}

	for i := range rk.Slots {
		s.Supply.Add(rk.Slots[i].Have, 1)
		rk.Slots[i].Have = ""
	}
	rk.Launched = true
	p.Launched = append(p.Launched, rk.ID)
	s.Launches++
	out.Launched = true
	if len(s.RocketDeck) > 0 {
		next := s.RocketDeck[0]
		s.RocketDeck = s.RocketDeck[1:]
		next.Col = rk.Col
		s.Rockets = append(s.Rockets, next)
		out.Replacement = next.ID
	}
	d, err := TakeBonusCard(s, r, seat, pick)
	if err != nil {
		return LoadResult{}, err
	}
	out.Draw = d
	return out, nil
}

func openSlot(rk *model.Rocket, c model.Resource) int {
	wild := -1
	for i, sl := range rk.Slots {
		if sl.Have != "" {
			continue
		}
		if sl.Want == c {
			return i
		}
		if sl.Want == "" && wild < 0 {
			wild = i
		}
	}
	return wild
}

// TakeBonusCard gives seat one revealed bonus card and refills the row. An
// empty row is a no-op.
func TakeBonusCard(s *model.State, r model.Rules, seat int, pick Pick) (Draw, error) {
	p := s.Player(seat)
	if p == nil {
		return Draw{}, rules.Invalid("unknown seat %d", seat)
	}
	if len(s.BonusRow) == 0 {
		return Draw{}, nil
	}
	idx := -1
	if pick.Card != "" {
		for i, c := range s.BonusRow {
			if c.ID == pick.Card {
				idx = i
			}
		}
		if idx < 0 {
			return Draw{}, rules.Reject(rules.IllegalAction, "bonus card %q is not revealed", pick.Card)
		}
	} else {
		idx = LowestCard(s.BonusRow)
	}
	card := s.BonusRow[idx]
	s.BonusRow = append(s.BonusRow[:idx:idx], s.BonusRow[idx+1:]...)
	p.Cards = append(p.Cards, card)
	d := Draw{Taken: card.ID}

	if len(p.Cards) > r.MaxBonusCards {
		ret := 0
		if pick.Return != "" {
			ret = -1
			for i, c := range p.Cards {
				if c.ID == pick.Return {
					ret = i
				}
			}
			if ret < 0 {
				return Draw{}, rules.Reject(rules.IllegalAction, "bonus card %q is not held", pick.Return)
			}
		}
		back := p.Cards[ret]
		p.Cards = append(p.Cards[:ret:ret], p.Cards[ret+1:]...)
		s.BonusDeck = append(s.BonusDeck, back)
		d.Returned = back.ID
	}
	RefillRow(s, r)
	return d, nil
}

// LowestCard returns the index of the lowest-numbered card, or -1.
func LowestCard(cards []model.BonusCard) int {
	best := -1
	for i, c := range cards {
		if best < 0 || c.Number < cards[best].Number {
			best = i
		}
	}
	return best
}

// RefillRow tops the revealed row up from the deck.
func RefillRow(s *model.State, r model.Rules) {
	for len(s.BonusRow) < r.BonusRowSize && len(s.BonusDeck) > 0 {
		s.BonusRow = append(s.BonusRow, s.BonusDeck[0])
		s.BonusDeck = s.BonusDeck[1:]
	}
}

// Finalize converts money and cargo pairs into VP and ranks the players: most
// VP, then most launches, then lowest seat.
func Finalize(s *model.State, r model.Rules) *model.Final {
	out := &model.Final{Standings: make([]model.Standing, 0, len(s.Players))}
	for _, p := range s.Players {
		st := model.Standing{Seat: p.Seat, Launches: len(p.Launched)}
		if r.MoneyPerEndVP > 0 {
			st.MoneyVP = p.Money / r.MoneyPerEndVP
		}
		for _, n := range p.Bay {
			st.PairVP += n / 2
		}
		st.VP = p.VP + st.MoneyVP + st.PairVP
		out.Standings = append(out.Standings, st)
	}
	sort.SliceStable(out.Standings, func(i, j int) bool {
		a, b := out.Standings[i], out.Standings[j]
		if a.VP != b.VP {
			return a.VP > b.VP
		}
		if a.Launches != b.Launches {
			return a.Launches > b.Launches
		}
		return a.Seat < b.Seat
	})
	for i := range out.Standings {
		out.Standings[i].Placement = i + 1
	}
	out.Winner = -1
	if len(out.Standings) > 0 {
		out.Winner = out.Standings[0].Seat
	}
	return out
}
