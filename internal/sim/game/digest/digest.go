// Package digest hashes a game state into a stable hex string. Maps are
// written in sorted key order and zero counts are skipped, so two states that
// differ only in nil versus empty collections hash the same.
package digest

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"sort"

	"lineae.dev/internal/sim/game/model"
)

type writer struct {
	h   hash.Hash
	tmp [8]byte
}

func (w *writer) i(v int) {
	binary.LittleEndian.PutUint64(w.tmp[:], uint64(int64(v)))
	w.h.Write(w.tmp[:])
}

func (w *writer) b(v bool) {
	if v {
		w.h.Write([]byte{1})
		return
	}
	w.h.Write([]byte{0})
}

func (w *writer) s(v string) {
	w.i(len(v))
	w.h.Write([]byte(v))
}

func (w *writer) cubes(c model.Cubes) {
	keys := c.SortedResources()
	w.i(len(keys))
	for _, r := range keys {
		w.s(string(r))
		w.i(c[r])
	}
}

func (w *writer) card(c model.BonusCard) {
	w.s(c.ID)
	w.i(c.Number)
	w.s(c.Effect.Kind)
	w.i(c.Effect.Amount)
	w.i(c.Effect.Cost)
}

func (w *writer) cards(cs []model.BonusCard) {
	w.i(len(cs))
	for _, c := range cs {
		w.card(c)
	}
}

func (w *writer) rockets(rs []model.Rocket) {
	w.i(len(rs))
	for _, r := range rs {
		w.s(r.ID)
		w.i(r.Col)
		w.b(r.Launched)
		w.i(len(r.Slots))
		for _, sl := range r.Slots {
			w.s(string(sl.Want))
			w.s(string(sl.Have))
		}
	}
}

// State returns the sha256 of s in canonical form.
func State(s *model.State) string {
	w := &writer{h: sha256.New()}
	w.i(s.Width)
	w.i(s.Height)
	w.i(s.WaterRows)

	for i, c := range s.Cells {
		if c.Empty() {
			continue
		}
		w.i(i)
		w.s(string(c.Cube))
		w.s(c.Sub)
	}
	w.i(-1)
	for _, t := range s.Tiles {
		w.b(t.OnBoard)
		if t.OnBoard {
			w.i(t.Col)
			w.i(t.Row)
		}
	}
	for _, l := range s.Locks {
		w.i(l.Boundary)
		w.b(l.Open)
	}

	for _, d := range s.Deposits {
		w.s(string(d.Primary))
		w.s(string(d.Secondary))
		w.s(string(d.Reward))
		w.s(string(d.Setup))
		w.i(d.TopHolder)
		seats := make([]int, 0, len(d.Markers))
		for seat := range d.Markers {
			seats = append(seats, seat)
		}
		sort.Ints(seats)
		w.i(len(seats))
		for _, seat := range seats {
			w.i(seat)
			w.i(d.Markers[seat])
		}
	}
	for _, sub := range s.Submersibles {
		w.s(sub.ID)
		w.i(sub.Pos.X)
		w.i(sub.Pos.Y)
		w.cubes(sub.Hold)
	}
	w.rockets(s.Rockets)
	w.rockets(s.RocketDeck)
	w.i(len(s.Atmosphere))
	for _, n := range s.Atmosphere {
		w.i(n)
	}

	w.i(len(s.Players))
	for _, p := range s.Players {
		w.i(p.Seat)
		w.i(p.Money)
		w.i(p.Electricity)
		w.i(p.VP)
		w.i(p.Workers)
		w.i(p.Available)
		w.i(p.HireSupply)
		w.i(p.Hired)
		w.i(p.Vessel)
		w.b(p.Passed)
		w.cubes(p.Bay)
		w.cards(p.Cards)
		w.i(len(p.Launched))
		for _, id := range p.Launched {
			w.s(id)
		}
	}
	w.cards(s.BasicSlots)
	w.cards(s.BonusRow)
	w.cards(s.BonusDeck)
	w.cubes(s.Supply)
	w.i(s.Launches)

	rd := s.Round
	w.i(rd.Number)
	w.i(rd.Jupiter)
	w.s(string(rd.Phase))
	w.i(rd.Leader)
	w.i(rd.Marker)
	w.i(rd.Current)
	w.i(rd.Turn.Seq)
	w.s(string(rd.Turn.Mode))
	w.s(rd.Turn.Sub)
	w.i(rd.Turn.Steps)
	w.i(rd.Turn.LoadedCubes)
	w.i(len(rd.Turn.Excavated))
	for _, d := range rd.Turn.Excavated {
		w.i(d)
	}
	spaces := make([]string, 0, len(rd.Placements))
	for k, v := range rd.Placements {
		if len(v) > 0 {
			spaces = append(spaces, k)
		}
	}
	sort.Strings(spaces)
	for _, k := range spaces {
		w.s(k)
		w.i(len(rd.Placements[k]))
		for _, pl := range rd.Placements[k] {
			w.i(pl.Seat)
			w.i(pl.Workers)
			w.b(pl.Active)
		}
	}
	w.b(s.Final != nil)
	if s.Final != nil {
		w.i(s.Final.Winner)
		for _, st := range s.Final.Standings {
			w.i(st.Seat)
			w.i(st.VP)
			w.i(st.Placement)
		}
	}
	return hex.EncodeToString(w.h.Sum(nil))
}
