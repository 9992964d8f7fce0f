package model

// Clone returns a deep copy that shares no mutable memory with s.
func (s *State) Clone() *State {
	out := *s
	out.Cells = append([]Cell(nil), s.Cells...)
	out.Tiles = append([]WaterTile(nil), s.Tiles...)
	out.Locks = append([]Lock(nil), s.Locks...)
	out.Atmosphere = append([]int(nil), s.Atmosphere...)

	out.Deposits = make([]Deposit, len(s.Deposits))
	for i, d := range s.Deposits {
		d.DissolveCols = append([]int(nil), d.DissolveCols...)
		m := make(map[int]int, len(d.Markers))
		for k, v := range d.Markers {
			m[k] = v
		}
		d.Markers = m
		out.Deposits[i] = d
	}

	out.Submersibles = make([]Submersible, len(s.Submersibles))
	for i, sub := range s.Submersibles {
		sub.Hold = sub.Hold.Clone()
		out.Submersibles[i] = sub
	}

	out.Rockets = cloneRockets(s.Rockets)
	out.RocketDeck = cloneRockets(s.RocketDeck)

	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		p.Bay = p.Bay.Clone()
		p.Cards = append([]BonusCard(nil), p.Cards...)
		p.Launched = append([]string(nil), p.Launched...)
		out.Players[i] = p
	}

	out.BasicSlots = append([]BonusCard(nil), s.BasicSlots...)
	out.BonusRow = append([]BonusCard(nil), s.BonusRow...)
	out.BonusDeck = append([]BonusCard(nil), s.BonusDeck...)
	out.Supply = s.Supply.Clone()
	out.CubeTotals = s.CubeTotals.Clone()

	out.Round.Turn.Excavated = append([]int(nil), s.Round.Turn.Excavated...)
	out.Round.Placements = make(map[string][]Placement, len(s.Round.Placements))
	for k, v := range s.Round.Placements {
		out.Round.Placements[k] = append([]Placement(nil), v...)
	}

	if s.Final != nil {
		f := *s.Final
		f.Standings = append([]Standing(nil), s.Final.Standings...)
		out.Final = &f
	}
	return &out
}

func cloneRockets(in []Rocket) []Rocket {
	if in == nil {
		return nil
	}
	out := make([]Rocket, len(in))
	for i, r := range in {
		r.Slots = append([]RocketSlot(nil), r.Slots...)
		out[i] = r
	}
	return out
}

// Normalize replaces nil maps left behind by decoders with empty ones.
func (s *State) Normalize() {
	if s.Supply == nil {
		s.Supply = Cubes{}
	}
	if s.CubeTotals == nil {
		s.CubeTotals = Cubes{}
	}
	for i := range s.Deposits {
		if s.Deposits[i].Markers == nil {
			s.Deposits[i].Markers = map[int]int{}
		}
	}
	for i := range s.Submersibles {
		if s.Submersibles[i].Hold == nil {
			s.Submersibles[i].Hold = Cubes{}
		}
	}
	for i := range s.Players {
		if s.Players[i].Bay == nil {
			s.Players[i].Bay = Cubes{}
		}
	}
	if s.Round.Placements == nil {
		s.Round.Placements = map[string][]Placement{}
	}
}
