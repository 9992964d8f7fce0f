package model

type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) Add(d Coord) Coord { return Coord{X: c.X + d.X, Y: c.Y + d.Y} }

// Adjacent reports whether c and d differ by exactly one orthogonal step.
func (c Coord) Adjacent(d Coord) bool {
	dx, dy := c.X-d.X, c.Y-d.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

type Phase string

const (
	PhaseSunlight Phase = "SUNLIGHT"
	PhaseAction   Phase = "ACTION"
	PhaseCleanup  Phase = "CLEANUP"
	PhaseGameEnd  Phase = "GAME_END"
)

// Cell is one ocean cell. Sub holds a submersible id or "".
type Cell struct {
	Cube Resource `json:"cube,omitempty"`
	Sub  string   `json:"sub,omitempty"`
}

func (c Cell) Empty() bool { return c.Cube == "" && c.Sub == "" }

// WaterTile covers one tile column at one water-layer row while OnBoard.
type WaterTile struct {
	ID      int  `json:"id"`
	OnBoard bool `json:"on_board"`
	Col     int  `json:"col"`
	Row     int  `json:"row"`
}

type Lock struct {
	Boundary int  `json:"boundary"`
	Open     bool `json:"open"`
}

type Deposit struct {
	Index     int      `json:"index"`
	Primary   Resource `json:"primary"`
	Secondary Resource `json:"secondary"`
	Reward    Resource `json:"reward"`
	Setup     Resource `json:"setup"`
	// DissolveCols are cell columns, primary first.
	DissolveCols []int `json:"dissolve_cols"`
	// Markers maps seat -> tier (1-based).
	Markers   map[int]int `json:"markers"`
	TopHolder int         `json:"top_holder"`
}

type Submersible struct {
	ID       string `json:"id"`
	Pos      Coord  `json:"pos"`
	Start    Coord  `json:"start"`
	Capacity int    `json:"capacity"`
	Hold     Cubes  `json:"hold"`
}

func (s *Submersible) Free() int { return s.Capacity - s.Hold.Total() }

// RocketSlot wants a color, or any color when Want is "".
type RocketSlot struct {
	Want Resource `json:"want,omitempty"`
	Have Resource `json:"have,omitempty"`
}

type Rocket struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Col      int          `json:"col"`
	Slots    []RocketSlot `json:"slots"`
	Launched bool         `json:"launched"`
}

func (r *Rocket) Full() bool {
	for _, s := range r.Slots {
		if s.Have == "" {
			return false
		}
	}
	return true
}

type Player struct {
	Seat        int    `json:"seat"`
	Name        string `json:"name"`
	Money       int    `json:"money"`
	Electricity int    `json:"electricity"`
	VP          int    `json:"vp"`

	// Workers counts every worker the player owns; Available are in reserve now.
	Workers    int `json:"workers"`
	Available  int `json:"available"`
	HireSupply int `json:"hire_supply"`
	Hired      int `json:"hired"`

	Vessel   int         `json:"vessel"`
	Bay      Cubes       `json:"bay"`
	Cards    []BonusCard `json:"cards"`
	Launched []string    `json:"launched"`
	Passed   bool        `json:"passed"`
}

func (p *Player) Deployed() int { return p.Workers - p.Available }

type Placement struct {
	Seat    int  `json:"seat"`
	Workers int  `json:"workers"`
	Active  bool `json:"active"`
}

type TurnMode string

const (
	TurnNormal   TurnMode = ""
	TurnPiloting TurnMode = "PILOTING"
)

// Turn tracks what the acting player has done inside the current turn.
type Turn struct {
	Seq         int      `json:"seq"`
	Mode        TurnMode `json:"mode,omitempty"`
	Sub         string   `json:"sub,omitempty"`
	Steps       int      `json:"steps"`
	Excavated   []int    `json:"excavated,omitempty"`
	LoadedCubes int      `json:"loaded_cubes"`
}

type Round struct {
	Number  int   `json:"number"`
	Jupiter int   `json:"jupiter"`
	Phase   Phase `json:"phase"`
	// Leader acts first this round; Marker holds the first-player marker for the next.
	Leader  int  `json:"leader"`
	Marker  int  `json:"marker"`
	Current int  `json:"current"`
	Turn    Turn `json:"turn"`

	Placements map[string][]Placement `json:"placements"`
}

type Standing struct {
	Seat      int `json:"seat"`
	VP        int `json:"vp"`
	MoneyVP   int `json:"money_vp"`
	PairVP    int `json:"pair_vp"`
	Launches  int `json:"launches"`
	Placement int `json:"placement"`
}

type Final struct {
	Standings []Standing `json:"standings"`
	Winner    int        `json:"winner"`
}

// State is the complete mutable game state. Everything is addressed by index or id.
type State struct {
	Width     int `json:"width"`
	Height    int `json:"height"`
	WaterRows int `json:"water_rows"`
	TileCols  int `json:"tile_cols"`
	CellsPer  int `json:"cells_per_tile"`

	Cells        []Cell        `json:"cells"`
	Tiles        []WaterTile   `json:"tiles"`
	Locks        []Lock        `json:"locks"`
	Deposits     []Deposit     `json:"deposits"`
	Submersibles []Submersible `json:"submersibles"`
	Rockets      []Rocket      `json:"rockets"`
	RocketDeck   []Rocket      `json:"rocket_deck"`
	Atmosphere   []int         `json:"atmosphere"`
	Players      []Player      `json:"players"`

	BasicSlots []BonusCard `json:"basic_slots"`
	BonusRow   []BonusCard `json:"bonus_row"`
	BonusDeck  []BonusCard `json:"bonus_deck"`

	Supply     Cubes `json:"supply"`
	CubeTotals Cubes `json:"cube_totals"`
	Launches   int   `json:"launches"`

	Round Round  `json:"round"`
	Final *Final `json:"final,omitempty"`
}

func (s *State) Player(seat int) *Player {
	if seat < 0 || seat >= len(s.Players) {
		return nil
	}
	return &s.Players[seat]
}

func (s *State) Sub(id string) *Submersible {
	for i := range s.Submersibles {
		if s.Submersibles[i].ID == id {
			return &s.Submersibles[i]
		}
	}
	return nil
}

func (s *State) Lock(boundary int) *Lock {
	for i := range s.Locks {
		if s.Locks[i].Boundary == boundary {
			return &s.Locks[i]
		}
	}
	return nil
}

// RocketAt returns the unlaunched rocket at a tile column.
func (s *State) RocketAt(col int) *Rocket {
	for i := range s.Rockets {
		if s.Rockets[i].Col == col && !s.Rockets[i].Launched {
			return &s.Rockets[i]
		}
	}
	return nil
}

// CubeCensus counts every cube by location class, for conservation checks.
func (s *State) CubeCensus() Cubes {
	out := s.Supply.Clone()
	for _, c := range s.Cells {
		if c.Cube != "" {
			out.Add(c.Cube, 1)
		}
	}
	for _, sub := range s.Submersibles {
		for r, n := range sub.Hold {
			out.Add(r, n)
		}
	}
	for _, p := range s.Players {
		for r, n := range p.Bay {
			out.Add(r, n)
		}
	}
	for _, rk := range s.Rockets {
		if rk.Launched {
			continue
		}
		for _, sl := range rk.Slots {
			if sl.Have != "" {
				out.Add(sl.Have, 1)
			}
		}
	}
	for _, n := range s.Atmosphere {
		out.Add(Hydrocarbon, n)
	}
	return out
}
