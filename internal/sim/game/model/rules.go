package model

// Rules holds every tunable constant of a game. It is captured in snapshots so a
// resumed game keeps playing by the rules it started with.
type Rules struct {
	TileColumns  int `json:"tile_columns"`
	CellsPerTile int `json:"cells_per_tile"`
	Height       int `json:"height"`
	WaterRows    int `json:"water_rows"`

	Locks []LockDef `json:"locks"`

	Submersibles        []SubmersibleDef `json:"submersibles"`
	SubmersibleCapacity int              `json:"submersible_capacity"`

	Deposits       int   `json:"deposits"`
	DissolveOffset []int `json:"dissolve_offsets"`

	MinPlayers        int   `json:"min_players"`
	MaxPlayers        int   `json:"max_players"`
	StartMoney        int   `json:"start_money"`
	WorkersSmallGame  int   `json:"workers_small_game"`
	WorkersLargeGame  int   `json:"workers_large_game"`
	LargeGamePlayers  int   `json:"large_game_players"`
	MaxWorkers        int   `json:"max_workers"`
	HireCosts         []int `json:"hire_costs"`
	IncomeAmount      int   `json:"income_amount"`
	DockCostPerCube   int   `json:"dock_cost_per_cube"`
	PickupReward      int   `json:"pickup_reward"`
	MaxElectricity    int   `json:"max_electricity"`
	SunlightGrant     int   `json:"sunlight_grant"`
	PollutionPenalty  int   `json:"pollution_penalty"`
	DieselGrant       int   `json:"diesel_grant"`
	AtmosphereCap     int   `json:"atmosphere_capacity"`
	CubesPerColor     int   `json:"cubes_per_color"`
	MaxRounds         int   `json:"max_rounds"`
	LaunchTarget      int   `json:"launch_target"`
	RocketSlots       int   `json:"rocket_slots"`
	RocketDeckExtra   int   `json:"rocket_deck_extra"`
	RocketLoadVP      []int `json:"rocket_load_vp"`
	MaxBonusCards     int   `json:"max_bonus_cards"`
	BonusRowSize      int   `json:"bonus_row_size"`
	PromoteRounds     []int `json:"promote_rounds"`
	MoneyPerEndVP     int   `json:"money_per_end_vp"`
	ExcavationTiers   []TierDef       `json:"excavation_tiers"`
	BasicSlots        []BonusCard     `json:"basic_slots"`
	BonusCards        []BonusCard     `json:"bonus_cards"`
}

type LockDef struct {
	Boundary int  `json:"boundary"`
	Open     bool `json:"open"`
}

type SubmersibleDef struct {
	ID    string `json:"id"`
	Start Coord  `json:"start"`
}

// TierDef is one step of an excavation track.
type TierDef struct {
	VP        int  `json:"vp"`
	AnyCube   bool `json:"any_cube,omitempty"`
	BonusCard bool `json:"bonus_card,omitempty"`
}

// Effect kinds carried by bonus cards and basic slots.
const (
	EffectMoney       = "MONEY"
	EffectElectricity = "ELECTRICITY"
	EffectVP          = "VP"
	EffectCube        = "CUBE"
	EffectBuyCube     = "BUY_CUBE"
)

type Effect struct {
	Kind   string `json:"kind"`
	Amount int    `json:"amount"`
	// Cost is paid in money before the effect applies.
	Cost int `json:"cost,omitempty"`
}

type BonusCard struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Name   string `json:"name"`
	Effect Effect `json:"effect"`
}

func DefaultRules() Rules {
	var r Rules
	r.ApplyDefaults()
	return r
}

// ApplyDefaults fills every unset field with the standard board.
func (r *Rules) ApplyDefaults() {
	if r.TileColumns <= 0 {
		r.TileColumns = 8
	}
	if r.CellsPerTile <= 0 {
		r.CellsPerTile = 3
	}
	if r.Height <= 0 {
		r.Height = 10
	}
	if r.WaterRows <= 0 {
		r.WaterRows = 3
	}
	if r.Locks == nil {
		r.Locks = []LockDef{
			{Boundary: 1, Open: true},
			{Boundary: 3, Open: false},
			{Boundary: 4, Open: true},
			{Boundary: 6, Open: false},
		}
	}
	if r.Submersibles == nil {
		r.Submersibles = []SubmersibleDef{
			{ID: "A", Start: Coord{X: 2, Y: 5}},
			{ID: "B", Start: Coord{X: 5, Y: 5}},
			{ID: "C", Start: Coord{X: 8, Y: 7}},
			{ID: "D", Start: Coord{X: 11, Y: 7}},
			{ID: "E", Start: Coord{X: 14, Y: 9}},
			{ID: "F", Start: Coord{X: 20, Y: 5}},
		}
	}
	if r.SubmersibleCapacity <= 0 {
		r.SubmersibleCapacity = 4
	}
	if r.Deposits <= 0 {
		r.Deposits = 4
	}
	if r.DissolveOffset == nil {
		r.DissolveOffset = []int{1, 4}
	}
	if r.MinPlayers <= 0 {
		r.MinPlayers = 1
	}
	if r.MaxPlayers <= 0 {
		r.MaxPlayers = 5
	}
	if r.StartMoney <= 0 {
		r.StartMoney = 3
	}
	if r.WorkersSmallGame <= 0 {
		r.WorkersSmallGame = 4
	}
	if r.WorkersLargeGame <= 0 {
		r.WorkersLargeGame = 3
	}
	if r.LargeGamePlayers <= 0 {
		r.LargeGamePlayers = 4
	}
	if r.MaxWorkers <= 0 {
		r.MaxWorkers = 8
	}
	if r.HireCosts == nil {
		r.HireCosts = []int{4, 5, 6, 7, 8}
	}
	if r.IncomeAmount <= 0 {
		r.IncomeAmount = 2
	}
	if r.DockCostPerCube <= 0 {
		r.DockCostPerCube = 1
	}
	if r.PickupReward <= 0 {
		r.PickupReward = 1
	}
	if r.MaxElectricity <= 0 {
		r.MaxElectricity = 9
	}
	if r.SunlightGrant <= 0 {
		r.SunlightGrant = 6
	}
	if r.PollutionPenalty <= 0 {
		r.PollutionPenalty = 2
	}
	if r.DieselGrant <= 0 {
		r.DieselGrant = 6
	}
	if r.AtmosphereCap <= 0 {
		r.AtmosphereCap = 3
	}
	if r.CubesPerColor <= 0 {
		r.CubesPerColor = 30
	}
	if r.MaxRounds <= 0 {
		r.MaxRounds = 7
	}
	if r.LaunchTarget <= 0 {
		r.LaunchTarget = 8
	}
	if r.RocketSlots <= 0 {
		r.RocketSlots = 4
	}
	if r.RocketLoadVP == nil {
		r.RocketLoadVP = []int{1, 2, 3}
	}
	if r.MaxBonusCards <= 0 {
		r.MaxBonusCards = 2
	}
	if r.BonusRowSize <= 0 {
		r.BonusRowSize = 3
	}
	if r.PromoteRounds == nil {
		r.PromoteRounds = []int{2, 4, 6}
	}
	if r.MoneyPerEndVP <= 0 {
		r.MoneyPerEndVP = 5
	}
	if r.ExcavationTiers == nil {
		r.ExcavationTiers = []TierDef{
			{VP: 1},
			{VP: 1, AnyCube: true},
			{VP: 2},
			{VP: 1, BonusCard: true},
			{VP: 3},
		}
	}
	if r.BasicSlots == nil {
		r.BasicSlots = []BonusCard{
			{ID: "basic-1", Number: 1, Name: "Harbor Fees", Effect: Effect{Kind: EffectMoney, Amount: 1}},
			{ID: "basic-2", Number: 2, Name: "Ore Broker", Effect: Effect{Kind: EffectBuyCube, Amount: 1, Cost: 2}},
			{ID: "basic-3", Number: 3, Name: "Grid Tap", Effect: Effect{Kind: EffectElectricity, Amount: 2}},
		}
	}
	if r.BonusCards == nil {
		r.BonusCards = defaultBonusCards()
	}
}

func defaultBonusCards() []BonusCard {
	return []BonusCard{
		{ID: "bc-01", Number: 1, Name: "Tidal Turbine", Effect: Effect{Kind: EffectElectricity, Amount: 3}},
		{ID: "bc-02", Number: 2, Name: "Mining Grant", Effect: Effect{Kind: EffectMoney, Amount: 3}},
		{ID: "bc-03", Number: 3, Name: "Press Coverage", Effect: Effect{Kind: EffectVP, Amount: 2}},
		{ID: "bc-04", Number: 4, Name: "Sample Return", Effect: Effect{Kind: EffectCube, Amount: 1}},
		{ID: "bc-05", Number: 5, Name: "Reactor Lease", Effect: Effect{Kind: EffectElectricity, Amount: 4}},
		{ID: "bc-06", Number: 6, Name: "Cargo Futures", Effect: Effect{Kind: EffectMoney, Amount: 4}},
		{ID: "bc-07", Number: 7, Name: "Launch Sponsor", Effect: Effect{Kind: EffectVP, Amount: 3}},
		{ID: "bc-08", Number: 8, Name: "Ice Core Drill", Effect: Effect{Kind: EffectCube, Amount: 2}},
		{ID: "bc-09", Number: 9, Name: "Bulk Smelter", Effect: Effect{Kind: EffectBuyCube, Amount: 2, Cost: 1}},
		{ID: "bc-10", Number: 10, Name: "Orbital Relay", Effect: Effect{Kind: EffectElectricity, Amount: 5}},
		{ID: "bc-11", Number: 11, Name: "Venture Capital", Effect: Effect{Kind: EffectMoney, Amount: 5}},
		{ID: "bc-12", Number: 12, Name: "Science Prize", Effect: Effect{Kind: EffectVP, Amount: 4}},
	}
}

// Width is the number of cell columns.
func (r Rules) Width() int { return r.TileColumns * r.CellsPerTile }

func (r Rules) TotalTiles() int { return r.TileColumns * r.WaterRows }

func (r Rules) StartingWorkers(players int) int {
	if players >= r.LargeGamePlayers {
		return r.WorkersLargeGame
	}
	return r.WorkersSmallGame
}

// HireCost returns the price of the next worker after hired workers.
func (r Rules) HireCost(hired int) int {
	if len(r.HireCosts) == 0 {
		return 0
	}
	if hired >= len(r.HireCosts) {
		return r.HireCosts[len(r.HireCosts)-1]
	}
	return r.HireCosts[hired]
}

// LoadVP returns the VP for the n-th (0-based) cube loaded in one turn.
func (r Rules) LoadVP(n int) int {
	if len(r.RocketLoadVP) == 0 {
		return 0
	}
	if n >= len(r.RocketLoadVP) {
		return r.RocketLoadVP[len(r.RocketLoadVP)-1]
	}
	return r.RocketLoadVP[n]
}

// DepositWidth is the number of cell columns owned by each deposit.
func (r Rules) DepositWidth() int {
	if r.Deposits <= 0 {
		return r.Width()
	}
	return r.Width() / r.Deposits
}
