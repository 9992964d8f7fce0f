package game

import "lineae.dev/internal/sim/game/rules"

const (
	EventPlaced         = "PLACED"
	EventBumped         = "BUMPED"
	EventPiloting       = "PILOTING"
	EventWaterFlow      = "WATER_FLOW"
	EventSubMoved       = "SUB_MOVED"
	EventNotice         = "NOTICE"
	EventExcavated      = "EXCAVATED"
	EventDocked         = "DOCKED"
	EventRocketLoaded   = "ROCKET_LOADED"
	EventRocketLaunched = "ROCKET_LAUNCHED"
	EventEffect         = "EFFECT"
	EventVesselMoved    = "VESSEL_MOVED"
	EventCardPlayed     = "CARD_PLAYED"
	EventDiesel         = "DIESEL"
	EventPassed         = "PASSED"
	EventTurn           = "TURN"
	EventPhase          = "PHASE"
	EventSunlight       = "SUNLIGHT"
	EventDissolved      = "DISSOLVED"
	EventCardPromoted   = "CARD_PROMOTED"
	EventGameEnd        = "GAME_END"
)

// Event records one consequence of a submission. Seat is -1 for board-wide
// events.
type Event struct {
	Type string     `json:"type"`
	Seat int        `json:"seat"`
	Code rules.Code `json:"code,omitempty"`
	Data any        `json:"data,omitempty"`
}

// Result is returned for every committed submission.
type Result struct {
	State  Snapshot `json:"state"`
	Events []Event  `json:"events"`
}
