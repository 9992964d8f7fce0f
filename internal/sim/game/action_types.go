package game

import (
	"fmt"

	"lineae.dev/internal/sim/game/model"
)

const (
	ActionPlace           = "PLACE"
	ActionPass            = "PASS"
	ActionMoveVessel      = "MOVE_VESSEL"
	ActionPlayBonusCard   = "PLAY_BONUS_CARD"
	ActionDiesel          = "DIESEL"
	ActionMoveSubmersible = "MOVE_SUBMERSIBLE"
	ActionExcavate        = "EXCAVATE"
	ActionDock            = "DOCK"
	ActionEndTurn         = "END_TURN"
)

var supportedActionTypes = []string{
	ActionPlace,
	ActionPass,
	ActionMoveVessel,
	ActionPlayBonusCard,
	ActionDiesel,
	ActionMoveSubmersible,
	ActionExcavate,
	ActionDock,
	ActionEndTurn,
}

// SupportedActionTypes returns every action type the engine accepts.
func SupportedActionTypes() []string {
	return append([]string(nil), supportedActionTypes...)
}

// Action is one submission. Only the fields its Type reads are meaningful.
type Action struct {
	Type string `json:"type"`

	// PLACE
	Space   string `json:"space,omitempty"`
	Workers int    `json:"workers,omitempty"`
	Lock    int    `json:"lock,omitempty"`

	// MOVE_SUBMERSIBLE
	Path []model.Coord `json:"path,omitempty"`

	// DOCK, and PLACE on the rocket space
	Cubes []model.Resource `json:"cubes,omitempty"`

	// MOVE_VESSEL, DIESEL
	Column int `json:"column,omitempty"`

	// Choices for effects that grant a cube or a bonus card.
	Cube       model.Resource `json:"cube,omitempty"`
	Card       string         `json:"card,omitempty"`
	ReturnCard string         `json:"return_card,omitempty"`
}

// phaseActions lists what each phase admits; everything else is rejected with
// ActionUnavailablePhase.
var phaseActions = map[model.Phase][]string{
	model.PhaseSunlight: {ActionDiesel},
	model.PhaseAction: {
		ActionPlace, ActionPass, ActionMoveVessel, ActionPlayBonusCard,
		ActionMoveSubmersible, ActionExcavate, ActionDock, ActionEndTurn,
	},
}

// pilotingActions are the only turn actions while a submersible is under control,
// besides the free actions.
var pilotingActions = map[string]bool{
	ActionMoveSubmersible: true,
	ActionExcavate:        true,
	ActionDock:            true,
	ActionEndTurn:         true,
}

var freeActions = map[string]bool{
	ActionMoveVessel:    true,
	ActionPlayBonusCard: true,
}

func allowedInPhase(p model.Phase, typ string) bool {
	for _, t := range phaseActions[p] {
		if t == typ {
			return true
		}
	}
	return false
}

func validateActionDispatchMap() error {
	return validateDispatchMap("actionDispatch", actionDispatch, supportedActionTypes)
}

func validateDispatchMap[T any](name string, handlers map[string]T, supported []string) error {
	allowed := make(map[string]struct{}, len(supported))
	for _, k := range supported {
		if k == "" {
			return fmt.Errorf("%s: empty supported key", name)
		}
		if _, ok := allowed[k]; ok {
			return fmt.Errorf("%s: duplicate supported key %q", name, k)
		}
		allowed[k] = struct{}{}
	}
	if len(handlers) != len(allowed) {
		return fmt.Errorf("%s size mismatch: got=%d want=%d", name, len(handlers), len(allowed))
	}
	for k := range handlers {
		if _, ok := allowed[k]; !ok {
			return fmt.Errorf("%s has unsupported key %q", name, k)
		}
	}
	return nil
}
