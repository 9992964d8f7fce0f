package protocol

import "lineae.dev/internal/sim/game/rules"

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion    = "E_PROTO_VERSION"

	// Seating.
	ErrSeatTaken   = "E_SEAT_TAKEN"
	ErrNotSeated   = "E_NOT_SEATED"
	ErrUnknownName = "E_UNKNOWN_PLAYER"

	// Rule layer.
	ErrUnknownAction           = "E_UNKNOWN_ACTION"
	ErrNotYourTurn             = "E_NOT_YOUR_TURN"
	ErrPhase                   = "E_PHASE"
	ErrIllegalAction           = "E_ILLEGAL_ACTION"
	ErrIllegalDestination      = "E_ILLEGAL_DESTINATION"
	ErrInsufficientElectricity = "E_INSUFFICIENT_ELECTRICITY"
	ErrCannotAfford            = "E_CANNOT_AFFORD"
	ErrTrackSlotOccupied       = "E_TRACK_SLOT_OCCUPIED"
	ErrBumpTooSmall            = "E_BUMP_TOO_SMALL"
	ErrInternal                = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest:         {},
	ErrProtoVersion:            {},
	ErrSeatTaken:               {},
	ErrNotSeated:               {},
	ErrUnknownName:             {},
	ErrUnknownAction:           {},
	ErrNotYourTurn:             {},
	ErrPhase:                   {},
	ErrIllegalAction:           {},
	ErrIllegalDestination:      {},
	ErrInsufficientElectricity: {},
	ErrCannotAfford:            {},
	ErrTrackSlotOccupied:       {},
	ErrBumpTooSmall:            {},
	ErrInternal:                {},
}

var ruleCodes = map[rules.Code]string{
	rules.UnknownAction:           ErrUnknownAction,
	rules.NotYourTurn:             ErrNotYourTurn,
	rules.ActionUnavailablePhase:  ErrPhase,
	rules.IllegalAction:           ErrIllegalAction,
	rules.IllegalDestination:      ErrIllegalDestination,
	rules.InsufficientElectricity: ErrInsufficientElectricity,
	rules.CannotAffordAction:      ErrCannotAfford,
	rules.TrackSlotOccupied:       ErrTrackSlotOccupied,
	rules.BumpTooSmall:            ErrBumpTooSmall,
	rules.InvalidState:            ErrInternal,
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// CodeFor maps an engine error to its wire code. Errors outside the rules
// taxonomy are internal.
func CodeFor(err error) string {
	if err == nil {
		return ""
	}
	if c, ok := ruleCodes[rules.CodeOf(err)]; ok {
		return c
	}
	return ErrInternal
}
