// Package rules holds the rejection taxonomy shared by every layer of the engine.
package rules

import (
	"errors"
	"fmt"
)

type Code string

const (
	IllegalDestination      Code = "ILLEGAL_DESTINATION"
	InsufficientElectricity Code = "INSUFFICIENT_ELECTRICITY"
	CannotAffordAction      Code = "CANNOT_AFFORD_ACTION"
	ActionUnavailablePhase  Code = "ACTION_UNAVAILABLE_PHASE"
	TrackSlotOccupied       Code = "TRACK_SLOT_OCCUPIED"
	NotYourTurn             Code = "NOT_YOUR_TURN"
	IllegalAction           Code = "ILLEGAL_ACTION"
	BumpTooSmall            Code = "BUMP_TOO_SMALL"
	UnknownAction           Code = "UNKNOWN_ACTION"

	// InvalidState marks a broken grid invariant. It is never a player mistake.
	InvalidState Code = "INVALID_STATE"
)

// Error is a rejection carrying a stable code.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

func Reject(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error {
	return &Error{Code: InvalidState, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the rules code of err, or "" when err is not a rules error.
func CodeOf(err error) Code {
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// Fatal reports whether err must stop the caller from touching the game again.
func Fatal(err error) bool {
	if err == nil {
		return false
	}
	c := CodeOf(err)
	return c == "" || c == InvalidState
}
