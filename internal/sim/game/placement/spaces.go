// Package placement resolves worker placements on action spaces, including the
// bump rule for exclusive spaces.
package placement

import (
	"strconv"
	"strings"

	"lineae.dev/internal/sim/game/model"
)

const (
	SpaceIncome   = "INCOME"
	SpaceHire     = "HIRE"
	SpaceElection = "ELECTION"
	SpaceLock     = "LOCK"
	SpaceRocket   = "ROCKET"

	basicPrefix = "BASIC_"
	subPrefix   = "SUB_"
)

type Mode string

const (
	Unbounded Mode = "UNBOUNDED"
	Exclusive Mode = "EXCLUSIVE"
)

type Def struct {
	Space string `json:"space"`
	Mode  Mode   `json:"mode"`
	// Repeatable spaces hand the turn straight back to the same player.
	Repeatable bool `json:"repeatable,omitempty"`
}

func BasicSpace(slot int) string { return basicPrefix + strconv.Itoa(slot+1) }

func SubSpace(id string) string { return subPrefix + id }

// BasicSlot returns the 0-based basic slot of a space, or -1.
func BasicSlot(space string) int {
	if !strings.HasPrefix(space, basicPrefix) {
		return -1
	}
	n, err := strconv.Atoi(strings.TrimPrefix(space, basicPrefix))
	if err != nil || n < 1 {
		return -1
	}
	return n - 1
}

// SubOf returns the submersible id of a space and whether it is a submersible space.
func SubOf(space string) (string, bool) {
	if !strings.HasPrefix(space, subPrefix) {
		return "", false
	}
	return strings.TrimPrefix(space, subPrefix), true
}

// Spaces lists the action spaces of a game in a fixed order.
func Spaces(s *model.State) []Def {
	out := []Def{
		{Space: SpaceIncome, Mode: Unbounded, Repeatable: true},
		{Space: SpaceHire, Mode: Unbounded},
		{Space: SpaceElection, Mode: Exclusive},
		{Space: SpaceLock, Mode: Unbounded, Repeatable: true},
		{Space: SpaceRocket, Mode: Unbounded},
	}
	for i := range s.BasicSlots {
		out = append(out, Def{Space: BasicSpace(i), Mode: Unbounded})
	}
	for _, sub := range s.Submersibles {
		out = append(out, Def{Space: SubSpace(sub.ID), Mode: Exclusive})
	}
	return out
}

func Lookup(s *model.State, space string) (Def, bool) {
	for _, d := range Spaces(s) {
		if d.Space == space {
			return d, true
		}
	}
	return Def{}, false
}

// Holder returns the active placement on an exclusive space, if any.
func Holder(s *model.State, space string) (model.Placement, bool) {
	list := s.Round.Placements[space]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Active {
			return list[i], true
		}
	}
	return model.Placement{}, false
}
