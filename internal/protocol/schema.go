package protocol

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"

	"lineae.dev/internal/sim/game"
)

const actSchemaURL = "lineae://schemas/act.schema.json"

var (
	actOnce   sync.Once
	actSchema *validator.Schema
	actErr    error
)

// ActSchema returns the JSON schema of an ACT message, reflected from ActMsg.
func ActSchema() ([]byte, error) {
	r := jsonschema.Reflector{DoNotReference: true}
	s := r.Reflect(&ActMsg{})
	s.Title = "Lineae ACT"
	return json.MarshalIndent(s, "", "  ")
}

func compiledAct() (*validator.Schema, error) {
	actOnce.Do(func() {
		raw, err := ActSchema()
		if err != nil {
			actErr = err
			return
		}
		actSchema, actErr = validator.CompileString(actSchemaURL, string(raw))
	})
	return actSchema, actErr
}

// DecodeAct parses and validates an ACT message. Unknown action types are
// reported with the closest supported type, if any is near.
func DecodeAct(b []byte) (ActMsg, string, error) {
	var m ActMsg
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return m, "", fmt.Errorf("act: %w", err)
	}
	s, err := compiledAct()
	if err != nil {
		return m, "", fmt.Errorf("act schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return m, "", fmt.Errorf("act: %w", err)
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, "", fmt.Errorf("act: %w", err)
	}
	if !supported(m.Action.Type) {
		return m, Suggest(m.Action.Type), fmt.Errorf("act: unknown action type %q", m.Action.Type)
	}
	return m, "", nil
}

func supported(t string) bool {
	for _, s := range game.SupportedActionTypes() {
		if s == t {
			return true
		}
	}
	return false
}

// Suggest returns the supported action type closest to in, or "" when none is
// within a few edits.
func Suggest(in string) string {
	if in == "" {
		return ""
	}
	types := game.SupportedActionTypes()
	sort.Strings(types)
	best, bestDist := "", -1
	for _, t := range types {
		d := levenshtein.ComputeDistance(in, t)
		if d > suggestLimit(len(t)) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = t, d
		}
	}
	return best
}

func suggestLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
