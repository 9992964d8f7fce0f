package protocol

import (
	"encoding/json"
	"strings"
	"testing"

	"lineae.dev/internal/sim/game"
)

func TestActSchema_Reflected(t *testing.T) {
	raw, err := ActSchema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	props, _ := doc["properties"].(map[string]any)
	for _, k := range []string{"type", "protocol_version", "act_id", "action"} {
		if _, ok := props[k]; !ok {
			t.Fatalf("schema missing property %q: %s", k, raw)
		}
	}
}

func TestDecodeAct(t *testing.T) {
	ok := `{"type":"ACT","protocol_version":"1.0","act_id":"a1",
	  "action":{"type":"MOVE_SUBMERSIBLE","path":[{"x":2,"y":6},{"x":2,"y":7}]}}`
	m, sugg, err := DecodeAct([]byte(ok))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sugg != "" || m.ActID != "a1" || m.Action.Type != game.ActionMoveSubmersible || len(m.Action.Path) != 2 {
		t.Fatalf("decoded: %+v", m)
	}

	bad := []string{
		`{"type":"ACT","protocol_version":"1.0"}`,
		`{"type":"ACT","protocol_version":"1.0","action":{"type":"PLACE","workers":"two"}}`,
		`{"type":"ACT","protocol_version":"1.0","action":{"type":"PLACE","teleport":true}}`,
		`{"type":"ACT","protocol_version":"1.0","action":{"type":"MOVE_SUBMERSIBLE","path":[{"x":1}]}}`,
		`not json`,
	}
	for _, b := range bad {
		if _, _, err := DecodeAct([]byte(b)); err == nil {
			t.Fatalf("expected rejection: %s", b)
		}
	}
}

func TestDecodeAct_SuggestsNearbyType(t *testing.T) {
	_, sugg, err := DecodeAct([]byte(`{"type":"ACT","protocol_version":"1.0","action":{"type":"EXCAVTE"}}`))
	if err == nil || !strings.Contains(err.Error(), "unknown action type") {
		t.Fatalf("expected unknown type error, got %v", err)
	}
	if sugg != game.ActionExcavate {
		t.Fatalf("suggestion: got %q", sugg)
	}
}

func TestSuggest(t *testing.T) {
	cases := map[string]string{
		"PASS":       "PASS",
		"PLCE":       "PLACE",
		"END_TRN":    "END_TURN",
		"DISEL":      "DIESEL",
		"LAUNCH_NOW": "",
		"":           "",
	}
	for in, want := range cases {
		if got := Suggest(in); got != want {
			t.Fatalf("Suggest(%q): got %q want %q", in, got, want)
		}
	}
}
