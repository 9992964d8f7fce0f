package tuning

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"lineae.dev/internal/sim/game/model"
)

func TestLoad_RepoConfigMatchesDefaults(t *testing.T) {
	tu, err := Load(filepath.Join("..", "..", "..", "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tu.ProtocolVersion != "1.0" || tu.SnapshotEvery != 50 {
		t.Fatalf("header: %+v", tu)
	}
	got, err := tu.Rules()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	want := model.DefaultRules()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("configs/tuning.yaml drifted from the built-in board:\n got %+v\nwant %+v", got, want)
	}
}

func TestRules_PartialOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.yaml")
	raw := []byte(`
max_rounds: 5
energy:
  sunlight_grant: 4
cards:
  deck:
    - { id: x-1, number: 1, name: Spare Parts, effect: MONEY, amount: 2 }
`)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tu, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r, err := tu.Rules()
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if r.MaxRounds != 5 || r.SunlightGrant != 4 {
		t.Fatalf("overrides lost: rounds=%d sunlight=%d", r.MaxRounds, r.SunlightGrant)
	}
	if r.MaxElectricity != 9 || len(r.Locks) != 4 || len(r.BasicSlots) != 3 {
		t.Fatalf("defaults not applied: %+v", r)
	}
	if len(r.BonusCards) != 1 || r.BonusCards[0].Effect.Kind != model.EffectMoney {
		t.Fatalf("deck: %+v", r.BonusCards)
	}
}

func TestLoad_RejectsUnknownEffect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	raw := []byte("cards:\n  basic:\n    - { id: b, number: 1, effect: TELEPORT, amount: 1 }\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown effect")
	}
}
