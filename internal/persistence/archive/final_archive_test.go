package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"lineae.dev/internal/sim/game"
	"lineae.dev/internal/sim/game/model"
)

func TestArchiveFinalSnapshot(t *testing.T) {
	dir := t.TempDir()
	gameDir := filepath.Join(dir, "games", "g1")
	src := filepath.Join(gameDir, "snapshots", "000000000042.snap.zst")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("mkdir snapshots: %v", err)
	}
	want := []byte("dummy")
	if err := os.WriteFile(src, want, 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	snap := game.Snapshot{ID: "g1", Seq: 42, Seed: 9}
	snap.State.Players = []model.Player{{Seat: 0, Name: "ada"}, {Seat: 1, Name: "bo"}}
	snap.State.Round.Phase = model.PhaseAction
	if _, ok, err := ArchiveFinalSnapshot(gameDir, src, snap); err != nil || ok {
		t.Fatalf("unfinished game archived: ok=%v err=%v", ok, err)
	}

	snap.State.Round.Phase = model.PhaseGameEnd
	snap.State.Final = &model.Final{Winner: 1, Standings: []model.Standing{{Seat: 1, VP: 20, Placement: 1}, {Seat: 0, VP: 12, Placement: 2}}}
	archivedPath, ok, err := ArchiveFinalSnapshot(gameDir, src, snap)
	if err != nil || !ok {
		t.Fatalf("archive: ok=%v err=%v", ok, err)
	}
	got, err := os.ReadFile(archivedPath)
	if err != nil {
		t.Fatalf("read archived: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("archived content mismatch: got=%q want=%q", got, want)
	}

	raw, err := os.ReadFile(filepath.Join(filepath.Dir(archivedPath), "meta.json"))
	if err != nil {
		t.Fatalf("meta.json: %v", err)
	}
	var meta FinalArchiveMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.Winner != 1 || len(meta.Players) != 2 || meta.Snapshot != "000000000042.snap.zst" {
		t.Fatalf("meta: %+v", meta)
	}
}
