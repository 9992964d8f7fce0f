package snapshot

import (
	"path/filepath"
	"testing"

	"lineae.dev/internal/sim/game"
)

func TestWriteRead_RoundTripKeepsDigest(t *testing.T) {
	e, err := game.New(game.Config{ID: "g1", Seed: 7, Players: []string{"ada", "bo", "cy"}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := e.AdvancePhase(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := e.Submit(0, game.Action{Type: game.ActionPlace, Space: "SUB_C"}); err != nil {
		t.Fatalf("place: %v", err)
	}

	dir := t.TempDir()
	path := Path(dir, e.Seq())
	if err := WriteSnapshot(path, e.Digest(), e.State()); err != nil {
		t.Fatalf("write: %v", err)
	}
	h, snap, err := ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if h.GameID != "g1" || h.Seq != e.Seq() || h.Digest != e.Digest() {
		t.Fatalf("header: %+v", h)
	}
	r, err := game.Restore(game.Config{}, snap)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if r.Digest() != h.Digest {
		t.Fatalf("digest after restore: %s want %s", r.Digest(), h.Digest)
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	if p, err := Latest(dir); err != nil || p != "" {
		t.Fatalf("empty dir: %q %v", p, err)
	}
	e, err := game.New(game.Config{Seed: 1, Players: []string{"a"}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	for _, seq := range []uint64{9, 120, 11} {
		if err := WriteSnapshot(Path(dir, seq), e.Digest(), e.State()); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	p, err := Latest(dir)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if p != filepath.Join(dir, "000000000120.snap.zst") {
		t.Fatalf("latest: %s", p)
	}
}
