package host

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"path/filepath"
	"testing"

	actionlog "lineae.dev/internal/persistence/log"
	"lineae.dev/internal/persistence/snapshot"
	"lineae.dev/internal/protocol"
	"lineae.dev/internal/sim/game"
	"lineae.dev/internal/sim/game/model"
)

func newSession(t *testing.T, cfg Config) *Session {
	t.Helper()
	e, err := game.New(game.Config{ID: "g1", Seed: 3, Players: []string{"ada", "bo"}})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	cfg.Log = log.New(io.Discard, "", 0)
	return NewSession(e, cfg)
}

func lastState(t *testing.T, out chan []byte) protocol.StateMsg {
	t.Helper()
	var m protocol.StateMsg
	found := false
	for {
		select {
		case b := <-out:
			if err := json.Unmarshal(b, &m); err != nil {
				t.Fatalf("decode state: %v", err)
			}
			found = true
		default:
			if !found {
				t.Fatalf("no STATE queued")
			}
			return m
		}
	}
}

func TestJoin_Seating(t *testing.T) {
	s := newSession(t, Config{})
	a := make(chan []byte, 8)
	w, err := s.Join("ada", false, a)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if w.Seat != 0 || w.GameID != "g1" || len(w.Players) != 2 || w.RulesDigest == "" {
		t.Fatalf("welcome: %+v", w)
	}
	if _, err := s.Join("ada", false, make(chan []byte, 1)); !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("second ada: %v", err)
	}
	if _, err := s.Join("zed", false, make(chan []byte, 1)); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("unknown player: %v", err)
	}
	spec := make(chan []byte, 8)
	if w, err := s.Join("", true, spec); err != nil || w.Seat != Spectator {
		t.Fatalf("spectator: %+v %v", w, err)
	}
	s.Leave(a)
	if _, err := s.Join("ada", false, make(chan []byte, 1)); err != nil {
		t.Fatalf("rejoin after leave: %v", err)
	}
}

func TestAct_BroadcastsAndAutoAdvances(t *testing.T) {
	dir := t.TempDir()
	al := actionlog.NewActionLogger(dir)
	s := newSession(t, Config{SnapshotDir: filepath.Join(dir, "snapshots"), SnapshotEvery: 2, Actions: al})

	a, b, spec := make(chan []byte, 16), make(chan []byte, 16), make(chan []byte, 16)
	for name, ch := range map[string]chan []byte{"ada": a, "bo": b} {
		if _, err := s.Join(name, false, ch); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	if _, err := s.Join("", true, spec); err != nil {
		t.Fatalf("spectator: %v", err)
	}

	if r := s.Advance(Spectator, "x"); r.Accepted || r.Code != protocol.ErrNotSeated {
		t.Fatalf("spectator advance: %+v", r)
	}
	if r := s.Advance(0, "adv1"); !r.Accepted || r.ResultFor != "adv1" {
		t.Fatalf("advance: %+v", r)
	}
	st := lastState(t, a)
	if st.Current != 0 || len(st.Legal) == 0 {
		t.Fatalf("ada state: current=%d legal=%d", st.Current, len(st.Legal))
	}
	if sp := lastState(t, spec); len(sp.Legal) != 0 {
		t.Fatalf("spectator got legal actions")
	}

	before := s.Digest()
	r := s.Act(1, "p0", game.Action{Type: game.ActionPass})
	if r.Accepted || r.Code != protocol.ErrNotYourTurn {
		t.Fatalf("out of turn: %+v", r)
	}
	if s.Digest() != before {
		t.Fatalf("rejection changed the game")
	}

	if r := s.Act(0, "p1", game.Action{Type: game.ActionPass}); !r.Accepted {
		t.Fatalf("ada pass: %+v", r)
	}
	if r := s.Act(1, "p2", game.Action{Type: game.ActionPass}); !r.Accepted {
		t.Fatalf("bo pass: %+v", r)
	}
	st = lastState(t, b)
	if st.Snapshot.State.Round.Number != 2 || st.Snapshot.State.Round.Phase != model.PhaseSunlight {
		t.Fatalf("expected round 2 sunlight, got %+v", st.Snapshot.State.Round)
	}

	if err := al.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}
	files, err := actionlog.ListFiles(dir)
	if err != nil || len(files) == 0 {
		t.Fatalf("action log files: %v %v", files, err)
	}
	n := 0
	for _, f := range files {
		if err := actionlog.ReadEntries(f, func(actionlog.Entry) error { n++; return nil }); err != nil {
			t.Fatalf("read log: %v", err)
		}
	}
	// advance, rejected pass, two passes, cleanup
	if n != 5 {
		t.Fatalf("log entries: got %d want 5", n)
	}
	latest, err := snapshot.Latest(filepath.Join(dir, "snapshots"))
	if err != nil || latest == "" {
		t.Fatalf("no snapshot written: %v", err)
	}
	h, _, err := snapshot.ReadSnapshot(latest)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if h.GameID != "g1" {
		t.Fatalf("snapshot header: %+v", h)
	}
}
