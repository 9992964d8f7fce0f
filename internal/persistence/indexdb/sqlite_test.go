package indexdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	actionlog "lineae.dev/internal/persistence/log"
	"lineae.dev/internal/sim/game"
	"lineae.dev/internal/sim/game/model"
)

func TestSQLiteIndex_RecordsGameActionsAndResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.sqlite")
	idx, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := idx.RecordGame(context.Background(), "g1", 42, []string{"ada", "bo"}, model.DefaultRules()); err != nil {
		t.Fatalf("record game: %v", err)
	}
	act := game.Action{Type: game.ActionPass}
	idx.RecordAction(actionlog.Entry{GameID: "g1", Seq: 1, Seat: -1, Advance: true, Accepted: true, Digest: "d1", Time: "t"})
	idx.RecordAction(actionlog.Entry{GameID: "g1", Seq: 1, Seat: 1, Action: &act, Code: "E_NOT_YOUR_TURN", Digest: "d1", Time: "t"})
	idx.RecordSnapshot("g1", 1, "/tmp/x.snap.zst", "d1")
	idx.RecordResult("g1", &model.Final{Winner: 1, Standings: []model.Standing{{Seat: 1, VP: 9}, {Seat: 0, VP: 4}}})
	if err := idx.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	var players string
	if err := db.QueryRow(`SELECT players FROM games WHERE game_id='g1'`).Scan(&players); err != nil {
		t.Fatalf("games: %v", err)
	}
	if players != "ada,bo" {
		t.Fatalf("players: %s", players)
	}
	var n, rejected int
	if err := db.QueryRow(`SELECT COUNT(*), SUM(CASE WHEN accepted=0 THEN 1 ELSE 0 END) FROM actions WHERE game_id='g1'`).Scan(&n, &rejected); err != nil {
		t.Fatalf("actions: %v", err)
	}
	if n != 2 || rejected != 1 {
		t.Fatalf("actions: n=%d rejected=%d", n, rejected)
	}
	var typ string
	if err := db.QueryRow(`SELECT type FROM actions WHERE seat=-1`).Scan(&typ); err != nil || typ != "ADVANCE" {
		t.Fatalf("advance row: %q %v", typ, err)
	}
	var winner int
	if err := db.QueryRow(`SELECT winner FROM results WHERE game_id='g1'`).Scan(&winner); err != nil || winner != 1 {
		t.Fatalf("result: %d %v", winner, err)
	}
	var snaps int
	if err := db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&snaps); err != nil || snaps != 1 {
		t.Fatalf("snapshots: %d %v", snaps, err)
	}
}

func TestSQLiteIndex_DropsWhenQueueFull(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqAction}

	s.RecordAction(actionlog.Entry{GameID: "g"})
	s.RecordSnapshot("g", 1, "p", "d")
	s.RecordResult("g", &model.Final{})
	s.RecordResult("g", nil)

	st := s.Stats()
	if st.DropActionTotal != 1 || st.DropSnapshotTotal != 1 || st.DropResultTotal != 1 {
		t.Fatalf("drops: %+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}

	var nilIndex *SQLiteIndex
	nilIndex.RecordAction(actionlog.Entry{})
	if nilIndex.Stats() != (Stats{}) {
		t.Fatalf("nil index stats")
	}
}
