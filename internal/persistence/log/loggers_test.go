package log

import (
	"testing"
	"time"

	"lineae.dev/internal/sim/game"
)

func TestActionLogger_RotatesAndReadsBack(t *testing.T) {
	dir := t.TempDir()
	l := NewActionLogger(dir)
	clock := time.Date(2026, 3, 1, 10, 59, 0, 0, time.UTC)
	l.w.now = func() time.Time { return clock }

	act := game.Action{Type: game.ActionPlace, Space: "INCOME"}
	entries := []Entry{
		{GameID: "g", Seq: 1, Seat: -1, Advance: true, Accepted: true, Digest: "d1"},
		{GameID: "g", Seq: 2, Seat: 0, Action: &act, Accepted: true, Digest: "d2"},
	}
	if err := l.WriteEntry(entries[0]); err != nil {
		t.Fatalf("write: %v", err)
	}
	clock = clock.Add(2 * time.Minute)
	if err := l.WriteEntry(entries[1]); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected one file per hour, got %v", files)
	}
	var got []Entry
	for _, f := range files {
		if err := ReadEntries(f, func(e Entry) error { got = append(got, e); return nil }); err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
	}
	if len(got) != 2 || !got[0].Advance || got[1].Action == nil || got[1].Action.Space != "INCOME" {
		t.Fatalf("entries: %+v", got)
	}
	if got[1].Time != "2026-03-01T11:01:00Z" {
		t.Fatalf("time: %s", got[1].Time)
	}
}
