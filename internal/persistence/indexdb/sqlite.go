package indexdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	actionlog "lineae.dev/internal/persistence/log"
	"lineae.dev/internal/sim/game/model"
)

// SQLiteIndex is a queryable secondary index of games. Writes are queued and
// applied by one goroutine; the action log stays the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropAction   atomic.Uint64
	dropSnapshot atomic.Uint64
	dropResult   atomic.Uint64
}

type reqKind int

const (
	reqAction reqKind = iota + 1
	reqSnapshot
	reqResult
)

type req struct {
	kind reqKind

	action   actionlog.Entry
	snapshot snapshotRow
	result   resultRow
}

type snapshotRow struct {
	GameID string
	Seq    uint64
	Path   string
	Digest string
}

type resultRow struct {
	GameID     string
	Winner     int
	Standings  []model.Standing
	RecordedAt string
}

// Stats reports queue pressure.
type Stats struct {
	QueueDepth        int
	QueueCapacity     int
	DropActionTotal   uint64
	DropSnapshotTotal uint64
	DropResultTotal   uint64
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 4096),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			players TEXT NOT NULL,
			rules_json TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS actions (
			game_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			seat INTEGER NOT NULL,
			type TEXT NOT NULL,
			accepted INTEGER NOT NULL,
			code TEXT,
			digest TEXT NOT NULL,
			raw_json TEXT NOT NULL,
			at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_game_seq ON actions(game_id, seq);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_code ON actions(code);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			game_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			path TEXT NOT NULL,
			digest TEXT NOT NULL,
			PRIMARY KEY (game_id, seq)
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			game_id TEXT PRIMARY KEY,
			winner INTEGER NOT NULL,
			standings_json TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:        len(s.ch),
		QueueCapacity:     cap(s.ch),
		DropActionTotal:   s.dropAction.Load(),
		DropSnapshotTotal: s.dropSnapshot.Load(),
		DropResultTotal:   s.dropResult.Load(),
	}
}

// RecordGame writes the game row synchronously; it happens once per game.
func (s *SQLiteIndex) RecordGame(ctx context.Context, id string, seed int64, players []string, r model.Rules) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	rb, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO games(game_id,seed,players,rules_json,created_at) VALUES(?,?,?,?,?)`,
		id, seed, strings.Join(players, ","), string(rb), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteIndex) RecordAction(e actionlog.Entry) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqAction, action: e}:
	default:
		// Drop if the indexer falls behind.
		s.dropAction.Add(1)
	}
}

func (s *SQLiteIndex) RecordSnapshot(gameID string, seq uint64, path, digest string) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqSnapshot, snapshot: snapshotRow{GameID: gameID, Seq: seq, Path: path, Digest: digest}}:
	default:
		s.dropSnapshot.Add(1)
	}
}

func (s *SQLiteIndex) RecordResult(gameID string, f *model.Final) {
	if s == nil || s.closed.Load() || f == nil {
		return
	}
	r := resultRow{
		GameID:     gameID,
		Winner:     f.Winner,
		Standings:  f.Standings,
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	select {
	case s.ch <- req{kind: reqResult, result: r}:
	default:
		s.dropResult.Add(1)
	}
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertAction, _ := s.db.Prepare(`INSERT INTO actions(game_id,seq,seat,type,accepted,code,digest,raw_json,at) VALUES(?,?,?,?,?,?,?,?,?)`)
	insertSnapshot, _ := s.db.Prepare(`INSERT OR REPLACE INTO snapshots(game_id,seq,path,digest) VALUES(?,?,?,?)`)
	insertResult, _ := s.db.Prepare(`INSERT OR REPLACE INTO results(game_id,winner,standings_json,recorded_at) VALUES(?,?,?,?)`)
	defer func() {
		for _, st := range []*sql.Stmt{insertAction, insertSnapshot, insertResult} {
			if st != nil {
				_ = st.Close()
			}
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 200
		commitMaxWait = time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	exec := func(st *sql.Stmt, args ...any) {
		if st == nil || tx == nil {
			return
		}
		if _, err := tx.Stmt(st).Exec(args...); err != nil {
			rollback()
			return
		}
		opCount++
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqAction:
			e := r.action
			typ := "ADVANCE"
			if e.Action != nil {
				typ = e.Action.Type
			}
			raw, _ := json.Marshal(e)
			exec(insertAction, e.GameID, int64(e.Seq), e.Seat, typ, e.Accepted, e.Code, e.Digest, string(raw), e.Time)
		case reqSnapshot:
			sn := r.snapshot
			exec(insertSnapshot, sn.GameID, int64(sn.Seq), sn.Path, sn.Digest)
		case reqResult:
			res := r.result
			b, _ := json.Marshal(res.Standings)
			exec(insertResult, res.GameID, res.Winner, string(b), res.RecordedAt)
		}
		if tx != nil && (opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait) {
			commit()
		}
	}

	commit()
}
