// Package host runs one game for remote players: it serializes submissions,
// persists every step and fans STATE out to connected seats.
package host

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"lineae.dev/internal/persistence/archive"
	"lineae.dev/internal/persistence/indexdb"
	actionlog "lineae.dev/internal/persistence/log"
	"lineae.dev/internal/persistence/snapshot"
	"lineae.dev/internal/protocol"
	"lineae.dev/internal/sim/game"
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
)

// Spectator is the seat of a connection that only watches.
const Spectator = -1

type Config struct {
	// SnapshotDir receives a snapshot every SnapshotEvery commits and at game end.
	// Empty disables snapshots.
	SnapshotDir   string
	SnapshotEvery int
	// ArchiveDir, when set, keeps the final snapshot under archives/final/.
	ArchiveDir string

	Actions *actionlog.ActionLogger
	Index   *indexdb.SQLiteIndex
	Log     *log.Logger
}

type Session struct {
	cfg Config

	mu       sync.Mutex
	e        *game.Engine
	seated   map[int]bool
	subs     map[chan []byte]int
	lastSnap uint64
}

func NewSession(e *game.Engine, cfg Config) *Session {
	if cfg.Log == nil {
		cfg.Log = log.New(log.Writer(), "[host] ", log.LstdFlags|log.Lmicroseconds)
	}
	return &Session{
		cfg:      cfg,
		e:        e,
		seated:   map[int]bool{},
		subs:     map[chan []byte]int{},
		lastSnap: e.Seq(),
	}
}

var (
	ErrUnknownPlayer = errors.New("no seat for player")
	ErrSeatTaken     = errors.New("seat already connected")
)

// Join seats the connection of player name and subscribes out to STATE. A
// spectator join never fails.
func (s *Session) Join(name string, spectator bool, out chan []byte) (protocol.WelcomeMsg, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.e.State()
	seat := Spectator
	if !spectator {
		seat = -2
		for _, p := range snap.State.Players {
			if p.Name == name {
				seat = p.Seat
				break
			}
		}
		if seat == -2 {
			return protocol.WelcomeMsg{}, fmt.Errorf("%w %q", ErrUnknownPlayer, name)
		}
		if s.seated[seat] {
			return protocol.WelcomeMsg{}, fmt.Errorf("%w: %d", ErrSeatTaken, seat)
		}
		s.seated[seat] = true
	}
	s.subs[out] = seat

	players := make([]string, len(snap.State.Players))
	for i, p := range snap.State.Players {
		players[i] = p.Name
	}
	w := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SelectedVersion: protocol.Version,
		GameID:          snap.ID,
		Seat:            seat,
		Players:         players,
		Seed:            snap.Seed,
		RulesDigest:     rulesDigest(snap.Rules),
	}
	return w, nil
}

// Sync queues the current STATE for one subscriber.
func (s *Session) Sync(out chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.subs[out]
	if !ok {
		return
	}
	s.send(out, s.stateFor(seat))
}

func (s *Session) Leave(out chan []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.subs[out]
	if !ok {
		return
	}
	delete(s.subs, out)
	if seat >= 0 {
		delete(s.seated, seat)
	}
}

// Act applies one action for seat and broadcasts the new state on success.
func (s *Session) Act(seat int, actID string, a game.Action) protocol.ResultMsg {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seat < 0 {
		return reject(actID, protocol.ErrNotSeated, "spectators cannot act")
	}
	res, err := s.e.Submit(seat, a)
	s.record(seat, &a, err)
	if err != nil {
		return s.rejected(actID, err)
	}
	events := res.Events
	// Once everyone has passed, run cleanup straight away.
	if s.e.Phase() == model.PhaseAction && s.e.Current() < 0 {
		adv, err := s.e.AdvancePhase()
		s.record(Spectator, nil, err)
		if err != nil {
			s.cfg.Log.Printf("game %s: auto advance: %v", s.e.ID(), err)
		} else {
			events = append(events, adv.Events...)
		}
	}
	s.afterCommit()
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ResultFor:       actID,
		Accepted:        true,
		Seq:             s.e.Seq(),
		Events:          events,
	}
}

// Advance moves the round along on behalf of a seated player.
func (s *Session) Advance(seat int, actID string) protocol.ResultMsg {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seat < 0 {
		return reject(actID, protocol.ErrNotSeated, "spectators cannot advance")
	}
	res, err := s.e.AdvancePhase()
	s.record(Spectator, nil, err)
	if err != nil {
		return s.rejected(actID, err)
	}
	s.afterCommit()
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ResultFor:       actID,
		Accepted:        true,
		Seq:             s.e.Seq(),
		Events:          res.Events,
	}
}

func (s *Session) Digest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.e.Digest()
}

func (s *Session) rejected(actID string, err error) protocol.ResultMsg {
	if errors.Is(err, game.ErrPoisoned) {
		s.cfg.Log.Printf("game %s: %v", s.e.ID(), err)
	}
	return reject(actID, protocol.CodeFor(err), err.Error())
}

func reject(actID, code, msg string) protocol.ResultMsg {
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ResultFor:       actID,
		Code:            code,
		Message:         msg,
	}
}

func (s *Session) record(seat int, a *game.Action, err error) {
	e := actionlog.Entry{
		GameID:   s.e.ID(),
		Seq:      s.e.Seq(),
		Seat:     seat,
		Advance:  a == nil,
		Action:   a,
		Accepted: err == nil,
		Digest:   s.e.Digest(),
	}
	if err != nil {
		e.Code = string(rules.CodeOf(err))
		e.Message = err.Error()
	}
	if s.cfg.Actions != nil {
		if werr := s.cfg.Actions.WriteEntry(e); werr != nil {
			s.cfg.Log.Printf("game %s: action log: %v", s.e.ID(), werr)
		}
	}
	s.cfg.Index.RecordAction(e)
}

func (s *Session) afterCommit() {
	over := s.e.Phase() == model.PhaseGameEnd
	var snapPath string
	if s.cfg.SnapshotDir != "" && (over || (s.cfg.SnapshotEvery > 0 && s.e.Seq()-s.lastSnap >= uint64(s.cfg.SnapshotEvery))) {
		snapPath = s.snapshot()
	}
	if over {
		snap := s.e.State()
		if s.cfg.ArchiveDir != "" && snapPath != "" {
			if dst, ok, err := archive.ArchiveFinalSnapshot(s.cfg.ArchiveDir, snapPath, snap); err != nil {
				s.cfg.Log.Printf("game %s: archive: %v", snap.ID, err)
			} else if ok {
				s.cfg.Log.Printf("game %s: archived %s", snap.ID, dst)
			}
		}
		s.cfg.Index.RecordResult(snap.ID, snap.State.Final)
		if f := snap.State.Final; f != nil {
			s.cfg.Log.Printf("game %s over: winner seat %d", snap.ID, f.Winner)
		}
	}
	for out, seat := range s.subs {
		s.send(out, s.stateFor(seat))
	}
}

// Snapshot writes a snapshot now. It is a no-op without a snapshot directory.
func (s *Session) Snapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.SnapshotDir != "" {
		s.snapshot()
	}
}

// snapshot returns the written path, or "" on failure.
func (s *Session) snapshot() string {
	seq := s.e.Seq()
	path := snapshot.Path(s.cfg.SnapshotDir, seq)
	dg := s.e.Digest()
	if err := snapshot.WriteSnapshot(path, dg, s.e.State()); err != nil {
		s.cfg.Log.Printf("game %s: snapshot: %v", s.e.ID(), err)
		return ""
	}
	s.lastSnap = seq
	s.cfg.Index.RecordSnapshot(s.e.ID(), seq, path, dg)
	return path
}

func (s *Session) stateFor(seat int) []byte {
	m := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Seq:             s.e.Seq(),
		Digest:          s.e.Digest(),
		Current:         s.e.Current(),
		Snapshot:        s.e.State(),
	}
	if seat >= 0 {
		m.Legal = s.e.LegalActions(seat)
	}
	b, err := json.Marshal(m)
	if err != nil {
		s.cfg.Log.Printf("game %s: encode state: %v", s.e.ID(), err)
		return nil
	}
	return b
}

func (s *Session) send(out chan []byte, b []byte) {
	if b == nil {
		return
	}
	select {
	case out <- b:
	default:
		s.cfg.Log.Printf("game %s: subscriber queue full, dropping state", s.e.ID())
	}
}

func rulesDigest(r model.Rules) string {
	b, _ := json.Marshal(r)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
