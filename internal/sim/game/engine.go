// Package game is the authoritative rules engine for one game of Lineae. It is
// synchronous and not safe for concurrent use; hosts serialize calls per game.
package game

import (
	"errors"
	"fmt"

	"lineae.dev/internal/sim/game/digest"
	"lineae.dev/internal/sim/game/grid"
	"lineae.dev/internal/sim/game/model"
	"lineae.dev/internal/sim/game/rules"
)

// ErrPoisoned is returned once an invalid state has been detected. The engine
// accepts nothing after that.
var ErrPoisoned = errors.New("game: engine stopped after invalid state")

type Engine struct {
	cfg    Config
	s      *model.State
	seq    uint64
	poison error
}

// Snapshot is a self-contained, deep-copied view of a game. It round-trips
// through JSON and gob.
type Snapshot struct {
	ID    string      `json:"id"`
	Seed  int64       `json:"seed"`
	Seq   uint64      `json:"seq"`
	Rules model.Rules `json:"rules"`
	State model.State `json:"state"`
}

func New(cfg Config) (*Engine, error) {
	if err := validateActionDispatchMap(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("game config: %w", err)
	}
	s, err := setup(cfg)
	if err != nil {
		return nil, fmt.Errorf("game setup: %w", err)
	}
	return &Engine{cfg: cfg, s: s}, nil
}

// Restore resumes a game from snap. The snapshot's rules win over cfg.Rules;
// cfg.ID, when set, renames the game.
func Restore(cfg Config, snap Snapshot) (*Engine, error) {
	if err := validateActionDispatchMap(); err != nil {
		return nil, err
	}
	if cfg.ID == "" {
		cfg.ID = snap.ID
	}
	cfg.Seed = snap.Seed
	cfg.Rules = snap.Rules
	cfg.Players = nil
	cfg.VesselColumns = nil
	st := snap.State
	s := st.Clone()
	s.Normalize()
	for _, p := range s.Players {
		cfg.Players = append(cfg.Players, p.Name)
		cfg.VesselColumns = append(cfg.VesselColumns, p.Vessel)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("restore config: %w", err)
	}
	if err := grid.New(s).Check(); err != nil {
		return nil, fmt.Errorf("restore: %w", err)
	}
	return &Engine{cfg: cfg, s: s, seq: snap.Seq}, nil
}

func (e *Engine) ID() string { return e.cfg.ID }

func (e *Engine) Rules() model.Rules { return e.cfg.Rules }

// Seq counts committed submissions and phase advances.
func (e *Engine) Seq() uint64 { return e.seq }

func (e *Engine) Phase() model.Phase { return e.s.Round.Phase }

// Current returns the seat to act in the action phase, or -1.
func (e *Engine) Current() int {
	if e.s.Round.Phase != model.PhaseAction {
		return -1
	}
	return e.s.Round.Current
}

func (e *Engine) State() Snapshot {
	return Snapshot{ID: e.cfg.ID, Seed: e.cfg.Seed, Seq: e.seq, Rules: e.cfg.Rules, State: *e.s.Clone()}
}

func (e *Engine) Digest() string { return digest.State(e.s) }

// Poisoned returns the error that stopped the engine, if any.
func (e *Engine) Poisoned() error { return e.poison }

// txn is one submission being applied to a working copy.
type txn struct {
	s      *model.State
	g      *grid.Grid
	r      model.Rules
	seat   int
	events []Event
}

func (tx *txn) emit(typ string, seat int, data any) {
	tx.events = append(tx.events, Event{Type: typ, Seat: seat, Data: data})
}

func (e *Engine) begin(seat int) *txn {
	work := e.s.Clone()
	return &txn{s: work, g: grid.New(work), r: e.cfg.Rules, seat: seat}
}

// commit checks the working copy and swaps it in.
func (e *Engine) commit(tx *txn) (Result, error) {
	if err := tx.g.Check(); err != nil {
		e.poison = err
		return Result{}, fmt.Errorf("%w: %v", ErrPoisoned, err)
	}
	e.s = tx.s
	e.seq++
	return Result{State: e.State(), Events: tx.events}, nil
}

// Submit applies a on behalf of seat. A rejection leaves the game untouched and
// comes back as a *rules.Error.
func (e *Engine) Submit(seat int, a Action) (Result, error) {
	if e.poison != nil {
		return Result{}, ErrPoisoned
	}
	tx := e.begin(seat)
	if err := apply(tx, a); err != nil {
		if rules.Fatal(err) {
			e.poison = err
			return Result{}, fmt.Errorf("%w: %v", ErrPoisoned, err)
		}
		return Result{}, err
	}
	return e.commit(tx)
}

// check runs a without committing and reports whether it would be accepted.
func (e *Engine) check(seat int, a Action) bool {
	tx := e.begin(seat)
	return apply(tx, a) == nil
}

func apply(tx *txn, a Action) error {
	h, ok := actionDispatch[a.Type]
	if !ok {
		return rules.Reject(rules.UnknownAction, "unknown action type %q", a.Type)
	}
	s := tx.s
	if s.Player(tx.seat) == nil {
		return rules.Reject(rules.IllegalAction, "unknown seat %d", tx.seat)
	}
	phase := s.Round.Phase
	if !allowedInPhase(phase, a.Type) {
		return rules.Reject(rules.ActionUnavailablePhase, "%s is not available in phase %s", a.Type, phase)
	}
	if phase == model.PhaseAction {
		if tx.seat != s.Round.Current {
			return rules.Reject(rules.NotYourTurn, "seat %d to act", s.Round.Current)
		}
		piloting := s.Round.Turn.Mode == model.TurnPiloting
		if piloting && !pilotingActions[a.Type] && !freeActions[a.Type] {
			return rules.Reject(rules.IllegalAction, "%s while piloting %s", a.Type, s.Round.Turn.Sub)
		}
		if !piloting && pilotingActions[a.Type] {
			return rules.Reject(rules.IllegalAction, "%s without a submersible under control", a.Type)
		}
	}
	return h(tx, a)
}

// AdvancePhase moves the round along: Sunlight to Action, and Action (once every
// player has passed) through Cleanup into the next Sunlight or the game end.
func (e *Engine) AdvancePhase() (Result, error) {
	if e.poison != nil {
		return Result{}, ErrPoisoned
	}
	tx := e.begin(-1)
	if err := advance(tx); err != nil {
		if rules.Fatal(err) {
			e.poison = err
			return Result{}, fmt.Errorf("%w: %v", ErrPoisoned, err)
		}
		return Result{}, err
	}
	return e.commit(tx)
}
