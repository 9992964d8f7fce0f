package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	persistlog "lineae.dev/internal/persistence/log"
	"lineae.dev/internal/persistence/snapshot"
	"lineae.dev/internal/sim/game"
	"lineae.dev/internal/sim/game/rules"
)

func main() {
	var (
		snapPath = flag.String("snapshot", "", "path to .snap.zst")
		gameDir  = flag.String("game_dir", "", "game data dir containing actions/actions-*.jsonl.zst (optional)")
		toSeq    = flag.Uint64("to_seq", 0, "stop after seq (inclusive, optional)")
	)
	flag.Parse()

	if *snapPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot")
		os.Exit(2)
	}

	h, snap, err := snapshot.ReadSnapshot(*snapPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	st := snap.State
	fmt.Printf("snapshot v%d game=%s seq=%d seed=%d round=%d phase=%s players=%d launches=%d\n",
		h.Version, h.GameID, h.Seq, snap.Seed, st.Round.Number, st.Round.Phase, len(st.Players), st.Launches)

	e, err := game.Restore(game.Config{}, snap)
	if err != nil {
		fmt.Fprintln(os.Stderr, "restore:", err)
		os.Exit(1)
	}
	if e.Digest() != h.Digest {
		fmt.Fprintf(os.Stderr, "snapshot digest mismatch: header=%s state=%s\n", h.Digest, e.Digest())
		os.Exit(1)
	}

	if *gameDir == "" {
		return
	}
	files, err := persistlog.ListFiles(*gameDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list actions:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no action logs found in", *gameDir)
		os.Exit(1)
	}

	r := &replayer{e: e, start: e.Seq(), to: *toSeq}
	for _, path := range files {
		if err := persistlog.ReadEntries(path, r.apply); err != nil {
			if errors.Is(err, errStop) {
				break
			}
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("replay ok: checked=%d entries (from snapshot seq=%d) final seq=%d digest=%s\n", r.checked, r.start, e.Seq(), e.Digest())
}

var errStop = errors.New("stop")

type replayer struct {
	e       *game.Engine
	start   uint64
	to      uint64
	checked int
}

// apply re-runs one log entry and checks the engine agrees with what was
// recorded: same acceptance, same rejection code, same digest.
func (r *replayer) apply(en persistlog.Entry) error {
	if en.Accepted && en.Seq <= r.start || !en.Accepted && en.Seq < r.start {
		return nil
	}
	if r.to != 0 && en.Seq > r.to {
		return errStop
	}
	var err error
	switch {
	case en.Advance:
		_, err = r.e.AdvancePhase()
	case en.Action != nil:
		_, err = r.e.Submit(en.Seat, *en.Action)
	default:
		return fmt.Errorf("seq %d: entry has neither action nor advance", en.Seq)
	}
	if errors.Is(err, game.ErrPoisoned) {
		return fmt.Errorf("seq %d: %w", en.Seq, err)
	}
	if (err == nil) != en.Accepted {
		return fmt.Errorf("seq %d: accepted=%v on replay, log says %v (%v)", en.Seq, err == nil, en.Accepted, err)
	}
	if !en.Accepted && string(rules.CodeOf(err)) != en.Code {
		return fmt.Errorf("seq %d: code %s on replay, log says %s", en.Seq, rules.CodeOf(err), en.Code)
	}
	if got := r.e.Digest(); got != en.Digest {
		return fmt.Errorf("seq %d: digest mismatch: replay=%s log=%s", en.Seq, got, en.Digest)
	}
	r.checked++
	return nil
}
