package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"lineae.dev/internal/host"
	"lineae.dev/internal/persistence/indexdb"
	persistlog "lineae.dev/internal/persistence/log"
	"lineae.dev/internal/persistence/snapshot"
	"lineae.dev/internal/sim/game"
	"lineae.dev/internal/sim/tuning"
	"lineae.dev/internal/transport/ws"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		gameID     = flag.String("game", "game_1", "game id")
		seed       = flag.Int64("seed", 1337, "setup seed (used only when starting a fresh game)")
		players    = flag.String("players", "p1,p2", "comma-separated player names in seat order")
		vessels    = flag.String("vessels", "", "comma-separated vessel columns per seat (default: spread evenly)")
		configDir  = flag.String("configs", "./configs", "config directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		disableDB  = flag.Bool("disable_db", false, "disable the sqlite index")

		snapPath   = flag.String("snapshot", "", "path to snapshot to load (optional)")
		loadLatest = flag.Bool("load_latest_snapshot", true, "load latest snapshot from data dir if present (when -snapshot is empty)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	gameDir := filepath.Join(*dataDir, "games", *gameID)
	if err := os.MkdirAll(gameDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}
	snapDir := filepath.Join(gameDir, "snapshots")

	snapshotToLoad := strings.TrimSpace(*snapPath)
	if snapshotToLoad == "" && *loadLatest {
		p, err := snapshot.Latest(snapDir)
		if err != nil {
			logger.Fatalf("find snapshot: %v", err)
		}
		snapshotToLoad = p
	}

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}
	rules, err := tune.Rules()
	if err != nil {
		logger.Fatalf("tuning: %v", err)
	}

	var e *game.Engine
	if snapshotToLoad != "" {
		h, snap, err := snapshot.ReadSnapshot(snapshotToLoad)
		if err != nil {
			logger.Fatalf("read snapshot: %v", err)
		}
		if h.GameID != "" && h.GameID != *gameID {
			logger.Fatalf("snapshot game id mismatch: flag=%s snap=%s", *gameID, h.GameID)
		}
		e, err = game.Restore(game.Config{ID: *gameID}, snap)
		if err != nil {
			logger.Fatalf("restore: %v", err)
		}
		if e.Digest() != h.Digest {
			logger.Fatalf("snapshot digest mismatch: header=%s state=%s", h.Digest, e.Digest())
		}
		logger.Printf("resumed from snapshot=%s seq=%d", filepath.Base(snapshotToLoad), e.Seq())
	} else {
		cols, err := parseColumns(*vessels)
		if err != nil {
			logger.Fatalf("vessels: %v", err)
		}
		e, err = game.New(game.Config{
			ID:            *gameID,
			Seed:          *seed,
			Players:       splitNames(*players),
			VesselColumns: cols,
			Rules:         rules,
		})
		if err != nil {
			logger.Fatalf("game: %v", err)
		}
		logger.Printf("new game %s seed=%d digest=%s", e.ID(), *seed, e.Digest())
	}

	var idx *indexdb.SQLiteIndex
	if !*disableDB {
		idx, err = indexdb.OpenSQLite(filepath.Join(gameDir, "index.sqlite"))
		if err != nil {
			logger.Fatalf("open index: %v", err)
		}
		defer idx.Close()
		snap := e.State()
		names := make([]string, len(snap.State.Players))
		for i, p := range snap.State.Players {
			names[i] = p.Name
		}
		if err := idx.RecordGame(context.Background(), snap.ID, snap.Seed, names, snap.Rules); err != nil {
			logger.Printf("index: record game: %v", err)
		}
	}

	actions := persistlog.NewActionLogger(gameDir)
	defer actions.Close()

	sess := host.NewSession(e, host.Config{
		SnapshotDir:   snapDir,
		ArchiveDir:    gameDir,
		SnapshotEvery: tune.SnapshotEvery,
		Actions:       actions,
		Index:         idx,
		Log:           log.New(os.Stdout, "[host] ", log.LstdFlags|log.Lmicroseconds),
	})
	// A fresh game gets its opening snapshot so replay has a starting point.
	if snapshotToLoad == "" {
		sess.Snapshot()
	}
	defer sess.Snapshot()

	ctx, cancel := signalContext()
	defer cancel()

	wsSrv := ws.NewServer(sess, log.New(os.Stdout, "[ws] ", log.LstdFlags|log.Lmicroseconds))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/metrics", func(rw http.ResponseWriter, r *http.Request) {
		rw.Header().Set("Content-Type", "text/plain; version=0.0.4")
		st := idx.Stats()
		fmt.Fprintf(rw, "lineae_index_queue_depth %d\n", st.QueueDepth)
		fmt.Fprintf(rw, "lineae_index_drop_action_total %d\n", st.DropActionTotal)
		fmt.Fprintf(rw, "lineae_index_drop_snapshot_total %d\n", st.DropSnapshotTotal)
		fmt.Fprintf(rw, "lineae_index_drop_result_total %d\n", st.DropResultTotal)
	})
	mux.HandleFunc("/v1/ws", wsSrv.Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
