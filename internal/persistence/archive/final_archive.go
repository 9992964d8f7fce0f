package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"lineae.dev/internal/sim/game"
	"lineae.dev/internal/sim/game/model"
)

type FinalArchiveMeta struct {
	GameID    string           `json:"game_id"`
	Seq       uint64           `json:"seq"`
	Seed      int64            `json:"seed"`
	Snapshot  string           `json:"snapshot"`
	CreatedAt string           `json:"created_at"`
	Players   []string         `json:"players"`
	Winner    int              `json:"winner"`
	Standings []model.Standing `json:"standings"`
}

// ArchiveFinalSnapshot copies a game-end snapshot into `gameDir/archives/final/`
// next to a meta.json with the standings. Snapshots of unfinished games are
// left alone and reported as archived=false.
func ArchiveFinalSnapshot(gameDir, snapshotPath string, snap game.Snapshot) (archivedPath string, archived bool, err error) {
	f := snap.State.Final
	if snap.State.Round.Phase != model.PhaseGameEnd || f == nil {
		return "", false, nil
	}

	archiveDir := filepath.Join(gameDir, "archives", "final")
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", false, err
	}

	dst := filepath.Join(archiveDir, filepath.Base(snapshotPath))
	if err := copyFile(snapshotPath, dst); err != nil {
		return "", false, err
	}

	meta := FinalArchiveMeta{
		GameID:    snap.ID,
		Seq:       snap.Seq,
		Seed:      snap.Seed,
		Snapshot:  filepath.Base(dst),
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Winner:    f.Winner,
		Standings: f.Standings,
	}
	for _, p := range snap.State.Players {
		meta.Players = append(meta.Players, p.Name)
	}
	b, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("archive meta: %w", err)
	}
	if err := os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644); err != nil {
		return "", false, err
	}
	return dst, true, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
