package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauspost/compress/zstd"

	"lineae.dev/internal/sim/game"
)

const Version = 1

// Header is written as a JSON line ahead of the gob body so tools can inspect a
// snapshot without decoding the game.
type Header struct {
	Version int    `json:"version"`
	GameID  string `json:"game_id"`
	Seq     uint64 `json:"seq"`
	Digest  string `json:"digest"`
}

// File names sort by sequence number.
func Path(dir string, seq uint64) string {
	return filepath.Join(dir, fmt.Sprintf("%012d.snap.zst", seq))
}

func WriteSnapshot(path string, digest string, snap game.Snapshot) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)

	hb, err := json.Marshal(Header{Version: Version, GameID: snap.ID, Seq: snap.Seq, Digest: digest})
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func ReadSnapshot(path string) (Header, game.Snapshot, error) {
	var h Header
	var snap game.Snapshot
	f, err := os.Open(path)
	if err != nil {
		return h, snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, snap, fmt.Errorf("header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, snap, fmt.Errorf("header: %w", err)
	}
	if h.Version != Version {
		return h, snap, fmt.Errorf("snapshot version %d not supported", h.Version)
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return h, snap, fmt.Errorf("gob decode: %w", err)
	}
	return h, snap, nil
}

// Latest returns the newest snapshot in dir, or "" when there is none.
func Latest(dir string) (string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.snap.zst"))
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", nil
	}
	sort.Strings(paths)
	return paths[len(paths)-1], nil
}
