package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/VirEgo/park-tycoon/internal/engine"
)

// SnapshotExt is the file extension of exported snapshots.
const SnapshotExt = ".json.zst"

// SnapshotName builds an export file name for a snapshot taken at t on day.
func SnapshotName(day int, t time.Time) string {
	return fmt.Sprintf("park-day%04d-%s%s", day, t.UTC().Format("20060102T150405Z"), SnapshotExt)
}

// ExportSnapshot writes s as zstd-compressed JSON, creating parent
// directories as needed.
func ExportSnapshot(path string, s *engine.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	if err := json.NewEncoder(bw).Encode(s); err != nil {
		enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ImportSnapshot reads a snapshot written by ExportSnapshot.
func ImportSnapshot(path string) (*engine.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var s engine.Snapshot
	if err := json.NewDecoder(bufio.NewReaderSize(dec, 256*1024)).Decode(&s); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	if s.Version > engine.SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported %d", s.Version, engine.SnapshotVersion)
	}
	return &s, nil
}
