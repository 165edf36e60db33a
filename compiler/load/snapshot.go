package load

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/aggregen/compiler/gen"
)

// snapshotVersion is bumped when the encoded layout changes.
const snapshotVersion = 1

// Snapshot is an inspected schema stored for offline regeneration.
type Snapshot struct {
	Version   int          `msgpack:"version"`
	Dialect   string       `msgpack:"dialect"`
	CreatedAt time.Time    `msgpack:"created_at"`
	Tables    []*gen.Table `msgpack:"tables"`
}

// WriteSnapshot encodes the tables to path.
func WriteSnapshot(path, dialect string, tables []*gen.Table) error {
	data, err := msgpack.Marshal(&Snapshot{
		Version:   snapshotVersion,
		Dialect:   dialect,
		CreatedAt: time.Now().UTC(),
		Tables:    tables,
	})
	if err != nil {
		return fmt.Errorf("load: encoding snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("load: creating snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("load: writing snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes the snapshot at path.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading snapshot: %w", err)
	}
	s := &Snapshot{}
	if err := msgpack.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("load: decoding snapshot %s: %w", path, err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("load: snapshot %s has version %d, want %d", path, s.Version, snapshotVersion)
	}
	return s, nil
}
