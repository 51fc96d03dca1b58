package host

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pinboard/internal/types"
)

// SnapshotVersion is the sidebar export format this build understands.
const SnapshotVersion = 1

var (
	ErrCorruptSnapshot = errors.New("host snapshot is not valid JSON")
	ErrSnapshotVersion = errors.New("unsupported host snapshot version")
)

// ReadSnapshot loads and validates an exported sidebar snapshot. A
// missing file surfaces as os.ErrNotExist so callers can treat "not
// exported yet" separately from corruption.
func ReadSnapshot(path string) (types.HostSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.HostSnapshot{}, err
	}
	var snap types.HostSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return types.HostSnapshot{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Version != SnapshotVersion {
		return types.HostSnapshot{}, fmt.Errorf("%w: %d", ErrSnapshotVersion, snap.Version)
	}
	return snap, nil
}

// WriteSnapshot persists a snapshot atomically. A zero version is
// stamped with the current format version.
func WriteSnapshot(path string, snap types.HostSnapshot) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("snapshot path is required")
	}
	if snap.Version == 0 {
		snap.Version = SnapshotVersion
	}
	return writeJSONAtomic(path, snap)
}

func writeJSONAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	file, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(file.Name())
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(file.Name(), path)
}
