package forge

import (
	"context"
	"encoding/json"
	"fmt"
)

// A Store is the durable persistence boundary for progression snapshots.
// Load on a never-seen profile returns a fresh snapshot, not an error; a
// snapshot that exists but cannot be decoded is surfaced as
// ErrSnapshotCorrupt, never silently replaced.
type Store interface {
	Load(ctx context.Context, profileID string) (*ProgressionSnapshot, error)
	Save(ctx context.Context, snap *ProgressionSnapshot) error
	Close() error
}

// encodeSnapshot produces the canonical persisted form. encoding/json sorts
// map keys, so identical state always encodes to identical bytes.
func encodeSnapshot(snap *ProgressionSnapshot) ([]byte, error) {
	if snap == nil || snap.ProfileID == "" {
		return nil, ErrBadInput
	}
	return json.Marshal(snap)
}

func decodeSnapshot(data []byte, profileID string) (*ProgressionSnapshot, error) {
	snap := &ProgressionSnapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if snap.Version > snapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d is newer than supported %d", ErrSnapshotCorrupt, snap.Version, snapshotVersion)
	}
	if snap.ProfileID == "" {
		snap.ProfileID = profileID
	}
	snap.normalize()
	return snap, nil
}
