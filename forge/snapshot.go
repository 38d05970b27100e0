package forge

// snapshotVersion is the current persisted schema version. Older snapshots
// load as-is; unknown future versions are rejected by the stores.
const snapshotVersion = 1

// ProgressionSnapshot is the durable aggregate for one profile: inventory,
// craft record, level and streak. It is the in-memory source of truth while
// a session is active and is overwritten atomically on every commit.
type ProgressionSnapshot struct {
	ProfileID string `json:"profile_id"`
	Version   int    `json:"version"`
	Level     int    `json:"level"`

	// Inventory maps item id to owned quantity; absence implies zero.
	Inventory map[string]int64 `json:"inventory"`

	// CraftRecord is the set of item ids crafted at least once within the
	// configured scope. Distinct from ownership: consuming a crafted item
	// does not un-craft it.
	CraftRecord map[string]bool `json:"craft_record"`

	// Streak counts consecutive qualifying reviews since the last failure.
	Streak int64 `json:"streak,omitempty"`
}

// NewSnapshot returns the first-activation state for a profile: level 1,
// empty inventory, empty craft record.
func NewSnapshot(profileID string) *ProgressionSnapshot {
	return &ProgressionSnapshot{
		ProfileID:   profileID,
		Version:     snapshotVersion,
		Level:       1,
		Inventory:   make(map[string]int64),
		CraftRecord: make(map[string]bool),
	}
}

// normalize repairs the zero values a decoded legacy snapshot may carry.
// Item ids unknown to the current catalog are preserved untouched so old
// snapshots survive catalog releases in both directions.
func (s *ProgressionSnapshot) normalize() {
	if s.Inventory == nil {
		s.Inventory = make(map[string]int64)
	}
	if s.CraftRecord == nil {
		s.CraftRecord = make(map[string]bool)
	}
	if s.Level < 1 {
		s.Level = 1
	}
	if s.Version == 0 {
		s.Version = snapshotVersion
	}
}
