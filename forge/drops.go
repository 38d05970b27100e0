package forge

import (
	"math/rand"
	"time"
)

// Built-in weighting strategy names.
const (
	WeightingUniform     = "uniform"
	WeightingLevelBiased = "level_biased"
)

// DropConfig is the data definition for a DropSystem type.
type DropConfig struct {
	// Tables maps a level (as a decimal string, matching the JSON document)
	// to that level's drop table.
	Tables map[string]*DropTableConfig `json:"tables,omitempty"`

	// Weighting selects a weight function by name. Defaults to "uniform".
	Weighting string `json:"weighting,omitempty"`

	// NoDropWeight is the weight of the empty outcome: a qualifying review
	// that grants nothing. Zero means every qualifying review drops.
	NoDropWeight int64 `json:"no_drop_weight,omitempty"`

	Bonus  *DropBonusConfig  `json:"bonus,omitempty"`
	Streak *DropStreakConfig `json:"streak,omitempty"`
}

// DropTableConfig assigns a base selection weight per droppable item.
type DropTableConfig struct {
	Weights map[string]int64 `json:"weights,omitempty"`
}

// DropBonusConfig describes a recurring bonus window during which all item
// weights are multiplied, leaving the no-drop weight untouched.
type DropBonusConfig struct {
	Cronexpr    string `json:"cronexpr,omitempty"`
	DurationSec int64  `json:"duration_sec,omitempty"`
	Multiplier  int64  `json:"multiplier,omitempty"`
}

// WeightFn computes the effective selection weight for an item at a level,
// given the configured base weight. Returning 0 excludes the item.
type WeightFn func(level int, itemID string, item *ItemConfig, base int64) int64

// A Drop is one resolved review reward.
type Drop struct {
	EventID string `json:"event_id"`
	ItemID  string `json:"item_id"`
	Name    string `json:"name"`
	Level   int    `json:"level"`
	Streak  int64  `json:"streak"`
}

// A DropSystem selects a random item id on each qualifying review event. The
// roll itself is pure: applying the result to an inventory is a separate,
// explicit step so randomness stays testable.
type DropSystem interface {
	System

	// Roll draws one item id from the active level's table, or "" when the
	// no-drop outcome wins. Fails with ErrDropTableEmpty if the level has no
	// eligible entries.
	Roll(level int, streak int64, now time.Time, rng *rand.Rand) (string, error)

	// SetWeightFn overrides the configured weighting strategy with a custom
	// function. Must be called before the first Roll.
	SetWeightFn(fn WeightFn)

	// ValidateAgainst checks every table entry against the catalog: tables
	// may only reference known items at or below their own level, and every
	// reachable level must resolve to a non-empty table.
	ValidateAgainst(catalog CatalogSystem, maxLevel int) error
}
