package forge

// Craft-record scopes. The original title implies per-level completion, so
// "level" is the default, but the choice is explicit configuration.
const (
	CraftRecordScopeLevel   = "level"   // record resets on level-up
	CraftRecordScopeProfile = "profile" // record accumulates for the profile's lifetime
)

// ProgressionConfig is the data definition for a ProgressionSystem type.
type ProgressionConfig struct {
	// MaxLevel is the terminal level; defaults to 98.
	MaxLevel int `json:"max_level,omitempty"`

	// CraftRecordScope is "level" or "profile". Defaults to "level".
	CraftRecordScope string `json:"craft_record_scope,omitempty"`
}

// Eligibility is the result of a level-up eligibility query.
type Eligibility struct {
	Level    int      `json:"level"`
	Eligible bool     `json:"eligible"`
	Missing  []string `json:"missing,omitempty"`
}

// KeyItemStatus is one key item of the current level with its crafted flag,
// for the host's progress grid.
type KeyItemStatus struct {
	ItemID  string `json:"item_id"`
	Name    string `json:"name"`
	Crafted bool   `json:"crafted"`
}

// A ProgressionSystem gates the 1..98 level state machine: a level-up is
// allowed only once every key item of the current level has been crafted at
// least once.
type ProgressionSystem interface {
	System

	// Eligibility is a pure query: whether the profile may advance, and the
	// sorted key-item ids still missing when it may not.
	Eligibility(snap *ProgressionSnapshot) *Eligibility

	// Advance moves the profile from level L to L+1. Fails with a
	// NotEligibleError naming the missing key items, or with
	// ErrProgressionMaxLevel at the terminal level. On success the craft
	// record is reset or carried forward per the configured scope.
	Advance(snap *ProgressionSnapshot) (int, error)

	// KeyItemProgress lists the current level's key items grouped by
	// specialty, each with its crafted flag.
	KeyItemProgress(snap *ProgressionSnapshot) map[string][]*KeyItemStatus

	// MaxLevel returns the terminal level.
	MaxLevel() int

	// LevelLabel formats a level for display ("set_3" for level 3), matching
	// the naming persisted by earlier releases of the host add-on.
	LevelLabel(level int) string

	// ValidateAgainst checks that no reachable level below the terminal one
	// lacks key items, which would dead-end the progression.
	ValidateAgainst(catalog CatalogSystem) error
}
