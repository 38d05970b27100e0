package forge

// Specialty names carried by the stock content files. The catalog does not
// restrict the set; these exist so hosts and tests can share the constants.
const (
	SpecialtyAlchemist     = "Alchemist"
	SpecialtyArmorer       = "Armorer"
	SpecialtyBlacksmith    = "Blacksmith"
	SpecialtyCarpenter     = "Carpenter"
	SpecialtyCulinarian    = "Culinarian"
	SpecialtyGoldsmith     = "Goldsmith"
	SpecialtyLeatherworker = "Leatherworker"
	SpecialtyWeaver        = "Weaver"
)

// CatalogConfig is the data definition for a CatalogSystem type.
type CatalogConfig struct {
	// MaxLevel bounds item levels; defaults to 98 when omitted.
	MaxLevel int                    `json:"max_level,omitempty"`
	Items    map[string]*ItemConfig `json:"items,omitempty"`
}

// ItemConfig is one immutable catalog fact, keyed by item id in the config.
type ItemConfig struct {
	Name      string `json:"name,omitempty"`
	Level     int    `json:"level,omitempty"`
	KeyItem   bool   `json:"key_item,omitempty"`
	Specialty string `json:"specialty,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`

	// Recipe maps ingredient item id to required quantity. Present iff the
	// item is craftable; key items obtained only via drops omit it.
	Recipe map[string]int64 `json:"recipe,omitempty"`
}

// Craftable reports whether the item has a recipe.
func (i *ItemConfig) Craftable() bool {
	return len(i.Recipe) > 0
}

// A CatalogSystem holds the static item and recipe definitions, validated
// once at load time and read-only afterwards.
type CatalogSystem interface {
	System

	// Item returns the definition for an item id, if present and enabled.
	Item(itemID string) (*ItemConfig, bool)

	// Items returns every enabled item definition.
	Items() map[string]*ItemConfig

	// ItemsUnlocked returns ids of items with level <= the given level, sorted.
	ItemsUnlocked(level int) []string

	// KeyItems returns the key item ids defined exactly at the given level, sorted.
	KeyItems(level int) []string

	// KeyItemsBySpecialty groups the key items at the given level by specialty.
	KeyItemsBySpecialty(level int) map[string][]string

	// Recipe returns the recipe for an item id, or false if it is not craftable.
	Recipe(itemID string) (map[string]int64, bool)

	// MaxLevel returns the highest level any item may declare.
	MaxLevel() int
}
