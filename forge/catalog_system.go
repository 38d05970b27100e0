package forge

import (
	"fmt"
	"sort"
)

const defaultMaxLevel = 98

// catalogSystem implements the CatalogSystem interface over a validated,
// immutable config.
type catalogSystem struct {
	config *CatalogConfig

	// Precomputed views, keyed by level.
	keyItemsByLevel map[int][]string
	unlockedByLevel map[int][]string
}

// NewCatalogSystem validates the catalog definition and precomputes the
// per-level views. Validation failures are fatal: a catalog that references
// unknown items or self-referential recipes never enters normal operation.
func NewCatalogSystem(config *CatalogConfig) (CatalogSystem, error) {
	if config == nil || len(config.Items) == 0 {
		return nil, fmt.Errorf("%w: catalog defines no items", ErrConfigInvalid)
	}
	if config.MaxLevel == 0 {
		config.MaxLevel = defaultMaxLevel
	}
	if config.MaxLevel < 1 {
		return nil, fmt.Errorf("%w: max_level must be >= 1, got %d", ErrConfigInvalid, config.MaxLevel)
	}

	for itemID, item := range config.Items {
		if item == nil {
			return nil, fmt.Errorf("%w: item %q has no definition", ErrConfigInvalid, itemID)
		}
		if item.Name == "" {
			return nil, fmt.Errorf("%w: item %q has no name", ErrConfigInvalid, itemID)
		}
		if item.Level < 1 || item.Level > config.MaxLevel {
			return nil, fmt.Errorf("%w: item %q level %d outside 1..%d", ErrConfigInvalid, itemID, item.Level, config.MaxLevel)
		}
		for inputID, qty := range item.Recipe {
			if inputID == itemID {
				return nil, fmt.Errorf("%w: recipe for %q lists itself as an input", ErrConfigInvalid, itemID)
			}
			if qty < 1 {
				return nil, fmt.Errorf("%w: recipe for %q requires %d of %q, quantities must be >= 1", ErrConfigInvalid, itemID, qty, inputID)
			}
			input, ok := config.Items[inputID]
			if !ok {
				return nil, fmt.Errorf("%w: recipe for %q references unknown item %q", ErrConfigInvalid, itemID, inputID)
			}
			if input.Level > item.Level {
				return nil, fmt.Errorf("%w: recipe for %q (level %d) requires %q from level %d", ErrConfigInvalid, itemID, item.Level, inputID, input.Level)
			}
		}
	}

	c := &catalogSystem{
		config:          config,
		keyItemsByLevel: make(map[int][]string),
		unlockedByLevel: make(map[int][]string),
	}
	for itemID, item := range config.Items {
		if item.Disabled {
			continue
		}
		if item.KeyItem {
			c.keyItemsByLevel[item.Level] = append(c.keyItemsByLevel[item.Level], itemID)
		}
		for level := item.Level; level <= config.MaxLevel; level++ {
			c.unlockedByLevel[level] = append(c.unlockedByLevel[level], itemID)
		}
	}
	for _, ids := range c.keyItemsByLevel {
		sort.Strings(ids)
	}
	for _, ids := range c.unlockedByLevel {
		sort.Strings(ids)
	}

	return c, nil
}

func (c *catalogSystem) GetType() SystemType {
	return SystemTypeCatalog
}

func (c *catalogSystem) GetConfig() any {
	return c.config
}

func (c *catalogSystem) Item(itemID string) (*ItemConfig, bool) {
	item, ok := c.config.Items[itemID]
	if !ok || item.Disabled {
		return nil, false
	}
	return item, true
}

func (c *catalogSystem) Items() map[string]*ItemConfig {
	items := make(map[string]*ItemConfig, len(c.config.Items))
	for itemID, item := range c.config.Items {
		if !item.Disabled {
			items[itemID] = item
		}
	}
	return items
}

func (c *catalogSystem) ItemsUnlocked(level int) []string {
	if level > c.config.MaxLevel {
		level = c.config.MaxLevel
	}
	return c.unlockedByLevel[level]
}

func (c *catalogSystem) KeyItems(level int) []string {
	return c.keyItemsByLevel[level]
}

func (c *catalogSystem) KeyItemsBySpecialty(level int) map[string][]string {
	grouped := make(map[string][]string)
	for _, itemID := range c.keyItemsByLevel[level] {
		item := c.config.Items[itemID]
		grouped[item.Specialty] = append(grouped[item.Specialty], itemID)
	}
	return grouped
}

func (c *catalogSystem) Recipe(itemID string) (map[string]int64, bool) {
	item, ok := c.Item(itemID)
	if !ok || !item.Craftable() {
		return nil, false
	}
	return item.Recipe, true
}

func (c *catalogSystem) MaxLevel() int {
	return c.config.MaxLevel
}
