package forge

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// dropSystem implements the DropSystem interface.
type dropSystem struct {
	config     *DropConfig
	catalog    CatalogSystem
	weightFn   WeightFn
	bonusSched cron.Schedule

	// tables re-keyed by numeric level, entries sorted for stable draws.
	tables map[int][]dropEntry
}

type dropEntry struct {
	itemID string
	weight int64
}

// NewDropSystem parses the drop tables and the optional bonus schedule.
// Catalog-dependent validation happens later via ValidateAgainst, once the
// catalog system exists.
func NewDropSystem(config *DropConfig) (DropSystem, error) {
	if config == nil || len(config.Tables) == 0 {
		return nil, fmt.Errorf("%w: drops config defines no tables", ErrConfigInvalid)
	}

	d := &dropSystem{
		config: config,
		tables: make(map[int][]dropEntry, len(config.Tables)),
	}

	for levelKey, table := range config.Tables {
		level, err := strconv.Atoi(levelKey)
		if err != nil || level < 1 {
			return nil, fmt.Errorf("%w: drop table key %q is not a valid level", ErrConfigInvalid, levelKey)
		}
		if table == nil || len(table.Weights) == 0 {
			return nil, fmt.Errorf("%w: drop table for level %d is empty", ErrConfigInvalid, level)
		}
		entries := make([]dropEntry, 0, len(table.Weights))
		for itemID, weight := range table.Weights {
			if weight < 1 {
				return nil, fmt.Errorf("%w: drop weight for %q at level %d must be >= 1", ErrConfigInvalid, itemID, level)
			}
			entries = append(entries, dropEntry{itemID: itemID, weight: weight})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].itemID < entries[j].itemID })
		d.tables[level] = entries
	}

	switch config.Weighting {
	case "", WeightingUniform:
		d.weightFn = uniformWeight
	case WeightingLevelBiased:
		d.weightFn = levelBiasedWeight
	default:
		return nil, fmt.Errorf("%w: unknown weighting strategy %q", ErrConfigInvalid, config.Weighting)
	}

	if config.Bonus != nil {
		if config.Bonus.DurationSec < 1 || config.Bonus.Multiplier < 1 {
			return nil, fmt.Errorf("%w: drop bonus requires duration_sec and multiplier >= 1", ErrConfigInvalid)
		}
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
		sched, err := parser.Parse(config.Bonus.Cronexpr)
		if err != nil {
			return nil, fmt.Errorf("%w: drop bonus cronexpr %q: %v", ErrConfigInvalid, config.Bonus.Cronexpr, err)
		}
		d.bonusSched = sched
	}

	return d, nil
}

func uniformWeight(_ int, _ string, _ *ItemConfig, base int64) int64 {
	return base
}

// levelBiasedWeight triples the odds of items introduced at the active
// level, so fresh materials show up while the long tail stays reachable.
func levelBiasedWeight(level int, _ string, item *ItemConfig, base int64) int64 {
	if item != nil && item.Level == level {
		return base * 3
	}
	return base
}

func (d *dropSystem) GetType() SystemType {
	return SystemTypeDrops
}

func (d *dropSystem) GetConfig() any {
	return d.config
}

func (d *dropSystem) SetWeightFn(fn WeightFn) {
	if fn != nil {
		d.weightFn = fn
	}
}

// SetForge satisfies forgeAware; the drop system caches the catalog for
// weight functions that consult item definitions.
func (d *dropSystem) SetForge(f Forge) {
	d.catalog = f.GetCatalogSystem()
}

func (d *dropSystem) ValidateAgainst(catalog CatalogSystem, maxLevel int) error {
	d.catalog = catalog
	for level, entries := range d.tables {
		if level > maxLevel {
			return fmt.Errorf("%w: drop table declares level %d beyond max level %d", ErrConfigInvalid, level, maxLevel)
		}
		for _, entry := range entries {
			item, ok := catalog.Item(entry.itemID)
			if !ok {
				return fmt.Errorf("%w: drop table for level %d references unknown item %q", ErrConfigInvalid, level, entry.itemID)
			}
			if item.Level > level {
				return fmt.Errorf("%w: drop table for level %d references item %q from level %d", ErrConfigInvalid, level, entry.itemID, item.Level)
			}
		}
	}
	// Every reachable level must resolve to a table, its own or inherited.
	for level := 1; level <= maxLevel; level++ {
		if entries := d.entriesFor(level); len(entries) == 0 {
			return fmt.Errorf("%w: no drop table covers level %d", ErrConfigInvalid, level)
		}
	}
	return nil
}

// entriesFor returns the table for a level, falling back to the nearest
// lower level so content files need not repeat unchanged tables 98 times.
func (d *dropSystem) entriesFor(level int) []dropEntry {
	for l := level; l >= 1; l-- {
		if entries, ok := d.tables[l]; ok {
			return entries
		}
	}
	return nil
}

func (d *dropSystem) Roll(level int, streak int64, now time.Time, rng *rand.Rand) (string, error) {
	entries := d.entriesFor(level)
	if len(entries) == 0 {
		return "", ErrDropTableEmpty
	}

	multiplier := int64(1)
	if d.bonusActive(now) {
		multiplier = d.config.Bonus.Multiplier
	}

	var totalWeight int64
	weights := make([]int64, len(entries))
	for i, entry := range entries {
		var item *ItemConfig
		if d.catalog != nil {
			item, _ = d.catalog.Item(entry.itemID)
		}
		w := d.weightFn(level, entry.itemID, item, entry.weight) * multiplier
		if w < 0 {
			w = 0
		}
		weights[i] = w
		totalWeight += w
	}
	if totalWeight <= 0 {
		return "", ErrDropTableEmpty
	}

	// The streak shrinks the empty outcome; items keep their relative odds.
	noDrop := d.config.NoDropWeight
	if noDrop > 0 {
		noDrop -= noDrop * d.config.Streak.bonusPermille(streak) / 1000
	}

	randVal := rng.Int63n(totalWeight + noDrop)
	if randVal >= totalWeight {
		return "", nil // no-drop outcome
	}

	var cumulativeWeight int64
	for i, entry := range entries {
		cumulativeWeight += weights[i]
		if randVal < cumulativeWeight {
			return entry.itemID, nil
		}
	}
	return "", ErrInternal // unreachable with a positive total weight
}

// bonusActive reports whether a bonus window activation occurred within the
// last DurationSec before now.
func (d *dropSystem) bonusActive(now time.Time) bool {
	if d.bonusSched == nil {
		return false
	}
	windowStart := now.Add(-time.Duration(d.config.Bonus.DurationSec) * time.Second)
	next := d.bonusSched.Next(windowStart)
	return !next.After(now)
}
