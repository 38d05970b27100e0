package forge

import (
	"fmt"
	"sort"
)

// progressionSystem implements the ProgressionSystem interface.
type progressionSystem struct {
	config  *ProgressionConfig
	catalog CatalogSystem
}

// NewProgressionSystem validates the progression configuration and applies
// the defaults: 98 levels, per-level craft-record scope.
func NewProgressionSystem(config *ProgressionConfig) (ProgressionSystem, error) {
	if config == nil {
		config = &ProgressionConfig{}
	}
	if config.MaxLevel == 0 {
		config.MaxLevel = defaultMaxLevel
	}
	if config.MaxLevel < 1 {
		return nil, fmt.Errorf("%w: max_level must be >= 1, got %d", ErrConfigInvalid, config.MaxLevel)
	}
	switch config.CraftRecordScope {
	case "":
		config.CraftRecordScope = CraftRecordScopeLevel
	case CraftRecordScopeLevel, CraftRecordScopeProfile:
	default:
		return nil, fmt.Errorf("%w: unknown craft_record_scope %q", ErrConfigInvalid, config.CraftRecordScope)
	}
	return &progressionSystem{config: config}, nil
}

func (p *progressionSystem) GetType() SystemType {
	return SystemTypeProgression
}

func (p *progressionSystem) GetConfig() any {
	return p.config
}

func (p *progressionSystem) SetForge(f Forge) {
	p.catalog = f.GetCatalogSystem()
}

func (p *progressionSystem) MaxLevel() int {
	return p.config.MaxLevel
}

func (p *progressionSystem) LevelLabel(level int) string {
	return fmt.Sprintf("set_%d", level)
}

func (p *progressionSystem) ValidateAgainst(catalog CatalogSystem) error {
	p.catalog = catalog
	// The terminal level needs no key items: there is nothing to unlock.
	for level := 1; level < p.config.MaxLevel; level++ {
		if len(catalog.KeyItems(level)) == 0 {
			return fmt.Errorf("%w: level %d defines no key items, progression would dead-end", ErrConfigInvalid, level)
		}
	}
	return nil
}

func (p *progressionSystem) Eligibility(snap *ProgressionSnapshot) *Eligibility {
	result := &Eligibility{Level: snap.Level}
	for _, itemID := range p.catalog.KeyItems(snap.Level) {
		if !snap.CraftRecord[itemID] {
			result.Missing = append(result.Missing, itemID)
		}
	}
	sort.Strings(result.Missing)
	result.Eligible = len(result.Missing) == 0
	return result
}

func (p *progressionSystem) Advance(snap *ProgressionSnapshot) (int, error) {
	if snap == nil {
		return 0, ErrBadInput
	}
	if snap.Level >= p.config.MaxLevel {
		return snap.Level, ErrProgressionMaxLevel
	}

	eligibility := p.Eligibility(snap)
	if !eligibility.Eligible {
		return snap.Level, &NotEligibleError{Level: snap.Level, Missing: eligibility.Missing}
	}

	snap.Level++
	if p.config.CraftRecordScope == CraftRecordScopeLevel {
		snap.CraftRecord = make(map[string]bool)
	}
	return snap.Level, nil
}

func (p *progressionSystem) KeyItemProgress(snap *ProgressionSnapshot) map[string][]*KeyItemStatus {
	if snap == nil {
		return nil
	}
	progress := make(map[string][]*KeyItemStatus)
	for specialty, itemIDs := range p.catalog.KeyItemsBySpecialty(snap.Level) {
		statuses := make([]*KeyItemStatus, 0, len(itemIDs))
		for _, itemID := range itemIDs {
			status := &KeyItemStatus{ItemID: itemID, Crafted: snap.CraftRecord[itemID]}
			if item, ok := p.catalog.Item(itemID); ok {
				status.Name = item.Name
			}
			statuses = append(statuses, status)
		}
		progress[specialty] = statuses
	}
	return progress
}
