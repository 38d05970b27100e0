package forge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testCatalogConfig is a three-level catalog: gatherables and key items at
// levels 1 and 2, a terminal level 3, plus one disabled legacy item.
func testCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		MaxLevel: 3,
		Items: map[string]*ItemConfig{
			"copper_ore":  {Name: "Copper Ore", Level: 1},
			"animal_hide": {Name: "Animal Hide", Level: 1},
			"bronze_ingot": {
				Name: "Bronze Ingot", Level: 1, KeyItem: true, Specialty: SpecialtyBlacksmith,
				Recipe: map[string]int64{"copper_ore": 2},
			},
			"leather_strap": {
				Name: "Leather Strap", Level: 1, KeyItem: true, Specialty: SpecialtyLeatherworker,
				Recipe: map[string]int64{"animal_hide": 2},
			},
			"silver_ore": {Name: "Silver Ore", Level: 2},
			"silver_ingot": {
				Name: "Silver Ingot", Level: 2, KeyItem: true, Specialty: SpecialtyGoldsmith,
				Recipe: map[string]int64{"silver_ore": 3, "copper_ore": 1},
			},
			"old_relic": {Name: "Old Relic", Level: 1, Disabled: true},
		},
	}
}

func testDropConfig() *DropConfig {
	return &DropConfig{
		Tables: map[string]*DropTableConfig{
			"1": {Weights: map[string]int64{"copper_ore": 50, "animal_hide": 30}},
			"2": {Weights: map[string]int64{"copper_ore": 30, "animal_hide": 20, "silver_ore": 50}},
		},
	}
}

// newTestForge wires the fixture systems the way Init does, without going
// through content files. A nil dropConfig leaves the drop system out.
func newTestForge(t *testing.T, dropConfig *DropConfig) Forge {
	t.Helper()

	catalog, err := NewCatalogSystem(testCatalogConfig())
	require.NoError(t, err)
	progression, err := NewProgressionSystem(&ProgressionConfig{MaxLevel: 3})
	require.NoError(t, err)

	f := &forgeImpl{systems: map[SystemType]System{
		SystemTypeCatalog:     catalog,
		SystemTypeInventory:   NewInventorySystem(),
		SystemTypeCrafting:    NewCraftingSystem(),
		SystemTypeProgression: progression,
	}}
	if dropConfig != nil {
		drops, err := NewDropSystem(dropConfig)
		require.NoError(t, err)
		f.systems[SystemTypeDrops] = drops
	}

	for _, system := range f.systems {
		if aware, ok := system.(forgeAware); ok {
			aware.SetForge(f)
		}
	}
	if drops := f.GetDropSystem(); drops != nil {
		require.NoError(t, drops.ValidateAgainst(catalog, progression.MaxLevel()))
	}
	require.NoError(t, progression.ValidateAgainst(catalog))

	return f
}
