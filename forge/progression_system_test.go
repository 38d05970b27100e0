package forge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProgressionSystemDefaults(t *testing.T) {
	progression, err := NewProgressionSystem(nil)
	require.NoError(t, err)
	assert.Equal(t, 98, progression.MaxLevel())

	config := progression.GetConfig().(*ProgressionConfig)
	assert.Equal(t, CraftRecordScopeLevel, config.CraftRecordScope)

	_, err = NewProgressionSystem(&ProgressionConfig{CraftRecordScope: "weekly"})
	require.ErrorIs(t, err, ErrConfigInvalid)

	_, err = NewProgressionSystem(&ProgressionConfig{MaxLevel: -1})
	require.ErrorIs(t, err, ErrConfigInvalid)
}

func TestProgressionValidateAgainst(t *testing.T) {
	// Level 2 has no key items, so a three-level run dead-ends there.
	catalog, err := NewCatalogSystem(&CatalogConfig{MaxLevel: 3, Items: map[string]*ItemConfig{
		"ore":   {Name: "Ore", Level: 1},
		"ingot": {Name: "Ingot", Level: 1, KeyItem: true, Recipe: map[string]int64{"ore": 1}},
	}})
	require.NoError(t, err)

	progression, err := NewProgressionSystem(&ProgressionConfig{MaxLevel: 3})
	require.NoError(t, err)
	require.ErrorIs(t, progression.ValidateAgainst(catalog), ErrConfigInvalid)

	progression, err = NewProgressionSystem(&ProgressionConfig{MaxLevel: 2})
	require.NoError(t, err)
	require.NoError(t, progression.ValidateAgainst(catalog))
}

func TestProgressionEligibility(t *testing.T) {
	f := newTestForge(t, nil)
	progression := f.GetProgressionSystem()
	snap := NewSnapshot("p1")

	eligibility := progression.Eligibility(snap)
	assert.Equal(t, 1, eligibility.Level)
	assert.False(t, eligibility.Eligible)
	assert.Equal(t, []string{"bronze_ingot", "leather_strap"}, eligibility.Missing)

	snap.CraftRecord["bronze_ingot"] = true
	eligibility = progression.Eligibility(snap)
	assert.False(t, eligibility.Eligible)
	assert.Equal(t, []string{"leather_strap"}, eligibility.Missing)

	// Owning a key item is not enough; it must have been crafted.
	snap.Inventory["leather_strap"] = 5
	assert.False(t, progression.Eligibility(snap).Eligible)

	snap.CraftRecord["leather_strap"] = true
	eligibility = progression.Eligibility(snap)
	assert.True(t, eligibility.Eligible)
	assert.Empty(t, eligibility.Missing)
}

func TestProgressionAdvance(t *testing.T) {
	f := newTestForge(t, nil)
	progression := f.GetProgressionSystem()
	snap := NewSnapshot("p1")

	_, err := progression.Advance(snap)
	require.ErrorIs(t, err, ErrProgressionNotEligible)
	var notEligible *NotEligibleError
	require.ErrorAs(t, err, &notEligible)
	assert.Equal(t, 1, notEligible.Level)
	assert.Equal(t, []string{"bronze_ingot", "leather_strap"}, notEligible.Missing)
	assert.Equal(t, 1, snap.Level)

	snap.CraftRecord["bronze_ingot"] = true
	snap.CraftRecord["leather_strap"] = true
	level, err := progression.Advance(snap)
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.Equal(t, 2, snap.Level)

	// The default scope resets the craft record on every level-up.
	assert.Empty(t, snap.CraftRecord)
}

func TestProgressionAdvanceProfileScope(t *testing.T) {
	catalog, err := NewCatalogSystem(testCatalogConfig())
	require.NoError(t, err)
	progression, err := NewProgressionSystem(&ProgressionConfig{
		MaxLevel:         3,
		CraftRecordScope: CraftRecordScopeProfile,
	})
	require.NoError(t, err)
	require.NoError(t, progression.ValidateAgainst(catalog))

	snap := NewSnapshot("p1")
	snap.CraftRecord["bronze_ingot"] = true
	snap.CraftRecord["leather_strap"] = true

	level, err := progression.Advance(snap)
	require.NoError(t, err)
	assert.Equal(t, 2, level)
	assert.True(t, snap.CraftRecord["bronze_ingot"])
	assert.True(t, snap.CraftRecord["leather_strap"])
}

func TestProgressionMaxLevel(t *testing.T) {
	f := newTestForge(t, nil)
	progression := f.GetProgressionSystem()
	snap := NewSnapshot("p1")
	snap.Level = 3

	// The terminal level has no key items, so the profile reads as eligible,
	// but advancing past it always fails.
	assert.True(t, progression.Eligibility(snap).Eligible)
	level, err := progression.Advance(snap)
	require.ErrorIs(t, err, ErrProgressionMaxLevel)
	assert.Equal(t, 3, level)
	assert.Equal(t, 3, snap.Level)
}

func TestProgressionLevelLabel(t *testing.T) {
	f := newTestForge(t, nil)
	assert.Equal(t, "set_1", f.GetProgressionSystem().LevelLabel(1))
	assert.Equal(t, "set_42", f.GetProgressionSystem().LevelLabel(42))
}

func TestProgressionKeyItemProgress(t *testing.T) {
	f := newTestForge(t, nil)
	progression := f.GetProgressionSystem()
	snap := NewSnapshot("p1")
	snap.CraftRecord["bronze_ingot"] = true

	progress := progression.KeyItemProgress(snap)
	require.Len(t, progress, 2)

	blacksmith := progress[SpecialtyBlacksmith]
	require.Len(t, blacksmith, 1)
	assert.Equal(t, "bronze_ingot", blacksmith[0].ItemID)
	assert.Equal(t, "Bronze Ingot", blacksmith[0].Name)
	assert.True(t, blacksmith[0].Crafted)

	leatherworker := progress[SpecialtyLeatherworker]
	require.Len(t, leatherworker, 1)
	assert.False(t, leatherworker[0].Crafted)
}
