package forge

// CraftResult reports a successful craft: what was consumed and what was
// produced.
type CraftResult struct {
	ItemID   string           `json:"item_id"`
	Name     string           `json:"name"`
	Consumed map[string]int64 `json:"consumed"`
	Quantity int64            `json:"quantity"`
}

// IngredientView is one recipe input with the owned count resolved against
// the inventory.
type IngredientView struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Required int64  `json:"required"`
	Owned    int64  `json:"owned"`
}

// RecipeView is the per-recipe row the host's crafting table renders:
// ingredients with owned/required counts, a craftable flag, and the exact
// shortfall for highlighting missing items.
type RecipeView struct {
	ItemID      string                 `json:"item_id"`
	Name        string                 `json:"name"`
	KeyItem     bool                   `json:"key_item"`
	Specialty   string                 `json:"specialty,omitempty"`
	Crafted     bool                   `json:"crafted"`
	Ingredients []*IngredientView      `json:"ingredients"`
	CanCraft    bool                   `json:"can_craft"`
	Missing     []*IngredientShortfall `json:"missing,omitempty"`
}

// A CraftingSystem validates and executes craft requests against the
// catalog's recipes and records which items have ever been crafted.
type CraftingSystem interface {
	System

	// Craft consumes the recipe inputs, produces one unit of the output and
	// records the output id in the craft record. All-or-nothing: on any
	// failure the snapshot is unchanged. Fails with ErrCraftNotCraftable for
	// recipe-less items and with a MissingIngredientsError naming every
	// deficient input otherwise.
	Craft(snap *ProgressionSnapshot, itemID string) (*CraftResult, error)

	// Validate checks inventory coverage of the recipe without mutating
	// anything; returns the same errors Craft would.
	Validate(snap *ProgressionSnapshot, itemID string) error

	// ListRecipes returns the craftable items unlocked at the given level,
	// sorted by name, each resolved against the current inventory.
	ListRecipes(snap *ProgressionSnapshot, level int) []*RecipeView
}
