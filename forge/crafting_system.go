package forge

import (
	"fmt"
	"sort"
)

// craftingSystem implements the CraftingSystem interface.
type craftingSystem struct {
	catalog   CatalogSystem
	inventory InventorySystem
}

// NewCraftingSystem creates the recipe engine. Catalog and inventory are
// wired in by the hub.
func NewCraftingSystem() CraftingSystem {
	return &craftingSystem{}
}

func (c *craftingSystem) GetType() SystemType {
	return SystemTypeCrafting
}

func (c *craftingSystem) GetConfig() any {
	return nil
}

func (c *craftingSystem) SetForge(f Forge) {
	c.catalog = f.GetCatalogSystem()
	c.inventory = f.GetInventorySystem()
}

// shortfalls computes every deficient input for a recipe, sorted by item id.
func (c *craftingSystem) shortfalls(snap *ProgressionSnapshot, recipe map[string]int64) []*IngredientShortfall {
	var missing []*IngredientShortfall
	for inputID, required := range recipe {
		owned := c.inventory.QuantityOf(snap, inputID)
		if owned < required {
			missing = append(missing, &IngredientShortfall{
				ItemID:   inputID,
				Required: required,
				Owned:    owned,
				Short:    required - owned,
			})
		}
	}
	sort.Slice(missing, func(a, b int) bool { return missing[a].ItemID < missing[b].ItemID })
	return missing
}

func (c *craftingSystem) Validate(snap *ProgressionSnapshot, itemID string) error {
	if snap == nil {
		return ErrBadInput
	}
	if _, ok := c.catalog.Item(itemID); !ok {
		return fmt.Errorf("%w: %q", ErrItemNotFound, itemID)
	}
	recipe, ok := c.catalog.Recipe(itemID)
	if !ok {
		return ErrCraftNotCraftable
	}
	if missing := c.shortfalls(snap, recipe); len(missing) > 0 {
		return &MissingIngredientsError{ItemID: itemID, Shortfalls: missing}
	}
	return nil
}

func (c *craftingSystem) Craft(snap *ProgressionSnapshot, itemID string) (*CraftResult, error) {
	if err := c.Validate(snap, itemID); err != nil {
		return nil, err
	}

	item, _ := c.catalog.Item(itemID)
	recipe, _ := c.catalog.Recipe(itemID)

	// Validation passed, so each remove is guaranteed to succeed and the
	// whole consume-then-produce sequence cannot partially apply.
	consumed := make(map[string]int64, len(recipe))
	for inputID, required := range recipe {
		if err := c.inventory.Remove(snap, inputID, required); err != nil {
			return nil, ErrInternal
		}
		consumed[inputID] = required
	}
	if err := c.inventory.Add(snap, itemID, 1); err != nil {
		return nil, ErrInternal
	}
	snap.CraftRecord[itemID] = true

	return &CraftResult{
		ItemID:   itemID,
		Name:     item.Name,
		Consumed: consumed,
		Quantity: c.inventory.QuantityOf(snap, itemID),
	}, nil
}

func (c *craftingSystem) ListRecipes(snap *ProgressionSnapshot, level int) []*RecipeView {
	if snap == nil {
		return nil
	}

	views := make([]*RecipeView, 0)
	for _, itemID := range c.catalog.ItemsUnlocked(level) {
		item, _ := c.catalog.Item(itemID)
		recipe, ok := c.catalog.Recipe(itemID)
		if !ok {
			continue
		}

		ingredients := make([]*IngredientView, 0, len(recipe))
		for inputID, required := range recipe {
			view := &IngredientView{
				ItemID:   inputID,
				Required: required,
				Owned:    c.inventory.QuantityOf(snap, inputID),
			}
			if input, ok := c.catalog.Item(inputID); ok {
				view.Name = input.Name
			}
			ingredients = append(ingredients, view)
		}
		sort.Slice(ingredients, func(a, b int) bool { return ingredients[a].ItemID < ingredients[b].ItemID })

		missing := c.shortfalls(snap, recipe)
		views = append(views, &RecipeView{
			ItemID:      itemID,
			Name:        item.Name,
			KeyItem:     item.KeyItem,
			Specialty:   item.Specialty,
			Crafted:     snap.CraftRecord[itemID],
			Ingredients: ingredients,
			CanCraft:    len(missing) == 0,
			Missing:     missing,
		})
	}

	sort.Slice(views, func(a, b int) bool {
		if views[a].Name != views[b].Name {
			return views[a].Name < views[b].Name
		}
		return views[a].ItemID < views[b].ItemID
	})
	return views
}
