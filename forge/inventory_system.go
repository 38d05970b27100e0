package forge

import (
	"fmt"
	"sort"
)

// inventorySystem implements the InventorySystem interface.
type inventorySystem struct {
	catalog CatalogSystem
}

// NewInventorySystem creates the inventory ledger system. It has no content
// file of its own; the catalog is wired in by the hub.
func NewInventorySystem() InventorySystem {
	return &inventorySystem{}
}

func (i *inventorySystem) GetType() SystemType {
	return SystemTypeInventory
}

func (i *inventorySystem) GetConfig() any {
	return nil
}

func (i *inventorySystem) SetForge(f Forge) {
	i.catalog = f.GetCatalogSystem()
}

func (i *inventorySystem) Add(snap *ProgressionSnapshot, itemID string, qty int64) error {
	if snap == nil || qty < 1 {
		return ErrBadInput
	}
	if i.catalog != nil {
		if _, ok := i.catalog.Item(itemID); !ok {
			return fmt.Errorf("%w: %q", ErrItemNotFound, itemID)
		}
	}
	snap.Inventory[itemID] += qty
	return nil
}

func (i *inventorySystem) Remove(snap *ProgressionSnapshot, itemID string, qty int64) error {
	if snap == nil || qty < 1 {
		return ErrBadInput
	}
	owned := snap.Inventory[itemID]
	if owned < qty {
		return &InsufficientQuantityError{ItemID: itemID, Requested: qty, Owned: owned}
	}
	if owned == qty {
		delete(snap.Inventory, itemID)
	} else {
		snap.Inventory[itemID] = owned - qty
	}
	return nil
}

func (i *inventorySystem) QuantityOf(snap *ProgressionSnapshot, itemID string) int64 {
	if snap == nil {
		return 0
	}
	return snap.Inventory[itemID]
}

func (i *inventorySystem) List(snap *ProgressionSnapshot) []*InventoryEntry {
	if snap == nil {
		return nil
	}
	entries := make([]*InventoryEntry, 0, len(snap.Inventory))
	for itemID, qty := range snap.Inventory {
		if qty == 0 {
			continue
		}
		entry := &InventoryEntry{ItemID: itemID, Quantity: qty}
		if i.catalog != nil {
			if item, ok := i.catalog.Item(itemID); ok {
				entry.Name = item.Name
			}
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].ItemID < entries[b].ItemID })
	return entries
}
