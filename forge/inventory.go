package forge

// InventoryEntry is one owned item with its catalog name resolved, for the
// host's inventory table.
type InventoryEntry struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// An InventorySystem is the authoritative owned-quantity ledger. It is a
// stateless rule engine: profile state lives in the snapshot owned by the
// active session, which serializes access.
type InventorySystem interface {
	System

	// Add increments the owned quantity of a known catalog item. qty must be
	// >= 1. Always succeeds for known items; there are no caps.
	Add(snap *ProgressionSnapshot, itemID string, qty int64) error

	// Remove decrements the owned quantity, failing with
	// ErrInventoryInsufficient (carrying the deficit) when owned < qty.
	// Quantities never go negative; a failed remove changes nothing.
	Remove(snap *ProgressionSnapshot, itemID string, qty int64) error

	// QuantityOf returns the owned quantity, zero for absent or unknown ids.
	QuantityOf(snap *ProgressionSnapshot, itemID string) int64

	// List returns the owned items sorted by id, names resolved from the
	// catalog. Ids the current catalog no longer knows are listed with an
	// empty name rather than dropped.
	List(snap *ProgressionSnapshot) []*InventoryEntry
}
