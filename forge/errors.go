package forge

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// INVALID_ARGUMENT_ERROR_CODE represents an error for invalid input arguments.
	INVALID_ARGUMENT_ERROR_CODE = 3
	// NOT_FOUND_ERROR_CODE represents an error for a resource not being found.
	NOT_FOUND_ERROR_CODE = 5
	// FAILED_PRECONDITION_ERROR_CODE represents an error for a failed precondition.
	FAILED_PRECONDITION_ERROR_CODE = 9
	// UNIMPLEMENTED_ERROR_CODE represents an error for an unimplemented feature.
	UNIMPLEMENTED_ERROR_CODE = 12
	// INTERNAL_ERROR_CODE represents an internal error.
	INTERNAL_ERROR_CODE = 13
)

// Error is a sentinel error value carrying a gRPC-style status code.
type Error struct {
	Message string
	Code    int
}

func (e *Error) Error() string { return e.Message }

// NewError returns a new error with the given message and status code.
func NewError(message string, code int) *Error {
	return &Error{Message: message, Code: code}
}

var (
	ErrInternal           = NewError("internal error occurred", INTERNAL_ERROR_CODE)
	ErrBadInput           = NewError("bad input", INVALID_ARGUMENT_ERROR_CODE)
	ErrSystemNotFound     = NewError("system not found", INTERNAL_ERROR_CODE)
	ErrSystemNotAvailable = NewError("system not available", INTERNAL_ERROR_CODE)
	ErrSessionNotActive   = NewError("session is not active", FAILED_PRECONDITION_ERROR_CODE)
	ErrConfigInvalid      = NewError("configuration is invalid", INVALID_ARGUMENT_ERROR_CODE)
	ErrSnapshotCorrupt    = NewError("stored snapshot is corrupt", INTERNAL_ERROR_CODE)

	ErrItemNotFound           = NewError("item not found in catalog", NOT_FOUND_ERROR_CODE)
	ErrDropTableEmpty         = NewError("drop table has no eligible items", INVALID_ARGUMENT_ERROR_CODE)
	ErrInventoryInsufficient  = NewError("insufficient item quantity", FAILED_PRECONDITION_ERROR_CODE)
	ErrCraftNotCraftable      = NewError("item has no recipe", INVALID_ARGUMENT_ERROR_CODE)
	ErrCraftMissingIngredient = NewError("missing ingredients for recipe", FAILED_PRECONDITION_ERROR_CODE)
	ErrProgressionNotEligible = NewError("key items not yet crafted for level", FAILED_PRECONDITION_ERROR_CODE)
	ErrProgressionMaxLevel    = NewError("already at the maximum level", FAILED_PRECONDITION_ERROR_CODE)
)

// InsufficientQuantityError reports a failed inventory removal with the
// owned/requested counts so callers can render the deficit.
type InsufficientQuantityError struct {
	ItemID    string
	Requested int64
	Owned     int64
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity of %q: requested %d, owned %d", e.ItemID, e.Requested, e.Owned)
}

func (e *InsufficientQuantityError) Is(target error) bool {
	return target == ErrInventoryInsufficient
}

// IngredientShortfall is one deficient recipe input.
type IngredientShortfall struct {
	ItemID   string `json:"item_id"`
	Required int64  `json:"required"`
	Owned    int64  `json:"owned"`
	Short    int64  `json:"short"`
}

// MissingIngredientsError reports every deficient input of a failed craft
// attempt, not just the first one.
type MissingIngredientsError struct {
	ItemID     string
	Shortfalls []*IngredientShortfall
}

func (e *MissingIngredientsError) Error() string {
	parts := make([]string, 0, len(e.Shortfalls))
	for _, s := range e.Shortfalls {
		parts = append(parts, fmt.Sprintf("%s x%d", s.ItemID, s.Short))
	}
	return fmt.Sprintf("cannot craft %q, missing: %s", e.ItemID, strings.Join(parts, ", "))
}

func (e *MissingIngredientsError) Is(target error) bool {
	return target == ErrCraftMissingIngredient
}

// NotEligibleError reports which key items still block a level-up.
type NotEligibleError struct {
	Level   int
	Missing []string
}

func (e *NotEligibleError) Error() string {
	sort.Strings(e.Missing)
	return fmt.Sprintf("not eligible for level-up from %d, missing key items: %s", e.Level, strings.Join(e.Missing, ", "))
}

func (e *NotEligibleError) Is(target error) bool {
	return target == ErrProgressionNotEligible
}
