package forge

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A Session owns the live progression state of one activated profile. The
// host issues one interactive action at a time; the session still serializes
// mutations internally so a craft's validate-consume-produce sequence is
// never observable half-applied. In-memory state is the source of truth;
// commits persist it through the store.
type Session struct {
	mu sync.Mutex

	id     string
	logger *zap.Logger
	forge  Forge
	store  Store
	snap   *ProgressionSnapshot

	rng         *rand.Rand
	now         func() time.Time
	writeBehind bool
	dirty       bool
	closed      bool
}

// SessionOption customizes session behavior at activation.
type SessionOption func(*Session)

// WithRand injects the random source used for drop rolls. Tests pass a
// seeded source; production defaults to a time-seeded one.
func WithRand(rng *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = rng }
}

// WithClock injects the time source used for bonus-window checks.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithWriteBehind defers persistence: commits mark the session dirty and
// Flush (or Deactivate) performs the actual save. In-memory state remains
// authoritative for all reads either way.
func WithWriteBehind() SessionOption {
	return func(s *Session) { s.writeBehind = true }
}

// Activate loads the profile's snapshot (initializing it on first
// activation) and returns the owning session.
func (f *forgeImpl) Activate(ctx context.Context, logger *zap.Logger, store Store, profileID string, opts ...SessionOption) (*Session, error) {
	if store == nil || profileID == "" {
		return nil, ErrBadInput
	}

	snap, err := store.Load(ctx, profileID)
	if err != nil {
		logger.Error("failed to load profile snapshot",
			zap.String("profile_id", profileID), zap.Error(err))
		return nil, err
	}
	snap.normalize()

	s := &Session{
		id:     uuid.NewString(),
		logger: logger,
		forge:  f,
		store:  store,
		snap:   snap,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	logger.Info("profile activated",
		zap.String("session_id", s.id),
		zap.String("profile_id", profileID),
		zap.Int("level", snap.Level),
		zap.Int("owned_items", len(snap.Inventory)))
	return s, nil
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// ProfileID returns the activated profile's id.
func (s *Session) ProfileID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.ProfileID
}

// commit persists the snapshot, or defers it in write-behind mode. Callers
// hold the mutex.
func (s *Session) commit(ctx context.Context) error {
	if s.writeBehind {
		s.dirty = true
		return nil
	}
	if err := s.store.Save(ctx, s.snap); err != nil {
		s.logger.Error("failed to persist snapshot",
			zap.String("profile_id", s.snap.ProfileID), zap.Error(err))
		return err
	}
	s.dirty = false
	return nil
}

// ReviewCompleted handles one qualifying review: the streak advances, the
// active level's drop table is rolled, and any drop is applied to the
// inventory and committed. Returns nil when the no-drop outcome wins.
func (s *Session) ReviewCompleted(ctx context.Context) (*Drop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionNotActive
	}

	drops := s.forge.GetDropSystem()
	if drops == nil {
		return nil, ErrSystemNotAvailable
	}

	s.snap.Streak++

	itemID, err := drops.Roll(s.snap.Level, s.snap.Streak, s.now(), s.rng)
	if err != nil {
		return nil, err
	}

	var drop *Drop
	if itemID != "" {
		if err := s.forge.GetInventorySystem().Add(s.snap, itemID, 1); err != nil {
			return nil, err
		}
		drop = &Drop{
			EventID: uuid.NewString(),
			ItemID:  itemID,
			Level:   s.snap.Level,
			Streak:  s.snap.Streak,
		}
		if item, ok := s.forge.GetCatalogSystem().Item(itemID); ok {
			drop.Name = item.Name
		}
	}

	if err := s.commit(ctx); err != nil {
		return nil, err
	}
	if drop != nil {
		s.logger.Debug("drop granted",
			zap.String("item_id", drop.ItemID), zap.Int64("streak", drop.Streak))
	}
	return drop, nil
}

// ReviewFailed resets the streak.
func (s *Session) ReviewFailed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionNotActive
	}
	if s.snap.Streak == 0 {
		return nil
	}
	s.snap.Streak = 0
	return s.commit(ctx)
}

// Craft executes a craft request and commits the result.
func (s *Session) Craft(ctx context.Context, itemID string) (*CraftResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionNotActive
	}

	result, err := s.forge.GetCraftingSystem().Craft(s.snap, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.commit(ctx); err != nil {
		return nil, err
	}
	s.logger.Debug("item crafted", zap.String("item_id", itemID))
	return result, nil
}

// AdvanceLevel advances the profile one level when eligible and commits.
func (s *Session) AdvanceLevel(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrSessionNotActive
	}

	level, err := s.forge.GetProgressionSystem().Advance(s.snap)
	if err != nil {
		return level, err
	}
	if err := s.commit(ctx); err != nil {
		return level, err
	}
	s.logger.Info("level advanced",
		zap.String("profile_id", s.snap.ProfileID), zap.Int("level", level))
	return level, nil
}

// Inventory lists the owned items with quantities.
func (s *Session) Inventory() []*InventoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forge.GetInventorySystem().List(s.snap)
}

// QuantityOf returns the owned quantity of one item.
func (s *Session) QuantityOf(itemID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forge.GetInventorySystem().QuantityOf(s.snap, itemID)
}

// Recipes lists the recipes unlocked at the current level resolved against
// the inventory.
func (s *Session) Recipes() []*RecipeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forge.GetCraftingSystem().ListRecipes(s.snap, s.snap.Level)
}

// KeyItems reports the current level's key items grouped by specialty.
func (s *Session) KeyItems() map[string][]*KeyItemStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forge.GetProgressionSystem().KeyItemProgress(s.snap)
}

// Level returns the current level.
func (s *Session) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Level
}

// Streak returns the current run of qualifying reviews.
func (s *Session) Streak() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Streak
}

// Eligibility reports whether a level-up is currently allowed and which key
// items still block it.
func (s *Session) Eligibility() *Eligibility {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forge.GetProgressionSystem().Eligibility(s.snap)
}

// Flush persists any deferred state. A no-op when nothing is dirty.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	if err := s.store.Save(ctx, s.snap); err != nil {
		s.logger.Error("failed to flush snapshot",
			zap.String("profile_id", s.snap.ProfileID), zap.Error(err))
		return err
	}
	s.dirty = false
	return nil
}

// Deactivate flushes pending state and closes the session. Further mutating
// calls fail with ErrSessionNotActive.
func (s *Session) Deactivate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if s.dirty {
		if err := s.store.Save(ctx, s.snap); err != nil {
			s.logger.Error("failed to flush snapshot on deactivate",
				zap.String("profile_id", s.snap.ProfileID), zap.Error(err))
			return err
		}
		s.dirty = false
	}
	s.closed = true
	s.logger.Info("profile deactivated", zap.String("profile_id", s.snap.ProfileID))
	return nil
}
