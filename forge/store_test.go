package forge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	sqliteStore, err := OpenSQLiteStore(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		fileStore.Close()
		sqliteStore.Close()
	})
	return map[string]Store{"file": fileStore, "sqlite": sqliteStore}
}

func TestStoreFreshProfile(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			snap, err := store.Load(context.Background(), "never-seen")
			require.NoError(t, err)
			assert.Equal(t, "never-seen", snap.ProfileID)
			assert.Equal(t, 1, snap.Level)
			assert.Empty(t, snap.Inventory)
			assert.Empty(t, snap.CraftRecord)
			assert.Zero(t, snap.Streak)
		})
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			snap := NewSnapshot("p1")
			snap.Level = 4
			snap.Streak = 7
			snap.Inventory["copper_ore"] = 12
			snap.Inventory["bronze_ingot"] = 1
			snap.CraftRecord["bronze_ingot"] = true
			require.NoError(t, store.Save(ctx, snap))

			loaded, err := store.Load(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, snap, loaded)
		})
	}
}

func TestStoreOverwrite(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			snap := NewSnapshot("p1")
			snap.Inventory["copper_ore"] = 1
			require.NoError(t, store.Save(ctx, snap))

			snap.Level = 2
			snap.Inventory["copper_ore"] = 9
			require.NoError(t, store.Save(ctx, snap))

			loaded, err := store.Load(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, 2, loaded.Level)
			assert.Equal(t, int64(9), loaded.Inventory["copper_ore"])
		})
	}
}

func TestStoreRejectsFutureVersion(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			snap := NewSnapshot("p1")
			snap.Version = snapshotVersion + 1
			require.NoError(t, store.Save(ctx, snap))

			_, err := store.Load(ctx, "p1")
			require.ErrorIs(t, err, ErrSnapshotCorrupt)
		})
	}
}

func TestStoreRejectsBadProfileID(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Load(context.Background(), "")
			require.ErrorIs(t, err, ErrBadInput)
		})
	}
}

func TestFileStoreRejectsPathTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	_, err = store.Load(context.Background(), "../escape")
	require.ErrorIs(t, err, ErrBadInput)
}

func TestFileStoreCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "p1"+snapshotFileExt)
	require.NoError(t, os.WriteFile(path, []byte("not a snapshot"), 0o644))

	_, err = store.Load(context.Background(), "p1")
	require.ErrorIs(t, err, ErrSnapshotCorrupt)
}

func TestFileStoreIdenticalStateIdenticalBytes(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	snap := NewSnapshot("p1")
	snap.Inventory["copper_ore"] = 3
	snap.Inventory["animal_hide"] = 1
	snap.CraftRecord["bronze_ingot"] = true
	require.NoError(t, store.Save(ctx, snap))

	path := filepath.Join(dir, "p1"+snapshotFileExt)
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	loaded, err := store.Load(ctx, "p1")
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, loaded))

	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeSnapshotRejectsAnonymous(t *testing.T) {
	_, err := encodeSnapshot(nil)
	require.ErrorIs(t, err, ErrBadInput)
	_, err = encodeSnapshot(&ProgressionSnapshot{})
	require.ErrorIs(t, err, ErrBadInput)
}
