package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finetune_admin/internal/models"
	"finetune_admin/internal/storage"
)

func testBuiltins() map[string]models.ModelEntry {
	return map[string]models.ModelEntry{
		"builtin_pub":  {ID: "ft:base::pub", Public: true},
		"builtin_priv": {ID: "ft:base::priv", Public: false},
	}
}

func newTestRegistry(t *testing.T) (*Registry, *storage.FileStore) {
	t.Helper()
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "models.json"))
	reg := New(testBuiltins(), store, nil)
	require.NoError(t, reg.Load())
	return reg, store
}

func TestRegistryLoadMergesBuiltinsAndUser(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "models.json"))
	require.NoError(t, store.Save(map[string]models.ModelEntry{
		"user_model":  {ID: "ft:user::one", Public: true},
		"builtin_pub": {ID: "ft:user::override", Public: false},
	}))

	reg := New(testBuiltins(), store, nil)
	require.NoError(t, reg.Load())

	entries := reg.MergedView()
	assert.Len(t, entries, 3)

	// User entry overrides the builtin wholesale.
	entry, err := reg.Get("builtin_pub")
	require.NoError(t, err)
	assert.Equal(t, models.ModelEntry{ID: "ft:user::override", Public: false}, entry)
}

func TestRegistryLoadUnreadableStoreDegradesToBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	reg := New(testBuiltins(), storage.NewFileStore(path), nil)
	err := reg.Load()

	var readErr *storage.StoreReadError
	require.ErrorAs(t, err, &readErr)
	assert.Len(t, reg.MergedView(), 2, "registry stays usable with builtins only")
}

func TestRegistryMergedViewSorted(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Upsert("aa_first", "ft:first", true))

	entries := reg.MergedView()
	require.Len(t, entries, 3)
	assert.Equal(t, "aa_first", entries[0].Alias)
}

func TestRegistryPublicView(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Upsert("user_private", "ft:hidden", false))

	for _, entry := range reg.PublicView() {
		assert.True(t, entry.Public)
		assert.NotEqual(t, "user_private", entry.Alias)
		assert.NotEqual(t, "builtin_priv", entry.Alias)
	}
	assert.Len(t, reg.PublicView(), 1)
}

func TestRegistryGetPublic(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := reg.GetPublic("builtin_pub")
	assert.NoError(t, err)

	// Private and unknown aliases are indistinguishable.
	_, err = reg.GetPublic("builtin_priv")
	assert.ErrorIs(t, err, storage.ErrModelNotFound)
	_, err = reg.GetPublic("nope")
	assert.ErrorIs(t, err, storage.ErrModelNotFound)
}

func TestRegistryUpsertValidation(t *testing.T) {
	reg, _ := newTestRegistry(t)

	var validationErr *ValidationError

	err := reg.Upsert("   ", "ft:id", true)
	require.ErrorAs(t, err, &validationErr)

	err = reg.Upsert("alias", "  ", true)
	require.ErrorAs(t, err, &validationErr)

	// Nothing was written.
	assert.Len(t, reg.MergedView(), 2)
}

func TestRegistryUpsertTrimsAndPersists(t *testing.T) {
	reg, store := newTestRegistry(t)

	require.NoError(t, reg.Upsert("  my_model  ", "  ft:trained::1  ", true))

	entry, err := reg.Get("my_model")
	require.NoError(t, err)
	assert.Equal(t, "ft:trained::1", entry.ID)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Contains(t, saved, "my_model")
}

func TestRegistryUpsertPreservesUnrelatedDiskEntries(t *testing.T) {
	reg, store := newTestRegistry(t)

	// Another writer adds an entry behind the registry's back.
	require.NoError(t, store.Save(map[string]models.ModelEntry{
		"external": {ID: "ft:external", Public: true},
	}))

	require.NoError(t, reg.Upsert("mine", "ft:mine", true))

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Contains(t, saved, "external")
	assert.Contains(t, saved, "mine")
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	reg, _ := newTestRegistry(t)
	require.NoError(t, reg.Upsert("doomed", "ft:doomed", true))

	require.NoError(t, reg.Remove("doomed"))
	require.NoError(t, reg.Remove("doomed"), "second removal is a no-op")

	_, err := reg.Get("doomed")
	assert.ErrorIs(t, err, storage.ErrModelNotFound)
}

func TestRegistryRemoveBuiltinRevertsOnReload(t *testing.T) {
	reg, _ := newTestRegistry(t)

	require.NoError(t, reg.Remove("builtin_pub"))
	_, err := reg.Get("builtin_pub")
	assert.ErrorIs(t, err, storage.ErrModelNotFound)

	// Builtins were never written to disk, so a reload restores them.
	require.NoError(t, reg.Reload())
	_, err = reg.Get("builtin_pub")
	assert.NoError(t, err)
}

func TestRegistrySetPublic(t *testing.T) {
	reg, store := newTestRegistry(t)

	require.NoError(t, reg.SetPublic("builtin_pub", false))

	entry, err := reg.Get("builtin_pub")
	require.NoError(t, err)
	assert.False(t, entry.Public)

	// The flip lands in the user store as an override.
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Contains(t, saved, "builtin_pub")

	err = reg.SetPublic("unknown", true)
	assert.ErrorIs(t, err, storage.ErrModelNotFound)
}

func TestRegistryRecordFineTunedModel(t *testing.T) {
	reg, _ := newTestRegistry(t)

	alias, err := reg.RecordFineTunedModel("ft:gpt-3.5-turbo::fresh")
	require.NoError(t, err)
	assert.Equal(t, "ft:gpt-3.5-turbo::fresh-3", alias)

	entry, err := reg.Get(alias)
	require.NoError(t, err)
	assert.True(t, entry.Public, "fine-tuned models default to public")

	// Recording again returns the existing alias instead of a duplicate.
	again, err := reg.RecordFineTunedModel("ft:gpt-3.5-turbo::fresh")
	require.NoError(t, err)
	assert.Equal(t, alias, again)
	assert.Len(t, reg.MergedView(), 3)
}

func TestRegistryCommitSkipsUntouchedBuiltins(t *testing.T) {
	reg, store := newTestRegistry(t)
	require.NoError(t, reg.Upsert("mine", "ft:mine", false))

	require.NoError(t, reg.Commit())

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]models.ModelEntry{
		"mine": {ID: "ft:mine", Public: false},
	}, saved)
}

func TestRegistryUpsertWriteFailureKeepsMemoryState(t *testing.T) {
	store := storage.NewFileStore(filepath.Join(t.TempDir(), "no", "such", "dir", "models.json"))
	reg := New(testBuiltins(), store, nil)

	err := reg.Upsert("mine", "ft:mine", true)

	var writeErr *storage.StoreWriteError
	require.True(t, errors.As(err, &writeErr))

	// The in-memory view advanced even though the save failed.
	entry, getErr := reg.Get("mine")
	require.NoError(t, getErr)
	assert.Equal(t, "ft:mine", entry.ID)
}
