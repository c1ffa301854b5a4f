package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"finetune_admin/internal/models"
	"finetune_admin/internal/storage"
	"finetune_admin/internal/utils"
)

// ValidationError rejects a mutation whose alias or model ID is empty after
// trimming. Nothing is written when it is returned.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

// Builtins returns the model entries shipped with the service. A user entry
// under the same alias overrides the builtin in the merged view; the
// defaults themselves are never mutated.
func Builtins() map[string]models.ModelEntry {
	return map[string]models.ModelEntry{
		"model_AlSpfqGn": {ID: "ft:gpt-3.5-turbo-0125:personal::AlSpfqGn", Public: true},
		"model_AlTffoN4": {ID: "ft:gpt-3.5-turbo-0125:personal::AlTffoN4", Public: false},
		"model_AlTewxyb": {ID: "ft:gpt-3.5-turbo-0125:personal::AlTewxyb", Public: true},
	}
}

// Registry is the merged runtime view over builtin and user-added model
// entries. Mutations are read-merge-write against the backing store: the
// disk state is re-read, modified, and written back whole, then the
// in-memory view is updated. A write failure leaves the in-memory view
// updated and surfaces the storage error to the caller.
type Registry struct {
	mu       sync.RWMutex
	builtins map[string]models.ModelEntry
	merged   map[string]models.ModelEntry
	store    *storage.FileStore
	logger   *utils.Logger
}

// Entry pairs an alias with its model entry for list views.
type Entry struct {
	Alias string
	models.ModelEntry
}

// New creates a registry over the given defaults and store. Call Load before
// first use.
func New(builtins map[string]models.ModelEntry, store *storage.FileStore, logger *utils.Logger) *Registry {
	return &Registry{
		builtins: builtins,
		merged:   map[string]models.ModelEntry{},
		store:    store,
		logger:   logger,
	}
}

// Load reads the user entries from disk and rebuilds the merged view. A
// store read failure degrades to builtins only; the error is returned so
// callers can log it, but the registry stays usable.
func (r *Registry) Load() error {
	user, err := r.store.Load()

	r.mu.Lock()
	merged := make(map[string]models.ModelEntry, len(r.builtins)+len(user))
	for alias, entry := range r.builtins {
		merged[alias] = entry
	}
	for alias, entry := range user {
		merged[alias] = entry
	}
	r.merged = merged
	r.mu.Unlock()

	if err != nil {
		if r.logger != nil {
			r.logger.Warn("could not load saved models, starting from defaults", "error", err)
		}
		return err
	}
	return nil
}

// Reload discards the in-memory view and rebuilds it from disk.
func (r *Registry) Reload() error {
	return r.Load()
}

// MergedView returns every entry, builtins included, sorted by alias.
func (r *Registry) MergedView() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(models.ModelEntry) bool { return true })
}

// PublicView returns only the public entries, sorted by alias.
func (r *Registry) PublicView() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedLocked(func(e models.ModelEntry) bool { return e.Public })
}

func (r *Registry) sortedLocked(keep func(models.ModelEntry) bool) []Entry {
	entries := make([]Entry, 0, len(r.merged))
	for alias, entry := range r.merged {
		if keep(entry) {
			entries = append(entries, Entry{Alias: alias, ModelEntry: entry})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Alias < entries[j].Alias })
	return entries
}

// Get returns the entry for an alias, or storage.ErrModelNotFound.
func (r *Registry) Get(alias string) (models.ModelEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.merged[alias]
	if !ok {
		return models.ModelEntry{}, storage.ErrModelNotFound
	}
	return entry, nil
}

// GetPublic returns the entry for an alias only if it is public; private and
// unknown aliases both report storage.ErrModelNotFound.
func (r *Registry) GetPublic(alias string) (models.ModelEntry, error) {
	entry, err := r.Get(alias)
	if err != nil {
		return models.ModelEntry{}, err
	}
	if !entry.Public {
		return models.ModelEntry{}, storage.ErrModelNotFound
	}
	return entry, nil
}

// IsBuiltin reports whether an alias names one of the shipped defaults.
func (r *Registry) IsBuiltin(alias string) bool {
	_, ok := r.builtins[alias]
	return ok
}

// Upsert adds or replaces an entry and persists the user set. Alias and
// model ID are trimmed and must be non-empty. On a write failure the
// in-memory view is still updated and the storage error is returned.
func (r *Registry) Upsert(alias, id string, public bool) error {
	alias = strings.TrimSpace(alias)
	id = strings.TrimSpace(id)
	if alias == "" {
		return &ValidationError{Field: "alias"}
	}
	if id == "" {
		return &ValidationError{Field: "model id"}
	}

	entry := models.ModelEntry{ID: id, Public: public}

	// Re-read the disk state so entries written since the last load survive
	// the whole-file overwrite.
	user, _ := r.store.Load()
	user[alias] = entry
	saveErr := r.store.Save(user)

	r.mu.Lock()
	r.merged[alias] = entry
	r.mu.Unlock()

	return saveErr
}

// Remove deletes an alias from the merged view and, if present, from the
// user store. Removing an unknown alias is a no-op. A removed builtin
// reappears after the next Load.
func (r *Registry) Remove(alias string) error {
	var saveErr error
	user, _ := r.store.Load()
	if _, ok := user[alias]; ok {
		delete(user, alias)
		saveErr = r.store.Save(user)
	}

	r.mu.Lock()
	delete(r.merged, alias)
	r.mu.Unlock()

	return saveErr
}

// SetPublic flips the visibility of an existing entry. Changing a builtin
// writes an override into the user store.
func (r *Registry) SetPublic(alias string, public bool) error {
	entry, err := r.Get(alias)
	if err != nil {
		return err
	}
	return r.Upsert(alias, entry.ID, public)
}

// AliasFor returns the alias of the first entry whose model ID matches, in
// alias order.
func (r *Registry) AliasFor(modelID string) (string, bool) {
	for _, entry := range r.MergedView() {
		if entry.ID == modelID {
			return entry.Alias, true
		}
	}
	return "", false
}

// RecordFineTunedModel stores a freshly fine-tuned model under a generated
// alias and marks it public. Recording the same model twice returns the
// existing alias without another write, so repeated status polls stay
// idempotent.
func (r *Registry) RecordFineTunedModel(modelID string) (string, error) {
	if alias, ok := r.AliasFor(modelID); ok {
		return alias, nil
	}

	r.mu.RLock()
	alias := fmt.Sprintf("%s-%d", modelID, len(r.merged)+1)
	r.mu.RUnlock()

	if err := r.Upsert(alias, modelID, true); err != nil {
		return alias, err
	}
	if r.logger != nil {
		r.logger.Info("recorded fine-tuned model", "alias", alias, "model", modelID)
	}
	return alias, nil
}

// Commit writes every entry that differs from the builtin defaults back to
// the store in one shot.
func (r *Registry) Commit() error {
	r.mu.RLock()
	user := make(map[string]models.ModelEntry)
	for alias, entry := range r.merged {
		if builtin, ok := r.builtins[alias]; ok && builtin == entry {
			continue
		}
		user[alias] = entry
	}
	r.mu.RUnlock()

	return r.store.Save(user)
}
