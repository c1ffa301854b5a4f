package storage

import (
	"encoding/json"
	"os"

	"finetune_admin/internal/models"
)

// FileStore persists user-added model entries as a single JSON object,
// alias -> entry. Every save overwrites the whole file. A single active
// writer is assumed; concurrent writers lose updates (last write wins).
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path. The file does
// not need to exist yet.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Load reads all entries from disk. A missing file yields an empty map with
// no error. An unreadable or malformed file yields an empty map plus a
// StoreReadError. Individual entries that fail to decode (for example an
// object missing its "id") are dropped; legacy bare-string entries are
// migrated to the object form.
func (s *FileStore) Load() (map[string]models.ModelEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.ModelEntry{}, nil
		}
		return map[string]models.ModelEntry{}, &StoreReadError{Path: s.path, Err: err}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return map[string]models.ModelEntry{}, &StoreReadError{Path: s.path, Err: err}
	}

	entries := make(map[string]models.ModelEntry, len(raw))
	for alias, val := range raw {
		var entry models.ModelEntry
		if err := json.Unmarshal(val, &entry); err != nil {
			continue
		}
		entries[alias] = entry
	}
	return entries, nil
}

// Save writes the full mapping to disk, replacing previous content.
func (s *FileStore) Save(entries map[string]models.ModelEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &StoreWriteError{Path: s.path, Err: err}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &StoreWriteError{Path: s.path, Err: err}
	}
	return nil
}
