package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingModelID is returned when a stored registry entry has no model ID
var ErrMissingModelID = errors.New("model entry has no id")

// ModelEntry maps a user-chosen alias to a provider-assigned model ID plus a
// visibility flag. Public entries are shown on the end-user surface; private
// ones only on the admin surface.
type ModelEntry struct {
	ID     string `json:"id"`
	Public bool   `json:"public"`
}

// modelEntryJSON is the current on-disk shape. Public is a pointer so a
// missing key can be told apart from an explicit false.
type modelEntryJSON struct {
	ID     string `json:"id"`
	Public *bool  `json:"public"`
}

// UnmarshalJSON accepts both the current object form and the legacy form
// where an entry was a bare model-ID string. Legacy entries are treated as
// public; object entries missing "public" default to public as well.
func (e *ModelEntry) UnmarshalJSON(data []byte) error {
	var obj modelEntryJSON
	if err := json.Unmarshal(data, &obj); err == nil {
		if obj.ID == "" {
			return ErrMissingModelID
		}
		public := true
		if obj.Public != nil {
			public = *obj.Public
		}
		*e = ModelEntry{ID: obj.ID, Public: public}
		return nil
	}

	var legacy string
	if err := json.Unmarshal(data, &legacy); err == nil {
		if legacy == "" {
			return ErrMissingModelID
		}
		*e = ModelEntry{ID: legacy, Public: true}
		return nil
	}

	return fmt.Errorf("unsupported model entry shape: %s", string(data))
}
