package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelEntryUnmarshalObject(t *testing.T) {
	var entry ModelEntry
	err := json.Unmarshal([]byte(`{"id":"ft:gpt-3.5-turbo-0125:personal::abc","public":false}`), &entry)
	require.NoError(t, err)

	assert.Equal(t, "ft:gpt-3.5-turbo-0125:personal::abc", entry.ID)
	assert.False(t, entry.Public)
}

func TestModelEntryUnmarshalObjectDefaultsPublic(t *testing.T) {
	var entry ModelEntry
	err := json.Unmarshal([]byte(`{"id":"ft:model-x"}`), &entry)
	require.NoError(t, err)

	assert.Equal(t, "ft:model-x", entry.ID)
	assert.True(t, entry.Public, "entries without a public flag default to public")
}

func TestModelEntryUnmarshalLegacyString(t *testing.T) {
	var entry ModelEntry
	err := json.Unmarshal([]byte(`"ft:legacy-model"`), &entry)
	require.NoError(t, err)

	assert.Equal(t, "ft:legacy-model", entry.ID)
	assert.True(t, entry.Public, "legacy bare-string entries are public")
}

func TestModelEntryUnmarshalMissingID(t *testing.T) {
	var entry ModelEntry

	err := json.Unmarshal([]byte(`{"public":true}`), &entry)
	assert.ErrorIs(t, err, ErrMissingModelID)

	err = json.Unmarshal([]byte(`""`), &entry)
	assert.ErrorIs(t, err, ErrMissingModelID)
}

func TestModelEntryUnmarshalUnsupportedShape(t *testing.T) {
	var entry ModelEntry
	err := json.Unmarshal([]byte(`42`), &entry)
	assert.Error(t, err)
}

func TestModelEntryRoundTrip(t *testing.T) {
	entry := ModelEntry{ID: "ft:model-y", Public: false}

	data, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded ModelEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry, decoded)
}
