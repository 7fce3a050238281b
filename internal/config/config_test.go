package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDatabaseID = "0123456789abcdef0123456789abcdef"

func TestLoadCreatesDefaults(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")
	t.Setenv("NOTION_DATABASE_ID", "")
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")

	store, err := Load(path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)

	cfg, err := store.Config()
	require.NoError(t, err)
	assert.Equal(t, "paragraph", cfg.BlockType)
	assert.Equal(t, "Position", cfg.PositionProperty)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "journal.db"), cfg.JournalPath)

	assert.ErrorIs(t, cfg.Validate(), ErrMissingCredentials)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_abc")
	t.Setenv("NOTION_DATABASE_ID", testDatabaseID)
	t.Setenv("JOBAPPLIER_BLOCK_TYPE", "code")

	store, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	cfg, err := store.Config()
	require.NoError(t, err)

	assert.Equal(t, "secret_abc", cfg.NotionToken)
	assert.Equal(t, "code", cfg.BlockType)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "01234567-89ab-cdef-0123-456789abcdef", cfg.DatabaseID)
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "secret_abc")
	t.Setenv("NOTION_DATABASE_ID", testDatabaseID)

	store, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	require.NoError(t, store.Set("block_type", "heading"))

	cfg, err := store.Config()
	require.NoError(t, err)
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BlockType")
}

func TestSetPersists(t *testing.T) {
	t.Setenv("NOTION_TOKEN", "")
	t.Setenv("NOTION_DATABASE_ID", "")
	path := filepath.Join(t.TempDir(), "config.yaml")

	store, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("position_property", "Rank"))
	assert.Error(t, store.Set("favourite_colour", "blue"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Rank", reloaded.Get("position_property"))
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"compact", testDatabaseID},
		{"dashed", "01234567-89ab-cdef-0123-456789abcdef"},
		{"url", "https://www.notion.so/me/" + testDatabaseID + "?v=42"},
		{"url with title", "https://www.notion.so/me/Job-Tracker-" + testDatabaseID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NormalizeID(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "01234567-89ab-cdef-0123-456789abcdef", id)
		})
	}

	_, err := NormalizeID("not-an-id")
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "notion_token")
	assert.Contains(t, keys, "cv_raw_dir")
	assert.True(t, isKnownKey("log_level"))
	assert.False(t, isKnownKey("openai_key"))
}
