package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmartin/resume-dash/internal/localstore"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_url": "http://example.com:9000", "user_id": "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed"}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com:9000", cfg.ServerURL)
	assert.Equal(t, "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed", cfg.UserID)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoad_EmptyPathIsEmptyConfig(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestMergeEnv(t *testing.T) {
	t.Setenv("RESUME_DASH_SERVER_URL", "http://env:1234")
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("PORT", "9090")

	cfg := &Config{APIKey: "file-key"}
	cfg.MergeEnv()

	assert.Equal(t, "http://env:1234", cfg.ServerURL)
	assert.Equal(t, "file-key", cfg.APIKey) // file wins over env
	assert.Equal(t, 9090, cfg.Port)
}

func TestResolveUserID_Precedence(t *testing.T) {
	store := localstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, store.SetString(localstore.KeyUserID, "33333333-3333-3333-3333-333333333333"))
	cfg := &Config{UserID: "22222222-2222-2222-2222-222222222222"}

	// flag beats config beats store
	id, err := ResolveUserID("11111111-1111-1111-1111-111111111111", cfg, store)
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", id.String())

	id, err = ResolveUserID("", cfg, store)
	require.NoError(t, err)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", id.String())

	id, err = ResolveUserID("", &Config{}, store)
	require.NoError(t, err)
	assert.Equal(t, "33333333-3333-3333-3333-333333333333", id.String())
}

func TestResolveUserID_Default(t *testing.T) {
	id, err := ResolveUserID("", &Config{}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserID, id)
}

func TestResolveUserID_Invalid(t *testing.T) {
	_, err := ResolveUserID("not-a-uuid", nil, nil)
	assert.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	store := localstore.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, store.SetString(localstore.KeyGeminiAPIKey, "stored-key"))

	assert.Equal(t, "cfg-key", ResolveAPIKey(&Config{APIKey: "cfg-key"}, store))
	assert.Equal(t, "stored-key", ResolveAPIKey(&Config{}, store))
	assert.Equal(t, "", ResolveAPIKey(nil, nil))
}
