package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

func newTestStore(t *testing.T) *SettingsStore {
	t.Helper()
	store, err := NewSettingsStore(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	return store
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	store := newTestStore(t)

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSettings(), settings)
}

func TestSaveAndLoad_Roundtrip(t *testing.T) {
	store := newTestStore(t)

	settings := domain.DefaultSettings()
	settings.CompanyName = "Acme"
	settings.Chunking.Strategy = domain.ChunkStrategySemantic
	settings.Retrieval.TopK = 8
	settings.Retrieval.FetchK = 40
	settings.Providers.Embedding = domain.AIProviderOllama
	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Acme", loaded.CompanyName)
	assert.Equal(t, domain.ChunkStrategySemantic, loaded.Chunking.Strategy)
	assert.Equal(t, 8, loaded.Retrieval.TopK)
	assert.Equal(t, 40, loaded.Retrieval.FetchK)
	assert.Equal(t, domain.AIProviderOllama, loaded.Providers.Embedding)
}

func TestLoad_PartialFileMergesOverDefaults(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(),
		[]byte("company_name = \"Acme\"\n\n[retrieval]\ntop_k = 3\n"), 0o600))

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Acme", settings.CompanyName)
	assert.Equal(t, 3, settings.Retrieval.TopK)

	// Everything not in the file keeps its default.
	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Chunking.Size, settings.Chunking.Size)
	assert.Equal(t, defaults.Memory.WindowSize, settings.Memory.WindowSize)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(),
		[]byte("[retrieval]\ntop_k = 0\n"), 0o600))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestLoad_RejectsMalformedTOML(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("not = [valid"), 0o600))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestSave_RejectsInvalidSettings(t *testing.T) {
	store := newTestStore(t)

	settings := domain.DefaultSettings()
	settings.Retrieval.Lambda = 2
	assert.Error(t, store.Save(settings))

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err), "invalid settings must not reach disk")
}

func TestSave_FilePermissions(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(domain.DefaultSettings()))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
