package lib

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheExportHints() cache.ExportHints   { return cache.ExportHints{} }
func cacheReplaceHints() cache.ReplaceHints { return cache.ReplaceHints{} }

// serializedCache stands in for the broker's marshalable token cache.
type serializedCache struct {
	data []byte
}

func (c *serializedCache) Marshal() ([]byte, error) {
	return c.data, nil
}

func (c *serializedCache) Unmarshal(b []byte) error {
	c.data = append([]byte(nil), b...)
	return nil
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache", "msal_cache_T_C")
	store := &fileStore{path: path}

	out := &serializedCache{data: []byte(`{"AccessToken":{}}`)}
	require.NoError(t, store.Export(ctx, out, cacheExportHints()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	in := &serializedCache{}
	require.NoError(t, store.Replace(ctx, in, cacheReplaceHints()))
	assert.Equal(t, out.data, in.data)
}

func TestFileStoreReplaceMissingFileIsEmptyCache(t *testing.T) {
	store := &fileStore{path: filepath.Join(t.TempDir(), "absent")}
	in := &serializedCache{}
	require.NoError(t, store.Replace(context.Background(), in, cacheReplaceHints()))
	assert.Nil(t, in.data)
}

func TestFileStoreErase(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "msal_cache_T_C")
	store := &fileStore{path: path}

	require.NoError(t, store.Export(ctx, &serializedCache{data: []byte("x")}, cacheExportHints()))
	require.NoError(t, store.Erase(ctx))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// erasing a non-existent entry is not an error
	require.NoError(t, store.Erase(ctx))
}

func TestOpenStoreInsecureSurvivesProcessRestart(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	ctx := context.Background()
	cfg := ResolvedConfig{ClientID: "C", TenantID: "T", CacheMode: CacheInsecure}

	first, err := OpenStore(cfg, "")
	require.NoError(t, err)
	require.IsType(t, &fileStore{}, first, "insecure mode must not touch the secret store")
	require.NoError(t, first.Export(ctx, &serializedCache{data: []byte("persisted")}, cacheExportHints()))

	// a fresh store, as a second helper invocation would open it
	second, err := OpenStore(cfg, "")
	require.NoError(t, err)
	in := &serializedCache{}
	require.NoError(t, second.Replace(ctx, in, cacheReplaceHints()))
	assert.Equal(t, []byte("persisted"), in.data)
}

func TestInsecureCacheDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
	dir, err := InsecureCacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-cache", "git-credential-msal"), dir)
}
