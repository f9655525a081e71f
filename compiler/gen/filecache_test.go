package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", CacheFilename)

	c, err := OpenFileCache(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Path())
	assert.NoFileExists(t, path, "opening does not create the file")

	v, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)

	value := []byte("digest")
	require.NoError(t, c.Set(ctx, "out:models.ts", value))
	value[0] = 'D'
	got, err := c.Get(ctx, "out:models.ts")
	require.NoError(t, err)
	assert.Equal(t, "digest", string(got), "values are copied in")

	got[0] = 'X'
	again, _ := c.Get(ctx, "out:models.ts")
	assert.Equal(t, "digest", string(again), "values are copied out")

	t.Run("persists across opens", func(t *testing.T) {
		reopened, err := OpenFileCache(path)
		require.NoError(t, err)
		got, err := reopened.Get(ctx, "out:models.ts")
		require.NoError(t, err)
		assert.Equal(t, "digest", string(got))
	})

	t.Run("delete and clear", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "b", []byte("2")))
		require.NoError(t, c.Delete(ctx, "b"))
		require.NoError(t, c.Delete(ctx, "never set"))
		reopened, err := OpenFileCache(path)
		require.NoError(t, err)
		got, _ := reopened.Get(ctx, "b")
		assert.Nil(t, got)

		require.NoError(t, c.Clear(ctx))
		reopened, err = OpenFileCache(path)
		require.NoError(t, err)
		got, _ = reopened.Get(ctx, "out:models.ts")
		assert.Nil(t, got)
	})
}

func TestFileCacheVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), CacheFilename)
	data, err := msgpack.Marshal(&cacheFile{Version: cacheVersion + 1, Entries: map[string][]byte{"k": []byte("v")}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := OpenFileCache(path)
	require.NoError(t, err)
	got, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileCacheCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), CacheFilename)
	require.NoError(t, os.WriteFile(path, []byte{0xc1}, 0o644))

	_, err := OpenFileCache(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode cache")
}

func TestFileCacheReadError(t *testing.T) {
	// A directory cannot be read as a file.
	_, err := OpenFileCache(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read cache")
}
