package gen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/zodgen"
)

func TestWriterWrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	w := NewWriter(dir, nil).WithLogger(quietLogger())

	written, err := w.Write(ctx, "models.ts", []byte("export {};\n"))
	require.NoError(t, err)
	assert.True(t, written)

	got, err := os.ReadFile(filepath.Join(dir, "models.ts"))
	require.NoError(t, err)
	assert.Equal(t, "export {};\n", string(got))
	assert.NoFileExists(t, filepath.Join(dir, "models.ts.tmp"))

	// Without a cache every write goes to disk.
	written, err = w.Write(ctx, "models.ts", []byte("export {};\n"))
	require.NoError(t, err)
	assert.True(t, written)

	m := w.Metrics()
	assert.Equal(t, 2, m.FilesWritten)
	assert.Equal(t, 0, m.FilesSkipped)
	assert.Equal(t, int64(22), m.TotalBytes)
	assert.Positive(t, m.WriteTime)
}

func TestWriterCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cache := mapCache{}
	w := NewWriter(dir, cache).WithLogger(quietLogger())
	content := []byte("const a = 1;\n")

	written, err := w.Write(ctx, "a.ts", content)
	require.NoError(t, err)
	assert.True(t, written)
	key := zodgen.CacheKey{Target: dir, File: "a.ts"}.String()
	assert.Equal(t, zodgen.Digest(content), string(cache[key]))

	t.Run("unchanged content is skipped", func(t *testing.T) {
		written, err := w.Write(ctx, "a.ts", content)
		require.NoError(t, err)
		assert.False(t, written)
	})

	t.Run("deleted file is rewritten", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(dir, "a.ts")))
		written, err := w.Write(ctx, "a.ts", content)
		require.NoError(t, err)
		assert.True(t, written)
		assert.FileExists(t, filepath.Join(dir, "a.ts"))
	})

	t.Run("changed content is rewritten", func(t *testing.T) {
		written, err := w.Write(ctx, "a.ts", []byte("const a = 2;\n"))
		require.NoError(t, err)
		assert.True(t, written)
		assert.Equal(t, zodgen.Digest([]byte("const a = 2;\n")), string(cache[key]))
	})

	m := w.Metrics()
	assert.Equal(t, 3, m.FilesWritten)
	assert.Equal(t, 1, m.FilesSkipped)
}

type failingCache struct{ mapCache }

func (failingCache) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("cache unavailable")
}

func (failingCache) Set(context.Context, string, []byte) error {
	return errors.New("cache unavailable")
}

func TestWriterCacheErrors(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, failingCache{}).WithLogger(quietLogger())

	for range 2 {
		written, err := w.Write(context.Background(), "a.ts", []byte("x"))
		require.NoError(t, err, "cache failures do not fail the write")
		assert.True(t, written)
	}
}

func TestWriterWriteAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir, nil).WithWorkers(2).WithLogger(quietLogger())

	files := make([]OutputFile, 5)
	for i := range files {
		files[i] = OutputFile{
			Name:    fmt.Sprintf("pkg%d/schema.ts", i),
			Content: []byte(fmt.Sprintf("export const n = %d;\n", i)),
		}
	}
	require.NoError(t, w.WriteAll(context.Background(), files...))
	for i := range files {
		got, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("pkg%d", i), "schema.ts"))
		require.NoError(t, err)
		assert.Equal(t, string(files[i].Content), string(got))
	}
	assert.Equal(t, 5, w.Metrics().FilesWritten)
}

func TestWriterWriteAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	w := NewWriter(dir, nil).WithLogger(quietLogger())
	err := w.WriteAll(ctx, OutputFile{Name: "a.ts", Content: []byte("x")})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, filepath.Join(dir, "a.ts"))
}

func TestWriterWriteError(t *testing.T) {
	dir := t.TempDir()
	// A regular file where a directory is expected.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocked"), nil, 0o644))

	w := NewWriter(dir, nil).WithLogger(quietLogger())
	_, err := w.Write(context.Background(), "blocked/a.ts", []byte("x"))
	require.Error(t, err)
	assert.True(t, zodgen.IsGenerationError(err))
	assert.ErrorIs(t, err, zodgen.ErrGenerationFailed)
}
