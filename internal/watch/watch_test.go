package watch

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func noop(context.Context, []string) {}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"a/b", ".git/objects"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	other := t.TempDir()
	file := filepath.Join(other, "api.graphql")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	w, err := New([]string{dir, file}, noop, WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fs.Close() })

	assert.ElementsMatch(t, []string{
		dir,
		filepath.Join(dir, "a"),
		filepath.Join(dir, "a", "b"),
		other,
	}, w.Watched())
	assert.True(t, w.files[file])
	assert.False(t, w.trees[other], "the parent of a file input is not a tree")
}

func TestNewMissingPath(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "missing")}, noop)
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	file := filepath.Join(other, "api.graphql")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	w, err := New([]string{dir, file}, noop, WithLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.fs.Close() })

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"input written", fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Write}, true},
		{"input removed", fsnotify.Event{Name: filepath.Join(dir, "b.json"), Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: filepath.Join(dir, "models.ts"), Op: fsnotify.Write}, false},
		{"explicit file", fsnotify.Event{Name: file, Op: fsnotify.Write}, true},
		{"sibling of explicit file", fsnotify.Event{Name: filepath.Join(other, "b.yaml"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.handle(tt.ev))
		})
	}

	t.Run("new directory", func(t *testing.T) {
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.Mkdir(sub, 0o755))
		assert.True(t, w.handle(fsnotify.Event{Name: sub, Op: fsnotify.Create}))
		assert.True(t, w.trees[sub])
		assert.Contains(t, w.Watched(), sub)
	})

	t.Run("new hidden directory", func(t *testing.T) {
		hidden := filepath.Join(dir, ".cache")
		require.NoError(t, os.Mkdir(hidden, 0o755))
		assert.False(t, w.handle(fsnotify.Event{Name: hidden, Op: fsnotify.Create}))
		assert.False(t, w.trees[hidden])
	})
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan []string, 4)
	w, err := New([]string{dir}, func(_ context.Context, changed []string) {
		changes <- changed
	}, WithDebounce(20*time.Millisecond), WithLogger(quietLogger()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))
	path := filepath.Join(dir, "a.yaml")
	require.NoError(t, os.WriteFile(path, []byte("models: []\n"), 0o644))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{path}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
