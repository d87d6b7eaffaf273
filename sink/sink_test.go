package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		errMsg string
	}{
		{name: "simple path", path: "Status.ts"},
		{name: "nested path", path: "fr/Status.ts"},
		{name: "deeply nested path", path: "a/b/c/d/file.ts"},
		{name: "empty path", path: "", errMsg: "empty"},
		{name: "absolute path", path: "/absolute/path.ts", errMsg: "absolute paths not allowed"},
		{name: "windows drive", path: "C:/Windows/file.ts", errMsg: "absolute paths not allowed"},
		{name: "lowercase windows drive", path: "c:/path/file.ts", errMsg: "absolute paths not allowed"},
		{name: "traversal inside", path: "foo/../bar.ts", errMsg: "path traversal not allowed"},
		{name: "traversal prefix", path: "../foo.ts", errMsg: "path traversal not allowed"},
		{name: "just dotdot", path: "..", errMsg: "path traversal not allowed"},
		{name: "current dir prefix", path: "./foo.ts", errMsg: "not clean"},
		{name: "double slash", path: "foo//bar.ts", errMsg: "not clean"},
		{name: "trailing slash", path: "foo/bar/", errMsg: "not clean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}

func TestMemorySink(t *testing.T) {
	ctx := context.Background()

	t.Run("write and read", func(t *testing.T) {
		s := NewMemorySink()
		require.NoError(t, s.WriteFile(ctx, "Status.ts", []byte("hello")))
		assert.Equal(t, "hello", string(s.Get("Status.ts")))
		assert.Nil(t, s.Get("Missing.ts"))
	})

	t.Run("overwrite", func(t *testing.T) {
		s := NewMemorySink()
		require.NoError(t, s.WriteFile(ctx, "Status.ts", []byte("first")))
		require.NoError(t, s.WriteFile(ctx, "Status.ts", []byte("second")))
		assert.Equal(t, "second", string(s.Get("Status.ts")))
	})

	t.Run("content is copied", func(t *testing.T) {
		s := NewMemorySink()
		content := []byte("original")
		require.NoError(t, s.WriteFile(ctx, "Status.ts", content))
		content[0] = 'X'
		got := s.Get("Status.ts")
		assert.Equal(t, "original", string(got))
		got[0] = 'Y'
		assert.Equal(t, "original", string(s.Files()["Status.ts"]))
	})

	t.Run("invalid path", func(t *testing.T) {
		s := NewMemorySink()
		assert.ErrorContains(t, s.WriteFile(ctx, "../x.ts", nil), "invalid path")
		assert.Empty(t, s.Files())
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := NewMemorySink()
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, s.WriteFile(cctx, "Status.ts", nil), context.Canceled)
	})

	t.Run("reset", func(t *testing.T) {
		s := NewMemorySink()
		require.NoError(t, s.WriteFile(ctx, "a.ts", nil))
		s.Reset()
		assert.Empty(t, s.Files())
	})

	t.Run("concurrent writes", func(t *testing.T) {
		s := NewMemorySink()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.WriteFile(ctx, fmt.Sprintf("f%d.ts", i), []byte("x")))
			}()
		}
		wg.Wait()
		assert.Len(t, s.Files(), 50)
	})
}

func TestFilesystemSink(t *testing.T) {
	ctx := context.Background()

	t.Run("creates parent directories", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		require.NoError(t, s.WriteFile(ctx, "fr/Status.ts", []byte("content")))

		got, err := os.ReadFile(filepath.Join(dir, "fr", "Status.ts"))
		require.NoError(t, err)
		assert.Equal(t, "content", string(got))

		info, err := os.Stat(filepath.Join(dir, "fr", "Status.ts"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
	})

	t.Run("overwrites by default", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		require.NoError(t, s.WriteFile(ctx, "Status.ts", []byte("first")))
		require.NoError(t, s.WriteFile(ctx, "Status.ts", []byte("second")))

		got, err := os.ReadFile(filepath.Join(dir, "Status.ts"))
		require.NoError(t, err)
		assert.Equal(t, "second", string(got))
	})

	t.Run("overwrite disabled", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		s.Overwrite = false
		require.NoError(t, s.WriteFile(ctx, "Status.ts", []byte("first")))
		assert.ErrorContains(t, s.WriteFile(ctx, "Status.ts", []byte("second")), "already exists")
	})

	t.Run("rejects unsafe paths", func(t *testing.T) {
		s := NewFilesystemSink(t.TempDir())
		for _, p := range []string{"/etc/passwd", "../escape.ts", "a/../../escape.ts", "C:/x.ts"} {
			assert.Error(t, s.WriteFile(ctx, p, []byte("x")), p)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, s.WriteFile(cctx, "Status.ts", nil), context.Canceled)
		_, err := os.Stat(filepath.Join(dir, "Status.ts"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("leaves no temp files", func(t *testing.T) {
		dir := t.TempDir()
		s := NewFilesystemSink(dir)
		var wg sync.WaitGroup
		for i := range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.WriteFile(ctx, fmt.Sprintf("Enum%d.ts", i%5), []byte("x")))
			}()
		}
		wg.Wait()

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 5)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), ".enumshare-"), e.Name())
		}
	})
}

func TestPrefixSink(t *testing.T) {
	ctx := context.Background()
	mem := NewMemorySink()

	fr := &PrefixSink{Sink: mem, Prefix: "fr"}
	require.NoError(t, fr.WriteFile(ctx, "Status.ts", []byte("fr")))
	root := &PrefixSink{Sink: mem}
	require.NoError(t, root.WriteFile(ctx, "Status.ts", []byte("root")))

	assert.Equal(t, "fr", string(mem.Get("fr/Status.ts")))
	assert.Equal(t, "root", string(mem.Get("Status.ts")))
	assert.Error(t, fr.WriteFile(ctx, "../Status.ts", nil))
}

func TestCheckSink(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Same.ts"), []byte("same"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Changed.ts"), []byte("old"), 0644))

	s := NewCheckSink(dir)
	require.NoError(t, s.WriteFile(ctx, "Same.ts", []byte("same")))
	require.NoError(t, s.WriteFile(ctx, "Changed.ts", []byte("new")))
	require.NoError(t, s.WriteFile(ctx, "fr/Missing.ts", []byte("x")))

	assert.Equal(t, 3, s.Checked())
	assert.Equal(t, []Drift{
		{Path: "Changed.ts", Kind: DriftChanged},
		{Path: "fr/Missing.ts", Kind: DriftMissing},
	}, s.Drift())

	got, err := os.ReadFile(filepath.Join(dir, "Changed.ts"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}
