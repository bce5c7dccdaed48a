package assetstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Put(t *testing.T) {
	root := t.TempDir()
	s := NewFileStore(root)

	path, err := s.Put(context.Background(), "acme.com", "logo.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "acme.com", "logo.png"), path)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(got))

	path2, err := s.Put(context.Background(), "acme.com", "logo.png", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, path, path2)
	got, _ = os.ReadFile(path2)
	assert.Equal(t, "v2", string(got))

	entries, err := os.ReadDir(filepath.Join(root, "acme.com"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_PathTraversal(t *testing.T) {
	root := t.TempDir()
	path, err := NewFileStore(root).Put(context.Background(), "../../etc", "../passwd", []byte("x"))
	require.NoError(t, err)
	rel, err := filepath.Rel(root, path)
	require.NoError(t, err)
	assert.NotContains(t, rel, "..")
}

func TestFileStore_Errors(t *testing.T) {
	_, err := NewFileStore("").Put(context.Background(), "a", "b", nil)
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileStore(t.TempDir()).Put(ctx, "a", "b", nil)
	require.Error(t, err)

	_, err = Discard{}.Put(context.Background(), "a", "b", []byte("x"))
	require.Error(t, err)
}

func TestSafeName(t *testing.T) {
	tests := map[string]string{
		"Acme.COM":       "acme.com",
		"  a b/c  ":      "a-b-c",
		"../../etc":      "etc",
		"":               "unknown",
		"logo (1).SVG":   "logo-1-.svg",
		"favicon-32.ico": "favicon-32.ico",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeName(in), in)
	}
}
